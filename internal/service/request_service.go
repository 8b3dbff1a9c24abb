package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// RequestService is the board of item requests.
type RequestService struct {
	base
}

func NewRequestService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestService {
	return &RequestService{base: newBase(repo, eventBus, logger)}
}

func (s *RequestService) Create(ctx context.Context, userID int64, req *models.ItemRequest) (*models.RequestWithItems, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	req.RequestorID = userID
	req.Created = s.now()
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", req.ID).Int64("requestor_id", userID).Msg("item request created")
	s.publish(events.EventRequestCreated, events.RequestEventPayload{
		RequestID:   req.ID,
		RequestorID: userID,
		Description: req.Description,
	})
	return &models.RequestWithItems{ItemRequest: *req, Items: []models.Item{}}, nil
}

// ListOwn returns the user's own requests, newest first.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]*models.RequestWithItems, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.GetRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

// ListOthers pages through requests made by other users, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, page models.Page) ([]*models.RequestWithItems, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.GetRequestsOfOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, reqs)
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*models.RequestWithItems, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "request with id %d is not found", requestID)
	}

	out, err := s.attachItems(ctx, []*models.ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// attachItems fetches the items answering all requests in a single query.
func (s *RequestService) attachItems(ctx context.Context, reqs []*models.ItemRequest) ([]*models.RequestWithItems, error) {
	out := make([]*models.RequestWithItems, 0, len(reqs))
	if len(reqs) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]models.Item, len(reqs))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], *it)
		}
	}

	for _, r := range reqs {
		fulfilled := byRequest[r.ID]
		if fulfilled == nil {
			fulfilled = []models.Item{}
		}
		out = append(out, &models.RequestWithItems{ItemRequest: *r, Items: fulfilled})
	}
	return out, nil
}

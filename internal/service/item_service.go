package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemService is the item catalog together with the comment board.
type ItemService struct {
	base
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{base: newBase(repo, eventBus, logger)}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if item.RequestID != nil {
		if _, err := s.repo.GetRequestByID(ctx, *item.RequestID); err != nil {
			return nil, notFoundOr(err, "request with id %d is not found", *item.RequestID)
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	s.publish(events.EventItemCreated, events.ItemEventPayload{
		ItemID:    item.ID,
		OwnerID:   ownerID,
		Name:      item.Name,
		RequestID: item.RequestID,
	})
	return item, nil
}

// Update applies patch to the item. Items owned by someone else are
// reported as missing.
func (s *ItemService) Update(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.PatchItem(ctx, userID, itemID, patch)
	if err != nil {
		return nil, notFoundOr(err, "item with id %d is not found", itemID)
	}
	s.logger.Info().Int64("item_id", itemID).Int64("owner_id", userID).Msg("item updated")
	return item, nil
}

// Get returns the item with its comments. Last and next bookings are only
// revealed to the owner.
func (s *ItemService) Get(ctx context.Context, userID, itemID int64) (*models.ItemDetails, error) {
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details, err := s.withBookingsAndComments(ctx, []*models.Item{item}, item.OwnerID == userID)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// ListByOwner pages through the owner's items, each with last/next booking
// and comments.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemDetails, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return s.withBookingsAndComments(ctx, items, true)
}

// withBookingsAndComments loads bookings and comments for all items in one
// query each.
func (s *ItemService) withBookingsAndComments(ctx context.Context, items []*models.Item, forOwner bool) ([]*models.ItemDetails, error) {
	details := make([]*models.ItemDetails, 0, len(items))
	if len(items) == 0 {
		return details, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	comments, err := s.repo.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]models.CommentView, len(items))
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	bookingsByItem := make(map[int64][]models.Booking)
	if forOwner {
		bookings, err := s.repo.GetBookingsByItemIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, b := range bookings {
			bookingsByItem[b.ItemID] = append(bookingsByItem[b.ItemID], b)
		}
	}

	now := s.now()
	for _, it := range items {
		d := &models.ItemDetails{Item: *it, Comments: commentsByItem[it.ID]}
		if d.Comments == nil {
			d.Comments = []models.CommentView{}
		}
		if forOwner {
			d.LastBooking, d.NextBooking = models.LastAndNext(bookingsByItem[it.ID], now)
		}
		details = append(details, d)
	}
	return details, nil
}

// Search finds available items whose name or description contains text.
// Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	items, err := s.repo.SearchItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Item{}
	}
	return items, nil
}

// PostComment lets a user who has finished a booking of the item leave a comment.
func (s *ItemService) PostComment(ctx context.Context, userID, itemID int64, text string) (*models.CommentView, error) {
	now := s.now()

	eligible, err := s.repo.HasFinishedBooking(ctx, itemID, userID, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.IllegalOperationf("user %d has no finished booking of item %d", userID, itemID)
	}

	author, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireItem(ctx, itemID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Text: text, AuthorID: userID, ItemID: itemID, Created: now}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, database.ErrReferenced) {
			return nil, domain.NotFoundf("item with id %d is not found", itemID)
		}
		return nil, err
	}

	metrics.IncCommentPosted()
	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Int64("author_id", userID).Msg("comment posted")
	s.publish(events.EventCommentPosted, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  userID,
		Text:      text,
	})

	return &models.CommentView{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		Created:    comment.Created,
		ItemID:     itemID,
	}, nil
}

package service

import (
	"context"
	"errors"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	base
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{base: newBase(repo, nil, logger)}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, s.storeError(err, user.Email)
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.requireUser(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, domain.NotFoundf("user with id %d is not found", id)
		}
		return nil, s.storeError(err, user.Email)
	}
	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteUser(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return domain.NotFoundf("user with id %d is not found", id)
	case errors.Is(err, database.ErrReferenced):
		return domain.Conflictf("user with id %d still owns items, bookings, requests or comments", id)
	case err != nil:
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.requireUser(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

func (s *UserService) storeError(err error, email string) error {
	if errors.Is(err, database.ErrDuplicate) {
		return domain.Conflictf("email %s is already in use", email)
	}
	return err
}

// Package users implements the user service: registration, lookup, sparse
// updates and removal of users.
package users

import (
	"context"
	"errors"

	"finance-manager/internal/apperr"
	"finance-manager/internal/cache"
	"finance-manager/internal/models"
	"finance-manager/internal/storage"
)

// Messages of the domain conditions reported by the service.
const (
	MsgExists  = "User already exists!!!!"
	msgMissing = "User does not exist with Id: %d"
)

// Service is the user service.
type Service interface {
	Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo  storage.UserRepository
	cache *cache.Cache[int64, models.User]
}

// NewService creates a user service over repo with a cache of cacheSize
// entries.
func NewService(repo storage.UserRepository, cacheSize int) (Service, error) {
	c, err := cache.New[int64, models.User]("users", cacheSize)
	if err != nil {
		return nil, err
	}
	return &service{repo: repo, cache: c}, nil
}

func (s *service) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Exists(MsgExists)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	u := &models.User{Name: req.Name, Email: req.Email}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindExists, err, MsgExists)
		}
		return nil, err
	}
	s.cache.Purge()
	return u, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.cache.GetOrLoad(id, func() (models.User, error) {
		u, err := s.repo.GetUser(ctx, id)
		if err != nil {
			return models.User{}, err
		}
		return *u, nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, err, msgMissing, id)
		}
		return nil, err
	}
	return &u, nil
}

func (s *service) Update(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	u, err := s.repo.GetUser(ctx, req.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Wrap(apperr.KindNotFound, err, msgMissing, req.ID)
		}
		return nil, err
	}

	req.Apply(u)
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return nil, apperr.Wrap(apperr.KindNotFound, err, msgMissing, req.ID)
		case errors.Is(err, storage.ErrDuplicate):
			return nil, apperr.Wrap(apperr.KindExists, err, MsgExists)
		}
		return nil, err
	}
	s.cache.Purge()
	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.Wrap(apperr.KindNotFound, err, msgMissing, id)
		}
		return err
	}
	s.cache.Purge()
	return nil
}

// Package budgets implements the budget service. A budget caps the spending
// of one user in one category; categories compare case-insensitively.
package budgets

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
	MsgExists     = "Budget already exists!!!!"
	msgMissing    = "Budget does not exist with Id: %d"
	msgNoBudgets  = "No budgets found for user with Id: %d"
	msgNoCategory = "Budget for user with Id: %d and category %s not found"
)

// Service is the budget service.
type Service interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Budget, error)
	Get(ctx context.Context, id int64) (*models.Budget, error)
	GetByUserCategory(ctx context.Context, userID int64, category string) (*models.Budget, error)
	Create(ctx context.Context, req models.CreateBudgetRequest) (*models.Budget, error)
	Update(ctx context.Context, req models.UpdateBudgetRequest) (*models.Budget, error)
	Delete(ctx context.Context, id int64) error
}

type categoryKey struct {
	userID   int64
	category string
}

type service struct {
	repo       storage.BudgetRepository
	byUser     *cache.Cache[int64, []models.Budget]
	byCategory *cache.Cache[categoryKey, models.Budget]
}

// NewService creates a budget service over repo. Each cache holds at most
// cacheSize entries.
func NewService(repo storage.BudgetRepository, cacheSize int) (Service, error) {
	byUser, err := cache.New[int64, []models.Budget]("budgets_by_user", cacheSize)
	if err != nil {
		return nil, err
	}
	byCategory, err := cache.New[categoryKey, models.Budget]("budgets_by_category", cacheSize)
	if err != nil {
		return nil, err
	}
	return &service{repo: repo, byUser: byUser, byCategory: byCategory}, nil
}

func (s *service) invalidate() {
	s.byUser.Purge()
	s.byCategory.Purge()
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]models.Budget, error) {
	budgets, err := s.byUser.GetOrLoad(userID, func() ([]models.Budget, error) {
		budgets, err := s.repo.ListBudgetsByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(budgets) == 0 {
			return nil, apperr.NotFound(msgNoBudgets, userID)
		}
		return budgets, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers may modify the slice; the cached one must stay intact.
	return append([]models.Budget(nil), budgets...), nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Budget, error) {
	b, err := s.repo.GetBudget(ctx, id)
	if err != nil {
		return nil, s.mapMissing(err, id)
	}
	return b, nil
}

func (s *service) GetByUserCategory(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	// Keyed by spelling; the database decides which spellings match.
	key := categoryKey{userID: userID, category: category}
	b, err := s.byCategory.GetOrLoad(key, func() (models.Budget, error) {
		b, err := s.repo.GetBudgetByUserCategory(ctx, userID, category)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return models.Budget{}, apperr.Wrap(apperr.KindNotFound, err, msgNoCategory, userID, category)
			}
			return models.Budget{}, err
		}
		return *b, nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *service) Create(ctx context.Context, req models.CreateBudgetRequest) (*models.Budget, error) {
	if _, err := s.repo.GetBudgetByUserCategory(ctx, req.UserID, req.Category); err == nil {
		return nil, apperr.Exists(MsgExists)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	b := &models.Budget{UserID: req.UserID, Category: req.Category, Amount: req.Amount}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindExists, err, MsgExists)
		}
		return nil, err
	}
	s.invalidate()
	return b, nil
}

func (s *service) Update(ctx context.Context, req models.UpdateBudgetRequest) (*models.Budget, error) {
	b, err := s.repo.GetBudget(ctx, req.ID)
	if err != nil {
		return nil, s.mapMissing(err, req.ID)
	}

	req.Apply(b)
	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindExists, err, MsgExists)
		}
		return nil, s.mapMissing(err, req.ID)
	}
	s.invalidate()
	return b, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBudget(ctx, id); err != nil {
		return s.mapMissing(err, id)
	}
	s.invalidate()
	return nil
}

func (s *service) mapMissing(err error, id int64) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, err, msgMissing, id)
	}
	return err
}

// Package expenses implements the expense service and the budget check that
// runs whenever an expense is logged or changed.
package expenses

import (
	"context"
	"errors"
	"sort"

	"finance-manager/internal/apperr"
	"finance-manager/internal/cache"
	"finance-manager/internal/models"
	"finance-manager/internal/storage"
)

const (
	msgMissing    = "expense does not exist with Id: %d"
	msgNoExpenses = "No expenses found for user with Id: %d"
	msgNoCategory = "No expenses found for user with Id: %d and category %s"
)

// Service is the expense service.
type Service interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Expense, error)
	Get(ctx context.Context, id int64) (*models.Expense, error)
	ListByUserCategory(ctx context.Context, userID int64, category string) ([]models.Expense, error)
	Log(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error)
	Update(ctx context.Context, req models.UpdateExpenseRequest) (*models.Expense, error)
	Delete(ctx context.Context, id int64) error
	CategoryTotal(ctx context.Context, userID int64, category string) (float64, error)
	Summary(ctx context.Context, userID int64) (*models.ExpenseSummary, error)
}

type categoryKey struct {
	userID   int64
	category string
}

type service struct {
	repo       storage.ExpenseRepository
	byUser     *cache.Cache[int64, []models.Expense]
	byCategory *cache.Cache[categoryKey, []models.Expense]
}

// NewService creates an expense service over repo. Each cache holds at most
// cacheSize entries.
func NewService(repo storage.ExpenseRepository, cacheSize int) (Service, error) {
	byUser, err := cache.New[int64, []models.Expense]("expenses_by_user", cacheSize)
	if err != nil {
		return nil, err
	}
	byCategory, err := cache.New[categoryKey, []models.Expense]("expenses_by_category", cacheSize)
	if err != nil {
		return nil, err
	}
	return &service{repo: repo, byUser: byUser, byCategory: byCategory}, nil
}

func (s *service) invalidate() {
	s.byUser.Purge()
	s.byCategory.Purge()
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]models.Expense, error) {
	list, err := s.byUser.GetOrLoad(userID, func() ([]models.Expense, error) {
		list, err := s.repo.ListExpensesByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, apperr.NotFound(msgNoExpenses, userID)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]models.Expense(nil), list...), nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Expense, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, mapMissing(err, id)
	}
	return e, nil
}

func (s *service) ListByUserCategory(ctx context.Context, userID int64, category string) ([]models.Expense, error) {
	// Keyed by spelling; the database decides which spellings match.
	key := categoryKey{userID: userID, category: category}
	list, err := s.byCategory.GetOrLoad(key, func() ([]models.Expense, error) {
		list, err := s.repo.ListExpensesByUserCategory(ctx, userID, category)
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, apperr.NotFound(msgNoCategory, userID, category)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]models.Expense(nil), list...), nil
}

func (s *service) Log(ctx context.Context, req models.CreateExpenseRequest) (*models.Expense, error) {
	e := &models.Expense{
		UserID:      req.UserID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	s.invalidate()
	return e, nil
}

func (s *service) Update(ctx context.Context, req models.UpdateExpenseRequest) (*models.Expense, error) {
	e, err := s.repo.GetExpense(ctx, req.ID)
	if err != nil {
		return nil, mapMissing(err, req.ID)
	}

	req.Apply(e)
	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, mapMissing(err, req.ID)
	}
	s.invalidate()
	return e, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return mapMissing(err, id)
	}
	s.invalidate()
	return nil
}

// CategoryTotal is never cached: it feeds the budget check, which must see
// the expense that was just written.
func (s *service) CategoryTotal(ctx context.Context, userID int64, category string) (float64, error) {
	total, err := s.repo.SumExpensesByUserCategory(ctx, userID, category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, apperr.Wrap(apperr.KindNotFound, err, msgNoCategory, userID, category)
		}
		return 0, err
	}
	return total, nil
}

// Summary groups the expenses of a user by case-folded category, largest
// total first.
func (s *service) Summary(ctx context.Context, userID int64) (*models.ExpenseSummary, error) {
	list, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*models.CategorySummary)
	summary := &models.ExpenseSummary{UserID: userID}
	for _, e := range list {
		key := models.NormalizeCategory(e.Category)
		c, ok := byCategory[key]
		if !ok {
			c = &models.CategorySummary{Category: key}
			byCategory[key] = c
		}
		c.Total += e.Amount
		c.Count++
		summary.Total += e.Amount
	}

	summary.Categories = make([]models.CategorySummary, 0, len(byCategory))
	for _, c := range byCategory {
		if summary.Total > 0 {
			c.Percentage = c.Total * 100 / summary.Total
		}
		summary.Categories = append(summary.Categories, *c)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	return summary, nil
}

func mapMissing(err error, id int64) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Wrap(apperr.KindNotFound, err, msgMissing, id)
	}
	return err
}

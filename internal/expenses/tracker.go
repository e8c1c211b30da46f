package expenses

import (
	"context"

	"finance-manager/internal/apperr"
	"finance-manager/internal/clients"
	"finance-manager/internal/events"
	"finance-manager/internal/logging"
	"finance-manager/internal/metrics"
	"finance-manager/internal/models"

	"github.com/rs/zerolog"
)

// UserLookup resolves users owned by the user service.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// BudgetLookup resolves the cap of a user for a category.
type BudgetLookup interface {
	GetBudget(ctx context.Context, userID int64, category string) (*models.Budget, error)
}

// NotificationSender delivers budget-exceeded notices and returns their text.
type NotificationSender interface {
	Notify(ctx context.Context, ev models.BudgetExceeded) (string, error)
}

// Result is the outcome of a tracked write. Notification is empty unless
// the category total went over its cap.
type Result struct {
	Expense      *models.Expense
	Notification string
}

// Tracker writes expenses and checks the category total against the
// user's budget afterwards.
type Tracker struct {
	expenses Service
	users    UserLookup
	budgets  BudgetLookup
	notifier NotificationSender
	events   events.Publisher
}

// NewTracker creates a Tracker. A nil publisher discards events.
func NewTracker(svc Service, users UserLookup, budgets BudgetLookup, notifier NotificationSender, pub events.Publisher) *Tracker {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Tracker{expenses: svc, users: users, budgets: budgets, notifier: notifier, events: pub}
}

// LogExpense stores a new expense for an existing user, then runs the
// budget check. The expense stays stored when a later step fails.
func (t *Tracker) LogExpense(ctx context.Context, req models.CreateExpenseRequest) (*Result, error) {
	user, err := t.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	e, err := t.expenses.Log(ctx, req)
	if err != nil {
		return nil, err
	}
	return t.check(ctx, user, e)
}

// UpdateExpense patches an expense of an existing user, then runs the
// budget check on the updated row.
func (t *Tracker) UpdateExpense(ctx context.Context, req models.UpdateExpenseRequest) (*Result, error) {
	user, err := t.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	e, err := t.expenses.Update(ctx, req)
	if err != nil {
		return nil, err
	}
	return t.check(ctx, user, e)
}

func (t *Tracker) resolveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := t.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, apperr.NotFound(clients.MsgUserNotFound)
	}
	return user, nil
}

func (t *Tracker) check(ctx context.Context, user *models.User, e *models.Expense) (*Result, error) {
	budget, err := t.budgets.GetBudget(ctx, e.UserID, e.Category)
	if err != nil {
		return nil, err
	}

	total, err := t.expenses.CategoryTotal(ctx, e.UserID, e.Category)
	if err != nil {
		return nil, err
	}

	res := &Result{Expense: e}
	if total <= budget.Amount {
		return res, nil
	}

	ev := models.BudgetExceeded{
		Category:    budget.Category,
		Cap:         budget.Amount,
		Description: e.Description,
		Total:       total,
		Email:       user.Email,
	}
	metrics.BudgetExceeded.Inc()
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str(logging.EVENT, "budget_exceeded").
		Int64("user_id", e.UserID).
		Str("category", budget.Category).
		Float64("total", total).
		Float64("cap", budget.Amount).
		Msg("budget exceeded")

	text, err := t.notifier.Notify(ctx, ev)
	if err != nil {
		return nil, err
	}
	res.Notification = text

	if err := t.events.PublishBudgetExceeded(ctx, ev); err != nil {
		logger.Warn().Err(err).Msg("publish budget exceeded")
	}
	return res, nil
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"finance-manager/internal/apperr"
	"finance-manager/internal/budgets"
	"finance-manager/internal/clients"
	"finance-manager/internal/expenses"
	"finance-manager/internal/httpapi"
	"finance-manager/internal/models"
	"finance-manager/internal/notifications"
	"finance-manager/internal/storage"
	"finance-manager/internal/users"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type registrar interface {
	Register(mux *http.ServeMux)
}

func newRouter(service string, r registrar) http.Handler {
	mux := http.NewServeMux()
	r.Register(mux)
	return httpapi.Middleware(service, zerolog.Nop(), mux)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type fakeUsers map[int64]models.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, apperr.NotFound(clients.MsgUserNotFound)
	}
	return &u, nil
}

type fakeBudgets struct {
	svc budgets.Service
}

func (f fakeBudgets) GetBudget(ctx context.Context, userID int64, category string) (*models.Budget, error) {
	return f.svc.GetByUserCategory(ctx, userID, category)
}

type fakeNotifier struct {
	calls int
}

func (f *fakeNotifier) Notify(_ context.Context, ev models.BudgetExceeded) (string, error) {
	f.calls++
	return notifications.Render(ev), nil
}

// UserHandlersSuite exercises the user endpoints against sqlite.
type UserHandlersSuite struct {
	suite.Suite
	db     *storage.DB
	router http.Handler
}

func (s *UserHandlersSuite) SetupTest() {
	db, err := storage.NewDB(":memory:", storage.TableUsers)
	require.NoError(s.T(), err)
	s.db = db
	svc, err := users.NewService(db, 16)
	require.NoError(s.T(), err)
	s.router = newRouter("user", NewUsers(svc))
}

func (s *UserHandlersSuite) TearDownTest() { s.db.Close() }

func (s *UserHandlersSuite) TestLifecycle() {
	t := s.T()

	rec := do(t, s.router, http.MethodPost, "/financeManagement/users", `{"name":"Alice","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodPost, "/financeManagement/users", `{"name":"Again","email":"alice@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error creating user: User already exists!!!!", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userById?userId=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":1,"name":"Alice","email":"alice@example.com"}`, rec.Body.String())

	rec = do(t, s.router, http.MethodPut, "/financeManagement/UserDetailsUpdate", `{"userId":1,"name":"Alice Smith"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User details updated successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userById?userId=1", "")
	assert.JSONEq(t, `{"userId":1,"name":"Alice Smith","email":"alice@example.com"}`, rec.Body.String())

	rec = do(t, s.router, http.MethodDelete, "/financeManagement/userDeletion/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodDelete, "/financeManagement/userDeletion/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error deleting user: User does not exist with Id: 1", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userById?userId=1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (s *UserHandlersSuite) TestBadRequests() {
	t := s.T()

	rec := do(t, s.router, http.MethodPost, "/financeManagement/users", `{"name":"Alice","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.router, http.MethodPost, "/financeManagement/users", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userById", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s.router, http.MethodPut, "/financeManagement/UserDetailsUpdate", `{"userId":9,"name":"X"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error updating user: User does not exist with Id: 9", rec.Body.String())
}

func TestUserHandlers(t *testing.T) {
	suite.Run(t, new(UserHandlersSuite))
}

// BudgetHandlersSuite exercises the budget endpoints against sqlite.
type BudgetHandlersSuite struct {
	suite.Suite
	db     *storage.DB
	router http.Handler
}

func (s *BudgetHandlersSuite) SetupTest() {
	db, err := storage.NewDB(":memory:", storage.TableBudgets)
	require.NoError(s.T(), err)
	s.db = db
	svc, err := budgets.NewService(db, 16)
	require.NoError(s.T(), err)
	s.router = newRouter("budget", NewBudgets(svc, fakeUsers{1: {ID: 1, Email: "alice@example.com"}}))
}

func (s *BudgetHandlersSuite) TearDownTest() { s.db.Close() }

func (s *BudgetHandlersSuite) TestLifecycle() {
	t := s.T()

	rec := do(t, s.router, http.MethodPost, "/financeManagement/budgetCreation", `{"userId":1,"category":"Food","amount":500}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Budget created successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodPost, "/financeManagement/budgetCreation", `{"userId":1,"category":"food","amount":100}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Error creating budget: Budget already exists!!!!", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userCategoryBudget?userId=1&category=FOOD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"userId":1,"category":"Food","amount":500}`, rec.Body.String())

	rec = do(t, s.router, http.MethodPut, "/financeManagement/budgetUpdate", `{"id":1,"amount":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Budget updated successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"userId":1,"category":"Food","amount":500}`, rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/budgets/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"userId":1,"category":"Food","amount":500}]`, rec.Body.String())

	rec = do(t, s.router, http.MethodDelete, "/financeManagement/budgetDeletion/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Budget deleted successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodDelete, "/financeManagement/budgetDeletion/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Error deleting budget: Budget does not exist with Id: 1", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/budgets/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (s *BudgetHandlersSuite) TestCreateForUnknownUser() {
	rec := do(s.T(), s.router, http.MethodPost, "/financeManagement/budgetCreation", `{"userId":2,"category":"Food","amount":500}`)
	assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	assert.Equal(s.T(), "Error creating budget: user not found", rec.Body.String())
}

func (s *BudgetHandlersSuite) TestUpdateMissing() {
	rec := do(s.T(), s.router, http.MethodPut, "/financeManagement/budgetUpdate", `{"id":3,"amount":10}`)
	assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	assert.Equal(s.T(), "Error updating budget: Budget does not exist with Id: 3", rec.Body.String())
}

func (s *BudgetHandlersSuite) TestLookupErrors() {
	rec := do(s.T(), s.router, http.MethodGet, "/financeManagement/abc", "")
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)

	rec = do(s.T(), s.router, http.MethodGet, "/financeManagement/42", "")
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)

	rec = do(s.T(), s.router, http.MethodGet, "/financeManagement/userCategoryBudget?userId=1", "")
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)

	rec = do(s.T(), s.router, http.MethodGet, "/financeManagement/userCategoryBudget?userId=1&category=Food", "")
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func TestBudgetHandlers(t *testing.T) {
	suite.Run(t, new(BudgetHandlersSuite))
}

// ExpenseHandlersSuite exercises the expense endpoints with a real budget
// service behind a fake client.
type ExpenseHandlersSuite struct {
	suite.Suite
	expenseDB *storage.DB
	budgetDB  *storage.DB
	notifier  *fakeNotifier
	router    http.Handler
}

func (s *ExpenseHandlersSuite) SetupTest() {
	t := s.T()

	expenseDB, err := storage.NewDB(":memory:", storage.TableExpenses)
	require.NoError(t, err)
	s.expenseDB = expenseDB
	budgetDB, err := storage.NewDB(":memory:", storage.TableBudgets)
	require.NoError(t, err)
	s.budgetDB = budgetDB

	budgetSvc, err := budgets.NewService(budgetDB, 16)
	require.NoError(t, err)
	_, err = budgetSvc.Create(context.Background(), models.CreateBudgetRequest{UserID: 1, Category: "Food", Amount: 1000})
	require.NoError(t, err)

	expenseSvc, err := expenses.NewService(expenseDB, 16)
	require.NoError(t, err)

	s.notifier = &fakeNotifier{}
	tracker := expenses.NewTracker(expenseSvc,
		fakeUsers{1: {ID: 1, Name: "Alice", Email: "alice@example.com"}},
		fakeBudgets{budgetSvc}, s.notifier, nil)
	s.router = newRouter("expense", NewExpenses(expenseSvc, tracker))
}

func (s *ExpenseHandlersSuite) TearDownTest() {
	s.expenseDB.Close()
	s.budgetDB.Close()
}

func (s *ExpenseHandlersSuite) TestCreateUntilExceeded() {
	t := s.T()

	rec := do(t, s.router, http.MethodPost, "/financeManagement/expenseCreation",
		`{"userId":1,"category":"Food","amount":900,"description":"Groceries"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "expense created successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodPost, "/financeManagement/expenseCreation",
		`{"userId":1,"category":"food","amount":300,"description":"Dinner"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "your total expense of **1200.0** has exceeded your budget of **1000.0** for **Food**")
	assert.Contains(t, rec.Body.String(), "Description of Last Expense: Dinner")
	assert.Equal(t, 1, s.notifier.calls)

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userCategoryExpense?userId=1&category=FOOD", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":1,"userId":1,"category":"Food","amount":900,"description":"Groceries"},
		{"id":2,"userId":1,"category":"food","amount":300,"description":"Dinner"}
	]`, rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/expenseSummary/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":1,"total":1200,"categories":[{"category":"food","total":1200,"count":2,"percentage":100}]}`, rec.Body.String())
}

func (s *ExpenseHandlersSuite) TestCreateErrors() {
	t := s.T()

	rec := do(t, s.router, http.MethodPost, "/financeManagement/expenseCreation",
		`{"userId":2,"category":"Food","amount":1,"description":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Error creating expense: user not found", rec.Body.String())

	rec = do(t, s.router, http.MethodPost, "/financeManagement/expenseCreation",
		`{"userId":1,"category":"Travel","amount":1,"description":"Bus"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error creating expense: ")

	rec = do(t, s.router, http.MethodPost, "/financeManagement/expenseCreation",
		`{"userId":1,"category":"Food","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func (s *ExpenseHandlersSuite) TestUpdateAndDelete() {
	t := s.T()

	rec := do(t, s.router, http.MethodPost, "/financeManagement/expenseCreation",
		`{"userId":1,"category":"Food","amount":100,"description":"Lunch"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s.router, http.MethodPut, "/financeManagement/expenseUpdate", `{"id":1,"userId":1,"description":"Brunch"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Expense updated successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"userId":1,"category":"Food","amount":100,"description":"Brunch"}`, rec.Body.String())

	rec = do(t, s.router, http.MethodPut, "/financeManagement/expenseUpdate", `{"id":1,"userId":1,"amount":5000}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dear User")

	rec = do(t, s.router, http.MethodPut, "/financeManagement/expenseUpdate", `{"id":9,"userId":1,"amount":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, s.router, http.MethodDelete, "/financeManagement/expenseDeletion/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Expense deleted successfully", rec.Body.String())

	rec = do(t, s.router, http.MethodDelete, "/financeManagement/expenseDeletion/1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Error deleting expense: expense does not exist with Id: 1", rec.Body.String())
}

func (s *ExpenseHandlersSuite) TestLookupMisses() {
	t := s.T()

	rec := do(t, s.router, http.MethodGet, "/financeManagement/expense/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s.router, http.MethodGet, "/financeManagement/userCategoryExpense?userId=1&category=Food", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Expense for user with ID 1 and category Food not found.", rec.Body.String())

	rec = do(t, s.router, http.MethodGet, "/financeManagement/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpenseHandlers(t *testing.T) {
	suite.Run(t, new(ExpenseHandlersSuite))
}

func TestNotificationHandlers(t *testing.T) {
	n := notifications.NewNotifier(notifications.NewLogMailer(zerolog.Nop()), nil, "", zerolog.Nop())
	router := newRouter("notification", NewNotifications(n))

	rec := do(t, router, http.MethodGet,
		"/financeManagement/notifyUser?budgetCategory=Food&budgetAmount=1000&expenseDescription=Dinner&expenseAmount=1200&userEmail=alice%40example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, notifications.Render(models.BudgetExceeded{
		Category:    "Food",
		Cap:         1000,
		Description: "Dinner",
		Total:       1200,
		Email:       "alice@example.com",
	}), rec.Body.String())

	rec = do(t, router, http.MethodGet, "/financeManagement/notifyUser?budgetAmount=lots&expenseAmount=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/financeManagement/notifications?userEmail=alice%40example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

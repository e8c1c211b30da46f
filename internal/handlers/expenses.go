package handlers

import (
	"fmt"
	"net/http"

	"finance-manager/internal/apperr"
	"finance-manager/internal/expenses"
	"finance-manager/internal/httpapi"
	"finance-manager/internal/models"
)

// Expenses serves the expense service endpoints.
type Expenses struct {
	svc     expenses.Service
	tracker *expenses.Tracker
}

// NewExpenses creates the expense handlers. Writes go through tracker so the
// budget check runs after each of them.
func NewExpenses(svc expenses.Service, tracker *expenses.Tracker) *Expenses {
	return &Expenses{svc: svc, tracker: tracker}
}

// Register mounts the expense routes on mux.
func (h *Expenses) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/expense/{userId}", h.ListByUser)
	mux.HandleFunc("GET "+Prefix+"/{expenseId}", h.Get)
	mux.HandleFunc("GET "+Prefix+"/userCategoryExpense", h.ListByUserCategory)
	mux.HandleFunc("GET "+Prefix+"/expenseSummary/{userId}", h.Summary)
	mux.HandleFunc("POST "+Prefix+"/expenseCreation", h.Create)
	mux.HandleFunc("PUT "+Prefix+"/expenseUpdate", h.Update)
	mux.HandleFunc("DELETE "+Prefix+"/expenseDeletion/{id}", h.Delete)
}

// ListByUser returns every expense of a user.
func (h *Expenses) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httpapi.PathID(r, "userId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	list, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		writeLookupError(w, r, err, "list expenses")
		return
	}
	writeJSON(w, r, list)
}

// Get returns one expense.
func (h *Expenses) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "expenseId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err, "get expense")
		return
	}
	writeJSON(w, r, e)
}

// ListByUserCategory returns the expenses of a user in a category.
func (h *Expenses) ListByUserCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := httpapi.QueryID(r, "userId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		badRequest(w, r, errCategoryRequired)
		return
	}

	list, err := h.svc.ListByUserCategory(r.Context(), userID, category)
	if err != nil {
		logError(r, err, "list expenses by category")
		if apperr.IsDomain(err) {
			httpapi.WriteText(w, http.StatusNotFound,
				fmt.Sprintf("Expense for user with ID %d and category %s not found.", userID, category))
			return
		}
		httpapi.WriteText(w, http.StatusInternalServerError, msgUnexpected)
		return
	}
	writeJSON(w, r, list)
}

// Create logs an expense. When it pushes the category over budget the
// response is 200 with the notification text instead of 201.
func (h *Expenses) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExpenseRequest
	if err := httpapi.Bind(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := h.tracker.LogExpense(r.Context(), req)
	if err != nil {
		writeMutationError(w, r, err, http.StatusNotFound, "Error creating expense")
		return
	}
	if res.Notification != "" {
		httpapi.WriteText(w, http.StatusOK, res.Notification)
		return
	}
	httpapi.WriteText(w, http.StatusCreated, "expense created successfully")
}

// Update patches an expense and re-runs the budget check.
func (h *Expenses) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateExpenseRequest
	if err := httpapi.Bind(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	res, err := h.tracker.UpdateExpense(r.Context(), req)
	if err != nil {
		writeMutationError(w, r, err, http.StatusForbidden, "Error updating expense")
		return
	}
	if res.Notification != "" {
		httpapi.WriteText(w, http.StatusOK, res.Notification)
		return
	}
	httpapi.WriteText(w, http.StatusOK, "Expense updated successfully")
}

// Delete removes an expense.
func (h *Expenses) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeMutationError(w, r, err, http.StatusForbidden, "Error deleting expense")
		return
	}
	httpapi.WriteText(w, http.StatusOK, "Expense deleted successfully")
}

package handlers

import (
	"context"
	"net/http"

	"finance-manager/internal/budgets"
	"finance-manager/internal/httpapi"
	"finance-manager/internal/models"
)

// UserLookup resolves users owned by the user service.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

// Budgets serves the budget service endpoints.
type Budgets struct {
	svc   budgets.Service
	users UserLookup
}

// NewBudgets creates the budget handlers. Budget creation checks the owner
// through users.
func NewBudgets(svc budgets.Service, users UserLookup) *Budgets {
	return &Budgets{svc: svc, users: users}
}

// Register mounts the budget routes on mux.
func (h *Budgets) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/budgets/{userId}", h.ListByUser)
	mux.HandleFunc("GET "+Prefix+"/{budgetId}", h.Get)
	mux.HandleFunc("POST "+Prefix+"/budgetCreation", h.Create)
	mux.HandleFunc("PUT "+Prefix+"/budgetUpdate", h.Update)
	mux.HandleFunc("DELETE "+Prefix+"/budgetDeletion/{id}", h.Delete)
	mux.HandleFunc("GET "+Prefix+"/userCategoryBudget", h.GetByUserCategory)
}

// ListByUser returns every budget of a user.
func (h *Budgets) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httpapi.PathID(r, "userId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	list, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		writeLookupError(w, r, err, "list budgets")
		return
	}
	writeJSON(w, r, list)
}

// Get returns one budget.
func (h *Budgets) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "budgetId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err, "get budget")
		return
	}
	writeJSON(w, r, b)
}

// Create adds a budget for an existing user.
func (h *Budgets) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBudgetRequest
	if err := httpapi.Bind(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if _, err := h.users.GetUser(r.Context(), req.UserID); err != nil {
		writeMutationError(w, r, err, http.StatusForbidden, "Error creating budget")
		return
	}
	if _, err := h.svc.Create(r.Context(), req); err != nil {
		writeMutationError(w, r, err, http.StatusForbidden, "Error creating budget")
		return
	}
	httpapi.WriteText(w, http.StatusCreated, "Budget created successfully")
}

// Update applies a sparse patch to a budget.
func (h *Budgets) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateBudgetRequest
	if err := httpapi.Bind(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if _, err := h.svc.Update(r.Context(), req); err != nil {
		writeMutationError(w, r, err, http.StatusForbidden, "Error updating budget")
		return
	}
	httpapi.WriteText(w, http.StatusOK, "Budget updated successfully")
}

// Delete removes a budget.
func (h *Budgets) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeMutationError(w, r, err, http.StatusForbidden, "Error deleting budget")
		return
	}
	httpapi.WriteText(w, http.StatusOK, "Budget deleted successfully")
}

// GetByUserCategory returns the budget of a user for a category.
func (h *Budgets) GetByUserCategory(w http.ResponseWriter, r *http.Request) {
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
	b, err := h.svc.GetByUserCategory(r.Context(), userID, category)
	if err != nil {
		writeLookupError(w, r, err, "get budget by category")
		return
	}
	writeJSON(w, r, b)
}

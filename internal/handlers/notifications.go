package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"finance-manager/internal/httpapi"
	"finance-manager/internal/models"
	"finance-manager/internal/notifications"
)

// Notifications serves the notification service endpoints.
type Notifications struct {
	notifier *notifications.Notifier
}

// NewNotifications creates the notification handlers.
func NewNotifications(n *notifications.Notifier) *Notifications {
	return &Notifications{notifier: n}
}

// Register mounts the notification routes on mux.
func (h *Notifications) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Prefix+"/notifyUser", h.Notify)
	mux.HandleFunc("GET "+Prefix+"/notifications", h.History)
}

// Notify renders and dispatches a budget-exceeded notice and responds with
// its text. Delivery problems do not change the response.
func (h *Notifications) Notify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	budget, err := parseAmount(q.Get("budgetAmount"), "budgetAmount")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	total, err := parseAmount(q.Get("expenseAmount"), "expenseAmount")
	if err != nil {
		badRequest(w, r, err)
		return
	}

	text := h.notifier.Notify(r.Context(), models.BudgetExceeded{
		Category:    q.Get("budgetCategory"),
		Cap:         budget,
		Description: q.Get("expenseDescription"),
		Total:       total,
		Email:       q.Get("userEmail"),
	})
	httpapi.WriteText(w, http.StatusOK, text)
}

// History lists the recorded notifications of the userEmail query parameter.
func (h *Notifications) History(w http.ResponseWriter, r *http.Request) {
	list, err := h.notifier.History(r.URL.Query().Get("userEmail"))
	if err != nil {
		writeLookupError(w, r, err, "notification history")
		return
	}
	writeJSON(w, r, list)
}

func parseAmount(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

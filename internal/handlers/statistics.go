package handlers

import (
	"net/http"

	"finance-manager/internal/httpapi"
)

// Summary returns the spending of a user broken down by category.
func (h *Expenses) Summary(w http.ResponseWriter, r *http.Request) {
	userID, err := httpapi.PathID(r, "userId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	summary, err := h.svc.Summary(r.Context(), userID)
	if err != nil {
		writeLookupError(w, r, err, "expense summary")
		return
	}
	writeJSON(w, r, summary)
}

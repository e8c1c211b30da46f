package handlers

import (
	"net/http"

	"finance-manager/internal/httpapi"
	"finance-manager/internal/models"
	"finance-manager/internal/users"
)

// Users serves the user service endpoints.
type Users struct {
	svc users.Service
}

// NewUsers creates the user handlers.
func NewUsers(svc users.Service) *Users {
	return &Users{svc: svc}
}

// Register mounts the user routes on mux.
func (h *Users) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+Prefix+"/users", h.Create)
	mux.HandleFunc("GET "+Prefix+"/userById", h.Get)
	mux.HandleFunc("PUT "+Prefix+"/UserDetailsUpdate", h.Update)
	mux.HandleFunc("DELETE "+Prefix+"/userDeletion/{id}", h.Delete)
}

// Create registers a new user.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := httpapi.Bind(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if _, err := h.svc.Create(r.Context(), req); err != nil {
		writeMutationError(w, r, err, http.StatusInternalServerError, "Error creating user")
		return
	}
	httpapi.WriteText(w, http.StatusCreated, "User created successfully")
}

// Get returns the user named by the userId query parameter.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.QueryID(r, "userId")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, r, err, "get user")
		return
	}
	writeJSON(w, r, u)
}

// Update applies a sparse patch to a user.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := httpapi.Bind(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if _, err := h.svc.Update(r.Context(), req); err != nil {
		writeMutationError(w, r, err, http.StatusInternalServerError, "Error updating user")
		return
	}
	httpapi.WriteText(w, http.StatusOK, "User details updated successfully")
}

// Delete removes a user.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathID(r, "id")
	if err != nil {
		badRequest(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeMutationError(w, r, err, http.StatusInternalServerError, "Error deleting user")
		return
	}
	httpapi.WriteText(w, http.StatusOK, "User deleted successfully")
}

package handlers

import (
	"net/http"

	"aironlab/internal/models"
	"aironlab/internal/store"
)

// Users handles admin account management. Routes in this group are
// admin-role only.
type Users struct {
	users *store.UserStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// List returns every admin account. Password hashes and TOTP secrets
// never serialize (json:"-" on the model).
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ResetTwoFA clears a user's TOTP enrollment so they re-enroll on next
// login. Used when an authenticator device is lost.
func (h *Users) ResetTwoFA(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор пользователя")
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "Пользователь не найден")
		return
	}

	if err := h.users.ResetTOTP(user.ID); err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

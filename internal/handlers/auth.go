package handlers

import (
	"net/http"

	"github.com/abrezinsky/judgesched/internal/auth"
)

// handleLogin checks the admin password, sets the session cookie, and
// returns the token for clients that prefer a bearer header.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, LoginResponse{Token: token})
}

// handleLogout invalidates the session and clears the cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.Auth.LogoutRequest(r)
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// Package handler contains the HTTP layer: request parsing, response
// encoding and the mapping of domain errors to status codes. Business rules
// live in the service layer; handlers never touch the stores directly.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/taskdeck/internal/service"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// credentialsRequest is the body of both POST /users and POST /auth.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new user.
//
// HTTP: POST /users
// 201 {"id": n} on success, 400 for a duplicate or malformed email,
// 422 for an undecodable body.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w)
		return
	}

	id, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint32{"id": id})
}

// HandleLogin authenticates credentials and returns a bearer token.
//
// HTTP: POST /auth
// 200 {"token": t} on success, 400 for unknown email or wrong password
// (deliberately the same answer for both), 422 for an undecodable body.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

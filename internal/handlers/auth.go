package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mnfst/outreach/internal/auth"
	"github.com/mnfst/outreach/internal/models"
)

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles POST /auth/signup
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		h.sendError(w, http.StatusBadRequest, "email, password, first name, and last name are required")
		return
	}

	existing, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	if existing != nil {
		h.sendError(w, http.StatusBadRequest, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := h.users.Create(user); err != nil {
		h.logger.Error("failed to create user", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.issuer.Issue(auth.Identity{UserID: user.ID, TenantID: user.TenantID})
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.logger.Info("user signed up", "user_id", user.ID, "tenant_id", user.TenantID)
	h.sendJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// Signin handles POST /auth/signin
func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.sendError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issuer.Issue(auth.Identity{UserID: user.ID, TenantID: user.TenantID})
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		h.sendError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.sendJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Signout handles POST /auth/signout. Tokens are stateless, so there is
// nothing to revoke server-side; clients drop the token.
func (h *Handlers) Signout(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

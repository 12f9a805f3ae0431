package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/campus-canteen/internal/api/middleware"
	"github.com/example/campus-canteen/internal/auth"
)

// AuthHandlers exposes the session provider over HTTP
type AuthHandlers struct {
	users  *auth.Directory
	tokens *auth.TokenService
}

func NewAuthHandlers(users *auth.Directory, tokens *auth.TokenService) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens}
}

// RegisterRequest is the sign-up request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the sign-in request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the user as returned to clients
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func userResponse(u *auth.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Register handles sign-up
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" {
		respondJSONError(w, "name and email are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			respondJSONError(w, "email already registered", http.StatusConflict)
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondJSONError(w, "password must be at least 8 characters", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.setSessionCookie(w, r, user)
	respondJSON(w, http.StatusCreated, userResponse(user))
}

// Login handles sign-in
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		respondJSONError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	h.setSessionCookie(w, r, user)
	respondJSON(w, http.StatusOK, userResponse(user))
}

// Logout clears the session cookie
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Me returns the current session's user
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.CurrentSession(r.Context())
	if !session.SignedIn() {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, userResponse(session.User))
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, user *auth.User) {
	token, expiresAt, err := h.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/campus-canteen/internal/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ExtractToken pulls the session token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Cookie first (browser), bearer header as fallback (API clients)
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// ResolveSession attaches the caller's session to the request context.
// Requests without a valid token proceed as anonymous; nothing is rejected
// here. Gating happens in RequireUser and in the admin editor itself.
func ResolveSession(tokens *auth.TokenService, users *auth.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.Anonymous()

			if tokenString := ExtractToken(r); tokenString != "" {
				if claims, err := tokens.Validate(tokenString); err == nil {
					if user, err := users.Get(claims.UserID); err == nil {
						session = auth.Session{User: user}
					}
				}
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous and pending sessions
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentSession(r.Context()).SignedIn() {
			respondError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentSession returns the resolved session, or anonymous if resolution
// never ran
func CurrentSession(ctx context.Context) auth.Session {
	if session, ok := ctx.Value(sessionContextKey).(auth.Session); ok {
		return session
	}
	return auth.Anonymous()
}

// CurrentUserID returns the signed-in user's id, or ""
func CurrentUserID(ctx context.Context) string {
	session := CurrentSession(ctx)
	if !session.SignedIn() {
		return ""
	}
	return session.User.ID
}

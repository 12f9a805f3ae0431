package api

import (
	"log"
	"net/http"

	"github.com/example/campus-canteen/internal/api/middleware"
	"github.com/example/campus-canteen/internal/auth"
)

// RouterConfig bundles the handler sets and the session services
type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	Tokens       *auth.TokenService
	Users        *auth.Directory
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("/api/auth/register", methodHandler(http.MethodPost, cfg.AuthHandlers.Register))
	mux.HandleFunc("/api/auth/login", methodHandler(http.MethodPost, cfg.AuthHandlers.Login))
	mux.HandleFunc("/api/auth/logout", methodHandler(http.MethodPost, cfg.AuthHandlers.Logout))
	mux.HandleFunc("/api/auth/me", methodHandler(http.MethodGet, cfg.AuthHandlers.Me))

	// Menu (public)
	mux.HandleFunc("/menu", methodHandler(http.MethodGet, cfg.Handlers.GetMenu))
	mux.HandleFunc("/menu/grouped", methodHandler(http.MethodGet, cfg.Handlers.GetMenuGrouped))

	// Cart (signed-in users)
	mux.Handle("/cart", middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetCart(w, r)
		case http.MethodDelete:
			cfg.Handlers.ClearCart(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/items", middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Handlers.AddToCart(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/items/", middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			cfg.Handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			cfg.Handlers.RemoveCartItem(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/checkout", middleware.RequireUser(methodHandler(http.MethodPost, cfg.Handlers.Checkout)))

	// Admin (authorization enforced by the editor, fail closed)
	mux.HandleFunc("/admin/menu", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.ListAdminMenu(w, r)
		case http.MethodPost:
			cfg.Handlers.CreateAdminEntry(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/admin/menu/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			cfg.Handlers.UpdateAdminEntry(w, r)
		case http.MethodDelete:
			cfg.Handlers.DeleteAdminEntry(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	resolve := middleware.ResolveSession(cfg.Tokens, cfg.Users)
	return withLogging(resolve(mux))
}

func methodHandler(method string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fn(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/campus-canteen/internal/api/middleware"
	"github.com/example/campus-canteen/internal/checkout"
	"github.com/example/campus-canteen/internal/domain/admin"
	"github.com/example/campus-canteen/internal/domain/cart"
	"github.com/example/campus-canteen/internal/domain/catalog"
)

type Handlers struct {
	source   *catalog.Source
	carts    *cart.Registry
	checkout *checkout.Service
	editor   *admin.Editor
}

func NewHandlers(source *catalog.Source, carts *cart.Registry, checkoutSvc *checkout.Service, editor *admin.Editor) *Handlers {
	return &Handlers{
		source:   source,
		carts:    carts,
		checkout: checkoutSvc,
		editor:   editor,
	}
}

// Menu Handlers

// GetMenu returns the catalog filtered by ?q= and ?category=
func (h *Handlers) GetMenu(w http.ResponseWriter, r *http.Request) {
	entries := catalog.Filter(h.source.Entries(), queryParam(r), categoryParam(r))
	respondJSON(w, http.StatusOK, entries)
}

// GetMenuGrouped returns the filtered catalog partitioned by category
func (h *Handlers) GetMenuGrouped(w http.ResponseWriter, r *http.Request) {
	entries := catalog.Filter(h.source.Entries(), queryParam(r), categoryParam(r))
	respondJSON(w, http.StatusOK, catalog.GroupByCategory(entries))
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	engine := h.carts.ForUser(middleware.CurrentUserID(r.Context()))
	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, ok := h.source.Get(req.ID)
	if !ok {
		respondJSONError(w, "menu entry not found", http.StatusNotFound)
		return
	}

	engine := h.carts.ForUser(middleware.CurrentUserID(r.Context()))
	engine.Add(cart.ItemRef{
		ID:       entry.ID,
		Name:     entry.Name,
		Price:    entry.Price,
		Image:    entry.Image,
		Category: entry.Category,
	})

	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Unknown ids are a no-op, quantity <= 0 removes the line
	engine := h.carts.ForUser(middleware.CurrentUserID(r.Context()))
	engine.SetQuantity(id, req.Quantity)

	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/cart/items/")

	engine := h.carts.ForUser(middleware.CurrentUserID(r.Context()))
	engine.Remove(id)

	respondJSON(w, http.StatusOK, engine.Snapshot())
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	engine := h.carts.ForUser(middleware.CurrentUserID(r.Context()))
	engine.Clear()

	respondJSON(w, http.StatusOK, engine.Snapshot())
}

// Checkout places the order and leaves the cart empty on success
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	session := middleware.CurrentSession(r.Context())

	order, err := h.checkout.Checkout(r.Context(), session.User.ID, session.Email())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondJSONError(w, "cart is empty", http.StatusBadRequest)
			return
		}
		respondJSONError(w, "checkout failed", http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// Admin Handlers

func (h *Handlers) ListAdminMenu(w http.ResponseWriter, r *http.Request) {
	entries, err := h.editor.Entries(adminIdentity(r))
	if err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handlers) CreateAdminEntry(w http.ResponseWriter, r *http.Request) {
	var fields admin.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.editor.Create(adminIdentity(r), fields)
	if err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (h *Handlers) UpdateAdminEntry(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/menu/")

	var fields admin.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.editor.Update(adminIdentity(r), id, fields)
	if err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *Handlers) DeleteAdminEntry(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/admin/menu/")

	if err := h.editor.Delete(adminIdentity(r), id); err != nil {
		respondAdminError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "menu entry deleted"})
}

// Helper functions

func adminIdentity(r *http.Request) admin.Identity {
	session := middleware.CurrentSession(r.Context())
	return admin.Identity{Email: session.Email(), Pending: session.Pending}
}

func respondAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admin.ErrUnauthorized):
		respondJSONError(w, "admin access required", http.StatusForbidden)
	case errors.Is(err, admin.ErrNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, admin.ErrValidation):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

func queryParam(r *http.Request) string {
	return r.URL.Query().Get("q")
}

func categoryParam(r *http.Request) string {
	category := r.URL.Query().Get("category")
	if category == "" {
		return catalog.CategoryAll
	}
	return category
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/campus-canteen/internal/auth"
	"github.com/example/campus-canteen/internal/checkout"
	"github.com/example/campus-canteen/internal/domain/admin"
	"github.com/example/campus-canteen/internal/domain/cart"
	"github.com/example/campus-canteen/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminEmail = "admin@mec.edu.in"

type testServer struct {
	router http.Handler
	users  *auth.Directory
	tokens *auth.TokenService
	carts  *cart.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	source, err := catalog.NewSource([]catalog.Entry{
		{ID: "bf-001", Name: "Masala Dosa", Price: 60, Rating: 4.6, Category: catalog.CategoryBreakfast, Description: "Crispy rice crepe"},
		{ID: "bf-002", Name: "Idli Sambar", Price: 40, Rating: 4.4, Category: catalog.CategoryBreakfast, Description: "Steamed rice cakes"},
		{ID: "dr-001", Name: "Filter Coffee", Price: 20, Rating: 4.9, Category: catalog.CategoryDrinks, Description: "Strong and frothy"},
	})
	require.NoError(t, err)

	users := auth.NewDirectory()
	tokens := auth.NewTokenService("test-secret-key-for-testing-purposes", 15*time.Minute)
	carts := cart.NewRegistry(nil)
	checkoutSvc := checkout.NewService(carts, nil)
	editor := admin.NewEditor(testAdminEmail, source.Entries())

	router := NewRouter(RouterConfig{
		Handlers:     NewHandlers(source, carts, checkoutSvc, editor),
		AuthHandlers: NewAuthHandlers(users, tokens),
		Tokens:       tokens,
		Users:        users,
	})

	return &testServer{router: router, users: users, tokens: tokens, carts: carts}
}

func (ts *testServer) tokenFor(t *testing.T, name, email string) string {
	t.Helper()

	user, err := ts.users.Register(name, email, "secret-password")
	require.NoError(t, err)
	token, _, err := ts.tokens.Issue(user.ID, user.Email, user.Name)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// ============================================
// Auth Endpoints
// ============================================

func TestAuth_RegisterLoginMe(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name: "Asha", Email: "asha@mec.edu.in", Password: "secret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[UserResponse](t, rec)
	assert.Equal(t, "asha@mec.edu.in", registered.Email)

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "asha@mec.edu.in", Password: "secret-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Session cookie from login works against /api/auth/me
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	meRec := httptest.NewRecorder()
	ts.router.ServeHTTP(meRec, req)

	require.Equal(t, http.StatusOK, meRec.Code)
	me := decode[UserResponse](t, meRec)
	assert.Equal(t, registered.ID, me.ID)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.tokenFor(t, "Asha", "asha@mec.edu.in")

	rec := ts.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "asha@mec.edu.in", Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MeAnonymous(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ============================================
// Menu Endpoints
// ============================================

func TestMenu_FilterByQuery(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/menu?q=dosa", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]catalog.Entry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "bf-001", entries[0].ID)
}

func TestMenu_FilterByCategory(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/menu?category=drinks", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]catalog.Entry](t, rec)
	require.Len(t, entries, 1)
	assert.Equal(t, "Filter Coffee", entries[0].Name)
}

func TestMenu_Grouped(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/menu/grouped", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[[]catalog.Group](t, rec)
	require.Len(t, groups, 2)
	assert.Equal(t, catalog.CategoryBreakfast, groups[0].Category)
	assert.Equal(t, catalog.CategoryDrinks, groups[1].Category)
}

// ============================================
// Cart Endpoints
// ============================================

func TestCart_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/cart", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/cart/items", "", map[string]string{"id": "bf-001"}).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, "/checkout", "", nil).Code)
}

func TestCart_AddUpdateRemoveFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.tokenFor(t, "Asha", "asha@mec.edu.in")

	// Add dosa once, idli twice
	rec := ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "bf-001"})
	require.Equal(t, http.StatusOK, rec.Code)
	ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "bf-002"})
	rec = ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "bf-002"})

	snap := decode[cart.Snapshot](t, rec)
	assert.Equal(t, 3, snap.TotalItems)
	assert.Equal(t, 140, snap.TotalPrice)
	require.Len(t, snap.Lines, 2)

	// Absolute quantity update
	rec = ts.do(t, http.MethodPut, "/cart/items/bf-001", token, map[string]int{"quantity": 4})
	snap = decode[cart.Snapshot](t, rec)
	assert.Equal(t, 6, snap.TotalItems)
	assert.Equal(t, 320, snap.TotalPrice)

	// Quantity 0 removes the line
	rec = ts.do(t, http.MethodPut, "/cart/items/bf-001", token, map[string]int{"quantity": 0})
	snap = decode[cart.Snapshot](t, rec)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "bf-002", snap.Lines[0].ID)

	// Delete remaining line
	rec = ts.do(t, http.MethodDelete, "/cart/items/bf-002", token, nil)
	snap = decode[cart.Snapshot](t, rec)
	assert.Empty(t, snap.Lines)
	assert.Equal(t, 0, snap.TotalItems)
}

func TestCart_AddUnknownEntry(t *testing.T) {
	ts := newTestServer(t)
	token := ts.tokenFor(t, "Asha", "asha@mec.edu.in")

	rec := ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "nope"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_IsolatedPerUser(t *testing.T) {
	ts := newTestServer(t)
	asha := ts.tokenFor(t, "Asha", "asha@mec.edu.in")
	ravi := ts.tokenFor(t, "Ravi", "ravi@mec.edu.in")

	ts.do(t, http.MethodPost, "/cart/items", asha, map[string]string{"id": "bf-001"})

	rec := ts.do(t, http.MethodGet, "/cart", ravi, nil)
	snap := decode[cart.Snapshot](t, rec)
	assert.Empty(t, snap.Lines)
}

func TestCart_Clear(t *testing.T) {
	ts := newTestServer(t)
	token := ts.tokenFor(t, "Asha", "asha@mec.edu.in")
	ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "bf-001"})

	rec := ts.do(t, http.MethodDelete, "/cart", token, nil)

	snap := decode[cart.Snapshot](t, rec)
	assert.Empty(t, snap.Lines)
}

// ============================================
// Checkout Endpoint
// ============================================

func TestCheckout_Success(t *testing.T) {
	ts := newTestServer(t)
	token := ts.tokenFor(t, "Asha", "asha@mec.edu.in")
	ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "bf-001"})
	ts.do(t, http.MethodPost, "/cart/items", token, map[string]string{"id": "dr-001"})

	rec := ts.do(t, http.MethodPost, "/checkout", token, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	order := decode[checkout.OrderPlaced](t, rec)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, 80, order.TotalPrice)
	assert.Equal(t, "asha@mec.edu.in", order.Email)

	// Cart is empty afterwards
	snap := decode[cart.Snapshot](t, ts.do(t, http.MethodGet, "/cart", token, nil))
	assert.Empty(t, snap.Lines)
}

func TestCheckout_EmptyCart(t *testing.T) {
	ts := newTestServer(t)
	token := ts.tokenFor(t, "Asha", "asha@mec.edu.in")

	rec := ts.do(t, http.MethodPost, "/checkout", token, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================
// Admin Endpoints
// ============================================

func adminFields() admin.Fields {
	return admin.Fields{Name: "Onion Uttapam", Price: "55", Rating: "4.2", Category: "breakfast", IsVeg: true}
}

func TestAdmin_NonAdminForbidden(t *testing.T) {
	ts := newTestServer(t)
	student := ts.tokenFor(t, "Asha", "asha@mec.edu.in")

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, "/admin/menu", nil},
		{http.MethodPost, "/admin/menu", adminFields()},
		{http.MethodPut, "/admin/menu/bf-001", adminFields()},
		{http.MethodDelete, "/admin/menu/bf-001", nil},
	} {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, ts.do(t, tc.method, tc.path, student, tc.body).Code)
			assert.Equal(t, http.StatusForbidden, ts.do(t, tc.method, tc.path, "", tc.body).Code)
		})
	}
}

func TestAdmin_CRUDFlow(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.tokenFor(t, "Canteen Admin", testAdminEmail)

	// List seeded working set
	rec := ts.do(t, http.MethodGet, "/admin/menu", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]catalog.Entry](t, rec)
	require.Len(t, entries, 3)

	// Create
	rec = ts.do(t, http.MethodPost, "/admin/menu", adminToken, adminFields())
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[catalog.Entry](t, rec)
	assert.NotEmpty(t, created.ID)

	// Update
	fields := adminFields()
	fields.Name = "Tomato Uttapam"
	rec = ts.do(t, http.MethodPut, "/admin/menu/"+created.ID, adminToken, fields)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[catalog.Entry](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Tomato Uttapam", updated.Name)

	// Delete
	rec = ts.do(t, http.MethodDelete, "/admin/menu/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries = decode[[]catalog.Entry](t, ts.do(t, http.MethodGet, "/admin/menu", adminToken, nil))
	assert.Len(t, entries, 3)
}

func TestAdmin_CreateValidation(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.tokenFor(t, "Canteen Admin", testAdminEmail)

	fields := adminFields()
	fields.Price = "abc"

	rec := ts.do(t, http.MethodPost, "/admin/menu", adminToken, fields)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries := decode[[]catalog.Entry](t, ts.do(t, http.MethodGet, "/admin/menu", adminToken, nil))
	assert.Len(t, entries, 3)
}

func TestAdmin_UpdateMissingEntry(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.tokenFor(t, "Canteen Admin", testAdminEmail)

	rec := ts.do(t, http.MethodPut, "/admin/menu/nope", adminToken, adminFields())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventrackpro/inventrack/internal/config"
	"github.com/inventrackpro/inventrack/internal/domain/product"
	apphttp "github.com/inventrackpro/inventrack/internal/http"
	"github.com/inventrackpro/inventrack/internal/repo/memory"
	"github.com/inventrackpro/inventrack/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	users    *memory.UsersRepo
	products *memory.ProductsRepo
	sessions *session.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := memory.NewProductsRepo()
	users := memory.NewUsersRepo(products)
	sessions := session.NewMemoryStore()

	cfg := config.Config{
		Env:        "test",
		SessionTTL: 7 * 24 * time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := apphttp.NewRouter(logger, cfg, apphttp.Deps{
		Users:    users,
		Products: products,
		Sessions: sessions,
	})

	return &testEnv{
		router:   router,
		users:    users,
		products: products,
		sessions: sessions,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}

	t.Fatalf("session cookie not found in response")
	return nil
}

// registers a user and returns their authenticated session cookie

func (e *testEnv) registerUser(t *testing.T, username string) *http.Cookie {
	t.Helper()

	body := fmt.Sprintf(`{"username": %q, "password": "secret-pass"}`, username)

	w := e.do(t, http.MethodPost, "/api/register", body, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: status %d, body=%s", w.Code, w.Body.String())
	}

	return sessionCookie(t, w)
}

func (e *testEnv) createProduct(t *testing.T, cookie *http.Cookie, name string, price float64) product.Product {
	t.Helper()

	body := fmt.Sprintf(`{"name": %q, "description": "test product", "category": "Tools", "price": %v}`, name, price)

	w := e.do(t, http.MethodPost, "/api/products", body, cookie)

	if w.Code != http.StatusCreated {
		t.Fatalf("create product failed: status %d, body=%s", w.Code, w.Body.String())
	}

	var p product.Product

	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}

	return p
}

func TestRegisterAndCurrentUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/register", `{"username": "alice", "password": "secret-pass"}`, nil)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("response leaks password material: %s", w.Body.String())
	}

	cookie := sessionCookie(t, w)

	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	// register is immediately authenticated

	w = env.do(t, http.MethodGet, "/api/user", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser(t, "alice")

	w := env.do(t, http.MethodPost, "/api/register", `{"username": "alice", "password": "other-pass"}`, nil)

	// the API reports duplicates as 400, not 409
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}
}

func TestLoginRejectionsAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser(t, "alice")

	wrongPassword := env.do(t, http.MethodPost, "/api/login", `{"username": "alice", "password": "wrong"}`, nil)
	unknownUser := env.do(t, http.MethodPost, "/api/login", `{"username": "nobody", "password": "wrong"}`, nil)

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got status %d, want 401", wrongPassword.Code)
	}

	if unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: got status %d, want 401", unknownUser.Code)
	}

	// same observable response shape, no username enumeration
	type errBody struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	var a, b errBody

	if err := json.Unmarshal(wrongPassword.Body.Bytes(), &a); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if err := json.Unmarshal(unknownUser.Body.Bytes(), &b); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if a != b {
		t.Fatalf("rejection bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownUser.Body.String())
	}
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)

	env.registerUser(t, "alice")

	w := env.do(t, http.MethodPost, "/api/login", `{"username": "alice", "password": "secret-pass"}`, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	cookie := sessionCookie(t, w)

	w = env.do(t, http.MethodGet, "/api/user", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.registerUser(t, "alice")

	w := env.do(t, http.MethodPost, "/api/logout", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	// the session is gone

	w = env.do(t, http.MethodGet, "/api/user", "", cookie)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401 after logout", w.Code)
	}

	// logging out again is fine

	w = env.do(t, http.MethodPost, "/api/logout", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 on repeated logout", w.Code)
	}
}

func TestAnonymousRequestsAreUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/products"},
		{http.MethodPost, "/api/products"},
		{http.MethodPatch, "/api/profile"},
		{http.MethodPatch, "/api/password"},
		{http.MethodGet, "/api/products/1"},
		{http.MethodDelete, "/api/products/1"},
	}

	for _, p := range paths {
		w := env.do(t, p.method, p.path, "", nil)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: got status %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestProductOwnershipIsEnforced(t *testing.T) {
	env := newTestEnv(t)

	aliceCookie := env.registerUser(t, "alice")
	bobCookie := env.registerUser(t, "bob")

	p := env.createProduct(t, bobCookie, "Bob's Widget", 10)

	path := fmt.Sprintf("/api/products/%d", p.ID)

	tests := []struct {
		name   string
		method string
		body   string
	}{
		{"read", http.MethodGet, ""},
		{"update", http.MethodPatch, `{"name": "Stolen"}`},
		{"delete", http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, path, tt.body, aliceCookie)

			if w.Code != http.StatusForbidden {
				t.Fatalf("got status %d, want 403, body=%s", w.Code, w.Body.String())
			}
		})
	}

	// bob still sees his product untouched

	w := env.do(t, http.MethodGet, path, "", bobCookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestAbsentProductIs404ForEveryone(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.registerUser(t, "alice")

	w := env.do(t, http.MethodGet, "/api/products/9999", "", cookie)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}

	w = env.do(t, http.MethodDelete, "/api/products/9999", "", cookie)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
}

func TestListingIsScopedToCaller(t *testing.T) {
	env := newTestEnv(t)

	aliceCookie := env.registerUser(t, "alice")
	bobCookie := env.registerUser(t, "bob")

	env.createProduct(t, aliceCookie, "Widget", 10)
	env.createProduct(t, bobCookie, "Gadget", 60)

	w := env.do(t, http.MethodGet, "/api/products", "", aliceCookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var got []product.Product

	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if len(got) != 1 || got[0].Name != "Widget" {
		t.Fatalf("expected only alice's Widget, got %+v", got)
	}
}

func TestListingAppliesFilterAndSort(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.registerUser(t, "alice")

	env.createProduct(t, cookie, "Widget", 10)
	env.createProduct(t, cookie, "Gadget", 60)

	w := env.do(t, http.MethodGet, "/api/products?sortBy=price-desc", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var got []product.Product

	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if len(got) != 2 || got[0].Name != "Gadget" || got[1].Name != "Widget" {
		t.Fatalf("expected [Gadget Widget], got %+v", got)
	}
}

func TestRateLimitIsKeyedByUser(t *testing.T) {
	env := newTestEnv(t)

	aliceCookie := env.registerUser(t, "alice")
	bobCookie := env.registerUser(t, "bob")

	doFromIP := func(cookie *http.Cookie, ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req.RemoteAddr = ip + ":1234"
		req.AddCookie(cookie)

		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		return w.Code
	}

	// spread alice's requests over distinct source addresses; the bucket
	// follows her user id, not the address
	for i := 0; i < 120; i++ {
		ip := fmt.Sprintf("10.0.0.%d", i)

		if code := doFromIP(aliceCookie, ip); code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want 200", i, code)
		}
	}

	if code := doFromIP(aliceCookie, "198.51.100.7"); code != http.StatusTooManyRequests {
		t.Fatalf("got status %d, want 429 once the per-user budget is spent", code)
	}

	// bob has his own bucket, even from an address alice already used
	if code := doFromIP(bobCookie, "10.0.0.0"); code != http.StatusOK {
		t.Fatalf("bob: got status %d, want 200", code)
	}
}

func TestSessionForDeletedUserIsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.registerUser(t, "alice")

	u, err := env.users.GetByUsername(context.Background(), "alice")

	if err != nil {
		t.Fatalf("failed to look up user: %v", err)
	}

	if err := env.users.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}

	w := env.do(t, http.MethodGet, "/api/user", "", cookie)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401 for a deleted user's session", w.Code)
	}
}

func TestPatchProductPartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	cookie := env.registerUser(t, "alice")

	p := env.createProduct(t, cookie, "Widget", 10)

	path := fmt.Sprintf("/api/products/%d", p.ID)

	w := env.do(t, http.MethodPatch, path, `{"price": 15.5}`, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var got product.Product

	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if got.Price != 15.5 {
		t.Fatalf("price not updated: %+v", got)
	}

	if got.Name != "Widget" {
		t.Fatalf("untouched field changed: %+v", got)
	}
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilsahu/tasklist-api/internal/middleware"
	"github.com/nikhilsahu/tasklist-api/internal/models"
)

func newTestRouter(t *testing.T) (*chi.Mux, *fakeUserStore, *TokenService) {
	t.Helper()
	svc := newTestTokenService(t, time.Hour)
	users := newFakeUserStore()
	h := NewHandler(users, svc)

	r := chi.NewRouter()
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(NewResolver(svc, users)))
		r.Get("/", h.Index)
	})
	return r, users, svc
}

func doSignup(t *testing.T, r http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doLogin(t *testing.T, r http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup(t *testing.T) {
	r, users, _ := newTestRouter(t)

	w := doSignup(t, r, "alice", "pw1")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, want 201", w.Code)
	}
	var msg string
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if msg != "Successfully created User alice with id 1." {
		t.Fatalf("confirmation = %q", msg)
	}

	stored, _ := users.GetUserByUsername(context.Background(), "alice")
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.Password == "pw1" {
		t.Fatal("plaintext password persisted")
	}
	if !VerifyPassword("pw1", stored.Password) {
		t.Fatal("stored hash does not verify")
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	r, _, _ := newTestRouter(t)

	if w := doSignup(t, r, "alice", "pw1"); w.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d, want 201", w.Code)
	}
	if w := doSignup(t, r, "alice", "pw2"); w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status = %d, want 409", w.Code)
	}
}

func TestSignupRejectsBadBody(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", w.Code)
	}

	if w := doSignup(t, r, "", "pw1"); w.Code != http.StatusBadRequest {
		t.Fatalf("empty username status = %d, want 400", w.Code)
	}
	if w := doSignup(t, r, "alice", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("empty password status = %d, want 400", w.Code)
	}
}

func TestLogin(t *testing.T) {
	r, _, svc := newTestRouter(t)
	doSignup(t, r, "alice", "pw1")

	w := doLogin(t, r, "alice", "pw1")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", w.Code)
	}
	var resp models.TokenResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want %q", resp.TokenType, "bearer")
	}
	subject, err := svc.Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("token subject = %q, want %q", subject, "alice")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r, _, _ := newTestRouter(t)
	doSignup(t, r, "alice", "pw1")

	if w := doLogin(t, r, "alice", "wrong"); w.Code != http.StatusBadRequest {
		t.Fatalf("wrong password status = %d, want 400", w.Code)
	}
	if w := doLogin(t, r, "nobody", "pw1"); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown user status = %d, want 400", w.Code)
	}
}

func TestIndex(t *testing.T) {
	r, _, _ := newTestRouter(t)
	doSignup(t, r, "alice", "pw1")

	var login models.TokenResponse
	if err := json.NewDecoder(doLogin(t, r, "alice", "pw1").Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("index status = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["current_user"] != "alice" {
		t.Fatalf("current_user = %q, want %q", resp["current_user"], "alice")
	}
	if resp["token"] != login.AccessToken {
		t.Fatal("echoed token differs from the one presented")
	}
}

func TestIndexWithoutToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Fatalf("WWW-Authenticate = %q, want %q", got, "Bearer")
	}
}

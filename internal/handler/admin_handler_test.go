package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"chatrelay/internal/app/auth"
	"chatrelay/internal/app/chat"
	"chatrelay/internal/app/session"
	"chatrelay/internal/configs"
	"chatrelay/internal/pkg/auth/token"
)

func testDeps(t *testing.T) *AppDeps {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	authenticator := auth.NewAuthenticator([]auth.Credential{
		{Name: "root", SecretHash: string(hash), Role: session.Role("admin")},
	})

	return &AppDeps{
		Hub:           chat.NewHub(authenticator, chat.Config{HistoryLimit: 10, PairingTTL: time.Minute}),
		Authenticator: authenticator,
		Config: &configs.AppConfig{
			Environment:      "development",
			AdminTokenSecret: "test-secret",
		},
	}
}

func TestHandleAdminLoginSuccess(t *testing.T) {
	deps := testDeps(t)

	body := strings.NewReader(`{"name":"root","secret":"hunter2"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/admin/login", body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	HandleAdminLogin(deps)(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Code int `json:"code"`
		Data struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if res.Code != 0 || res.Data.Role != "admin" {
		t.Fatalf("unexpected response: %+v", res)
	}

	claims, err := token.Parse(res.Data.Token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Name != "root" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	cookieSet := false
	for _, c := range w.Result().Cookies() {
		if c.Name == token.CookieName && c.Value == res.Data.Token {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatal("expected admin token cookie to be set")
	}
}

func TestHandleAdminLoginBadCredentials(t *testing.T) {
	deps := testDeps(t)

	body := strings.NewReader(`{"name":"root","secret":"wrong"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/admin/login", body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	HandleAdminLogin(deps)(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("no cookie should be set on failed login")
	}
}

func TestHandleAdminLoginRejectsNonJSON(t *testing.T) {
	deps := testDeps(t)

	r := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader("name=root"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	HandleAdminLogin(deps)(w, r)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}
}

func TestRouterHealth(t *testing.T) {
	deps := testDeps(t)
	deps.Config.StaticDir = ""

	router := Router(deps)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
}

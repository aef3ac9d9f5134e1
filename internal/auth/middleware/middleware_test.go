package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/qbank/internal/config"
	"github.com/mind-engage/qbank/internal/rbac"
)

func users(t *testing.T) func(string) (config.User, bool) {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{Users: []config.User{
		{Name: "alice", PassHash: string(h), Role: rbac.RoleEditor},
		{Name: "mallory", PassHash: string(h), Role: "student"},
	}}
	return cfg.User
}

func login(t *testing.T, a *AuthService, lookup func(string) (config.User, bool), body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	LoginHandler(a, lookup)(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body)))
	return rec
}

func TestLoginAndMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	lookup := users(t)

	rec := login(t, a, lookup, `{"username":"alice","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"access_token"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Role != rbac.RoleEditor {
		t.Fatalf("resp=%+v err=%v", resp, err)
	}

	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub, gotRole = rbac.SubjectFromContext(r.Context()), rbac.RoleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/banks", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotSub != "alice" || gotRole != rbac.RoleEditor {
		t.Fatalf("status=%d sub=%q role=%q", rec.Code, gotSub, gotRole)
	}
}

func TestLoginRejects(t *testing.T) {
	a := NewAuthService("test-secret")
	lookup := users(t)
	for body, want := range map[string]int{
		`{"username":"alice","password":"nope"}`:     http.StatusUnauthorized,
		`{"username":"bob","password":"s3cret"}`:     http.StatusUnauthorized,
		`{"username":"mallory","password":"s3cret"}`: http.StatusForbidden,
		`not json`: http.StatusBadRequest,
	} {
		if rec := login(t, a, lookup, body); rec.Code != want {
			t.Errorf("%s: status %d want %d", body, rec.Code, want)
		}
	}
}

func TestMiddlewareRejectsForeignToken(t *testing.T) {
	tok, err := NewAuthService("other").IssueJWT("alice", rbac.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	h := JWTMiddleware(NewAuthService("test-secret"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached")
	}))
	for _, hdr := range []string{"", "Bearer " + tok, "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if hdr != "" {
			req.Header.Set("Authorization", hdr)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: status %d", hdr, rec.Code)
		}
	}
}

func TestLocalMiddleware(t *testing.T) {
	var role string
	LocalMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role = rbac.RoleFromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if role != rbac.RoleAdmin {
		t.Fatalf("role=%q", role)
	}
}

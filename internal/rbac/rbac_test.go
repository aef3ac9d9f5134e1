package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPolicy(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleViewer, "question:view", true},
		{RoleViewer, "question:export", true},
		{RoleViewer, "question:edit", false},
		{RoleViewer, "bank:manage", false},
		{RoleEditor, "question:edit", true},
		{RoleEditor, "question:import", true},
		{RoleEditor, "question:delete", true},
		{RoleEditor, "bank:manage", false},
		{RoleAdmin, "bank:manage", true},
		{"", "question:view", false},
		{"student", "question:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q,%q)=%v want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require("question:edit")(ok)

	for role, want := range map[string]int{
		RoleEditor: http.StatusNoContent,
		RoleViewer: http.StatusForbidden,
		"":         http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithRole(context.Background(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("role %q: status %d want %d", role, rec.Code, want)
		}
	}
}

func TestContextValues(t *testing.T) {
	ctx := WithSubject(WithRole(context.Background(), RoleAdmin), "alice")
	if RoleFromContext(ctx) != RoleAdmin || SubjectFromContext(ctx) != "alice" {
		t.Fatal("context values lost")
	}
	if RoleFromContext(context.Background()) != "" {
		t.Fatal("empty context has a role")
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/helpers"
)

type stubVerifier struct {
	token     *auth.Token
	err       error
	lastToken string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.lastToken = idToken
	return s.token, s.err
}

func runAuth(t *testing.T, v *stubVerifier, header string) (*httptest.ResponseRecorder, dto.Caller, bool) {
	t.Helper()
	var (
		caller dto.Caller
		called bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		caller = Caller(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil).WithContext(helpers.TestCtx())
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	NewMiddleware(v).FirebaseAuth(next).ServeHTTP(rr, req)
	return rr, caller, called
}

func TestFirebaseAuth_OK(t *testing.T) {
	v := &stubVerifier{token: &auth.Token{UID: "uid1", Claims: map[string]any{"role": "team_leader"}}}
	rr, caller, called := runAuth(t, v, "Bearer abc")

	if !called || rr.Code != http.StatusOK {
		t.Fatalf("expected next handler, got called=%v status=%d", called, rr.Code)
	}
	if v.lastToken != "abc" {
		t.Fatalf("unexpected token verified: %q", v.lastToken)
	}
	want := dto.Caller{UID: "uid1", Role: "TEAM_LEADER", Token: "abc"}
	if caller != want {
		t.Fatalf("expected %+v, got %+v", want, caller)
	}
}

func TestFirebaseAuth_Rejects(t *testing.T) {
	cases := map[string]struct {
		header string
		err    error
	}{
		"missing header": {header: ""},
		"wrong scheme":   {header: "Basic abc"},
		"extra parts":    {header: "Bearer a b"},
		"invalid token":  {header: "Bearer abc", err: errors.New("expired")},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := &stubVerifier{token: &auth.Token{UID: "uid1"}, err: tc.err}
			rr, _, called := runAuth(t, v, tc.header)
			if called || rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 without calling next, got called=%v status=%d", called, rr.Code)
			}
		})
	}
}

func TestRoleFromClaims(t *testing.T) {
	if got := RoleFromClaims(map[string]any{"role": " ceo "}); got != widgets.RoleCEO {
		t.Fatalf("expected CEO, got %q", got)
	}
	if got := RoleFromClaims(map[string]any{"role": 3}); got.Valid() {
		t.Fatalf("expected invalid role for non-string claim, got %q", got)
	}
	if got := RoleFromClaims(nil); got.Valid() {
		t.Fatalf("expected invalid role for missing claim, got %q", got)
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

// RoleClaim is the custom claim carrying the OWMS role.
const RoleClaim = "role"

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Middleware struct {
	AuthClient tokenVerifier
}

func NewMiddleware(client tokenVerifier) *Middleware {
	return &Middleware{AuthClient: client}
}

// context key
type contextKey string

const (
	UIDKey   contextKey = "uid"
	RoleKey  contextKey = "role"
	TokenKey contextKey = "token"
)

// FirebaseAuth verifies the bearer ID token and stores uid, role, and the
// raw token in the request context.
func (m *Middleware) FirebaseAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "invalid Authorization header", http.StatusUnauthorized)
			return
		}

		tokenStr := parts[1]

		token, err := m.AuthClient.VerifyIDToken(r.Context(), tokenStr)
		if err != nil {
			logger.FromContext(r.Context()).Warn("token verification failed", "error", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		role := RoleFromClaims(token.Claims)
		log, ctx := logger.With(r.Context(), "uid", token.UID, "role", string(role))
		if !role.Valid() {
			log.Warn("token has no recognised role claim")
		}

		ctx = context.WithValue(ctx, UIDKey, token.UID)
		ctx = context.WithValue(ctx, RoleKey, string(role))
		ctx = context.WithValue(ctx, TokenKey, tokenStr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RoleFromClaims reads the role custom claim. A missing or non-string
// claim yields the empty role, which no widget permits.
func RoleFromClaims(claims map[string]any) widgets.Role {
	s, _ := claims[RoleClaim].(string)
	return widgets.ParseRole(s)
}

// Helper to extract UID
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UIDKey).(string)
	return uid
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(RoleKey).(string)
	return role
}

// Caller collects the verified identity for service calls.
func Caller(ctx context.Context) dto.Caller {
	token, _ := ctx.Value(TokenKey).(string)
	return dto.Caller{UID: UID(ctx), Role: Role(ctx), Token: token}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vaultorx/admin-backend/internal/models"
)

type contextKey string

const (
	ctxAdminIDKey   contextKey = "admin_id"
	ctxAdminRoleKey contextKey = "admin_role"
)

// TokenValidator is the subset of the auth service the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
}

// AdminAuth authenticates requests by validating the Bearer JWT and storing
// the admin's id and role in the request context. Non-admin roles are
// rejected: every guarded route is an administrator surface.
func AdminAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractBearer(r)
			if raw == "" {
				http.Error(w, `{"error":"missing or malformed Authorization header"}`, http.StatusUnauthorized)
				return
			}

			id, role, err := validator.ValidateToken(r.Context(), raw)
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			if role != models.RoleAdmin && role != models.RoleSuperAdmin {
				http.Error(w, `{"error":"admin access required"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxAdminIDKey, id)
			ctx = context.WithValue(ctx, ctxAdminRoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminIDFromCtx returns the authenticated admin's profile id, or uuid.Nil.
func AdminIDFromCtx(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxAdminIDKey).(uuid.UUID)
	return id
}

// AdminRoleFromCtx returns the authenticated admin's role, or "".
func AdminRoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(ctxAdminRoleKey).(string)
	return role
}

// WithAdmin returns a context carrying the given admin identity.
func WithAdmin(ctx context.Context, id uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxAdminIDKey, id)
	return context.WithValue(ctx, ctxAdminRoleKey, role)
}

func extractBearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

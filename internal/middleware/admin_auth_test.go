package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vaultorx/admin-backend/internal/models"
)

type stubValidator struct {
	id   uuid.UUID
	role string
	err  error
}

func (s stubValidator) ValidateToken(context.Context, string) (uuid.UUID, string, error) {
	return s.id, s.role, s.err
}

func runAdminAuth(t *testing.T, v stubValidator, authz string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	AdminAuth(v)(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	rec, _ := runAdminAuth(t, stubValidator{}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_InvalidToken(t *testing.T) {
	rec, _ := runAdminAuth(t, stubValidator{err: errors.New("expired")}, "Bearer bad")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_NonAdminRole(t *testing.T) {
	rec, _ := runAdminAuth(t, stubValidator{id: uuid.New(), role: models.RoleUser}, "Bearer ok")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminAuth_AdminPassesWithContext(t *testing.T) {
	adminID := uuid.New()
	rec, captured := runAdminAuth(t, stubValidator{id: adminID, role: models.RoleAdmin}, "Bearer ok")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured == nil {
		t.Fatal("next handler was not called")
	}
	if got := AdminIDFromCtx(captured.Context()); got != adminID {
		t.Errorf("AdminIDFromCtx = %s, want %s", got, adminID)
	}
	if got := AdminRoleFromCtx(captured.Context()); got != models.RoleAdmin {
		t.Errorf("AdminRoleFromCtx = %q, want %q", got, models.RoleAdmin)
	}
}

func TestAdminAuth_SuperAdminPasses(t *testing.T) {
	rec, _ := runAdminAuth(t, stubValidator{id: uuid.New(), role: models.RoleSuperAdmin}, "bearer case-insensitive")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

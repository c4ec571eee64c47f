package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vaultorx/admin-backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	s := &service{secret: []byte("test-secret")}
	adminID := uuid.New()

	token, err := s.issueToken(adminID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	gotID, gotRole, err := s.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotID != adminID {
		t.Errorf("id = %s, want %s", gotID, adminID)
	}
	if gotRole != models.RoleAdmin {
		t.Errorf("role = %q, want %q", gotRole, models.RoleAdmin)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := &service{secret: []byte("a")}
	verifier := &service{secret: []byte("b")}

	token, err := issuer.issueToken(uuid.New(), models.RoleAdmin)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, _, err := verifier.ValidateToken(context.Background(), token); err == nil {
		t.Error("expected verification failure with mismatched secret")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
		Role: models.RoleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	s := &service{secret: secret}
	if _, _, err := s.ValidateToken(context.Background(), token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	s := &service{secret: []byte("test-secret")}
	if _, _, err := s.ValidateToken(context.Background(), "not-a-jwt"); err == nil {
		t.Error("expected parse failure")
	}
}

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaultorx/admin-backend/internal/models"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.Profile, error)
	ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error)
	SeedSuperAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo   *Repository
	secret []byte
}

// NewService builds the admin auth service. The signing secret comes from
// the injected config, never from ambient environment reads.
func NewService(repo *Repository, secret []byte) Service {
	return &service{repo: repo, secret: secret}
}

var _ Service = (*service)(nil)

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Login verifies the password against the profile's bcrypt hash and issues a
// 24h token carrying the admin role. Only ADMIN and SUPERADMIN profiles may
// sign in to the panel.
func (s *service) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	p, hash, err := s.repo.GetByEmailWithHash(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if p == nil {
		return "", nil, ErrInvalidCredentials
	}
	if p.Role != models.RoleAdmin && p.Role != models.RoleSuperAdmin {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.issueToken(p.ID, p.Role)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

func (s *service) issueToken(userID uuid.UUID, role string) (string, error) {
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.secret)
}

func (s *service) ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}
	c, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid {
		return uuid.Nil, "", errors.New("invalid token")
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, c.Role, nil
}

// SeedSuperAdmin creates the bootstrap SUPERADMIN profile when it does not
// exist yet. A blank password disables seeding.
func (s *service) SeedSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, _, err := s.repo.GetByEmailWithHash(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.CreateAdmin(ctx, email, string(hash), models.RoleSuperAdmin)
}

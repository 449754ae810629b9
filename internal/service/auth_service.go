package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/instihub/instihub-backend/internal/config"
	"github.com/instihub/instihub-backend/internal/model"
)

// Role is the identity universe a token belongs to.
type Role string

const (
	RolePlatform    Role = "platform"
	RoleInstitution Role = "institution"
	RoleInstructor  Role = "instructor"
	RoleStudent     Role = "student"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Role   Role   `json:"role"`
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	// IsSuperadmin is true only when the token was resolved against the
	// institution's superadmin credentials.
	IsSuperadmin bool `json:"is_superadmin,omitempty"`
	// AdminEmail carries the delegated admin's email when the login
	// resolved through an institution admins entry, so authorization can
	// distinguish the superadmin from delegated callers.
	AdminEmail string `json:"admin_email,omitempty"`
	// PlatformRole is set on platform tokens only (admin or superadmin).
	PlatformRole model.PlatformRole `json:"platform_role,omitempty"`
}

// AuthService handles password hashing and JWT minting/verification.
type AuthService struct {
	cfg *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{cfg: cfg}
}

// NormalizeEmail lowercases and trims an email. Every credential
// comparison in the system goes through this first.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateIdentityToken mints a JWT for a resolved identity (institution,
// instructor or student) with the given lifetime.
func (s *AuthService) GenerateIdentityToken(id *Identity, expiry time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: registeredClaims(id.ID, expiry),
		Role:             id.Role,
		UserID:           id.ID,
		Email:            id.Email,
		IsSuperadmin:     id.IsSuperadmin,
		AdminEmail:       id.AdminEmail,
	}
	return s.sign(claims)
}

// GeneratePlatformToken mints a JWT for a platform admin.
func (s *AuthService) GeneratePlatformToken(admin *model.PlatformAdmin) (string, error) {
	claims := Claims{
		RegisteredClaims: registeredClaims(admin.ID, s.cfg.PlatformTokenExpiry),
		Role:             RolePlatform,
		UserID:           admin.ID,
		Email:            admin.Email,
		PlatformRole:     admin.Role,
	}
	return s.sign(claims)
}

// ValidateToken parses and validates a JWT, returning the claims.
// Signature and expiry are enforced here on every authenticated call.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func registeredClaims(subjectID int, expiry time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   strconv.Itoa(subjectID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
}

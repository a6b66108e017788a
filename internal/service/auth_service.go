package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sprtutor/examportal/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSecretConfigured = errors.New("no moderator secret configured")
)

// TokenType distinguishes token audiences. The portal only has one
// privileged role.
type TokenType string

const TokenTypeModerator TokenType = "moderator"

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
}

// AuthService handles the moderator gate, JWT, and session invalidation.
//
// The gate is a single shared secret compared in full — no accounts, no
// rate limiting. This mirrors the portal's original design and is a known
// weak point, not a security boundary.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// VerifySecret checks the submitted secret against configuration.
// MODERATOR_SECRET_HASH (bcrypt, via cmd/hash-secret) takes precedence;
// otherwise the plaintext MODERATOR_SECRET is compared in constant time.
func (s *AuthService) VerifySecret(secret string) error {
	if s.cfg.ModeratorSecretHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.ModeratorSecretHash), []byte(secret)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}
	if s.cfg.ModeratorSecret == "" {
		return ErrNoSecretConfigured
	}
	if subtle.ConstantTimeCompare([]byte(s.cfg.ModeratorSecret), []byte(secret)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies the secret and issues a moderator JWT, registering its JTI
// in Redis so logout can invalidate it before expiry.
func (s *AuthService) Login(ctx context.Context, secret string) (string, error) {
	if err := s.VerifySecret(secret); err != nil {
		return "", err
	}

	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   "moderator",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeModerator,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.ModeratorSessionKey(jti)
	if err := s.rdb.Set(ctx, sessionKey, "1", s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
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

// ValidateSession checks the token's JTI is still registered (not logged out).
func (s *AuthService) ValidateSession(ctx context.Context, jti string) error {
	sessionKey := config.CacheKey.ModeratorSessionKey(jti)
	if err := s.rdb.Get(ctx, sessionKey).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("session invalidated")
		}
		return fmt.Errorf("check session: %w", err)
	}
	return nil
}

// Logout removes the session, invalidating the token ahead of its expiry.
func (s *AuthService) Logout(ctx context.Context, jti string) error {
	return s.rdb.Del(ctx, config.CacheKey.ModeratorSessionKey(jti)).Err()
}

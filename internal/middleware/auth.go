// Package middleware provides authentication, logging, tracing and rate
// limiting middleware for the application.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agora/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrTokenMissing means no bearer credential was sent.
	ErrTokenMissing = errors.New("access token required")
	// ErrTokenExpired means the credential was well formed but past exp.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers malformed, badly signed or mis-scoped credentials.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked means the credential was logged out.
	ErrTokenRevoked = errors.New("token revoked")
)

// AuthFailureMessage is the client-facing message for a token error.
func AuthFailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrTokenMissing):
		return "Access token required"
	case errors.Is(err, ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, ErrTokenRevoked):
		return "Token revoked"
	default:
		return "Invalid token"
	}
}

// Claims is the payload carried by access tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenManager builds a TokenManager from configuration.
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.JWTTTL,
		now:      time.Now,
	}
}

// Issue signs a token for the user.
func (m *TokenManager) Issue(userID uuid.UUID, email string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        fmt.Sprintf("%d-%s", now.Unix(), uuid.NewString()[:8]),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies signature, issuer, audience and lifetime.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrTokenInvalid
	}
	return strings.TrimSpace(parts[1]), nil
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

// RevokeToken blacklists jti until the token would have expired anyway.
func RevokeToken(ctx context.Context, rdb *redis.Client, claims *Claims) error {
	if rdb == nil || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return rdb.Set(ctx, blacklistKey(claims.ID), "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was blacklisted. A Redis outage counts
// as not revoked.
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, jti string) bool {
	if rdb == nil || jti == "" {
		return false
	}
	n, err := rdb.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		Logger.WarnContext(ctx, "token blacklist lookup failed", "error", err)
		return false
	}
	return n > 0
}

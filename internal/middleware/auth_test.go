package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agora/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestTokenManager() *TokenManager {
	return NewTokenManager(&config.Config{
		JWTSecret:   testSecret,
		JWTIssuer:   "agora-api",
		JWTAudience: "agora-app",
		JWTTTL:      time.Hour,
	})
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := newTestTokenManager()
	userID := uuid.New()

	token, issued, err := m.Issue(userID, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestTokenManager_ParseFailures(t *testing.T) {
	m := newTestTokenManager()
	userID := uuid.New()

	expiredMgr := newTestTokenManager()
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredMgr.Issue(userID, "a@b.com")
	require.NoError(t, err)

	otherSecret := NewTokenManager(&config.Config{
		JWTSecret: "another-secret-another-secret-123", JWTIssuer: "agora-api", JWTAudience: "agora-app", JWTTTL: time.Hour,
	})
	forged, _, err := otherSecret.Issue(userID, "a@b.com")
	require.NoError(t, err)

	wrongAudience := NewTokenManager(&config.Config{
		JWTSecret: testSecret, JWTIssuer: "agora-api", JWTAudience: "someone-else", JWTTTL: time.Hour,
	})
	misScoped, _, err := wrongAudience.Issue(userID, "a@b.com")
	require.NoError(t, err)

	notUUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    "agora-api",
			Audience:  jwt.ClaimStrings{"agora-app"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, ErrTokenExpired},
		{"bad signature", forged, ErrTokenInvalid},
		{"wrong audience", misScoped, ErrTokenInvalid},
		{"garbage", "not-a-jwt", ErrTokenInvalid},
		{"non uuid subject", notUUID, ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(AuthFailureMessage(err))
		}
		return c.SendString(token)
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"bearer", "Bearer abc.def.ghi", http.StatusOK},
		{"lowercase scheme", "bearer abc", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"basic", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}
}

func TestRevokeToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	m := newTestTokenManager()
	_, claims, err := m.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	assert.False(t, IsTokenRevoked(ctx, rdb, claims.ID))
	require.NoError(t, RevokeToken(ctx, rdb, claims))
	assert.True(t, IsTokenRevoked(ctx, rdb, claims.ID))
	assert.True(t, mr.TTL(blacklistKey(claims.ID)) > 0)

	assert.False(t, IsTokenRevoked(ctx, nil, claims.ID))
	assert.NoError(t, RevokeToken(ctx, nil, claims))
}

func TestAuthFailureMessage(t *testing.T) {
	assert.Equal(t, "Access token required", AuthFailureMessage(ErrTokenMissing))
	assert.Equal(t, "Token expired", AuthFailureMessage(ErrTokenExpired))
	assert.Equal(t, "Token revoked", AuthFailureMessage(ErrTokenRevoked))
	assert.Equal(t, "Invalid token", AuthFailureMessage(ErrTokenInvalid))
}

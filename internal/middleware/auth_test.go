package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"smartchecklist/internal/config"
	"smartchecklist/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager(&config.Config{JWTSecret: testSecret, TokenTTLHours: 1})

	token, claims, err := tm.Issue(&models.User{ID: 42, Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	parsed, err := tm.Parse(token)
	require.NoError(t, err)
	id, err := parsed.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "alice", parsed.Username)
	assert.Equal(t, claims.ID, parsed.ID)

	other := NewTokenManager(&config.Config{JWTSecret: "another-secret-another-secret-1234", TokenTTLHours: 1})
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	tm := NewTokenManager(&config.Config{JWTSecret: testSecret, TokenTTLHours: 1})
	revokedToken, revokedClaims, err := tm.Issue(&models.User{ID: 9, Username: "gone"})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/test", AuthRequired(tm, revokedSet{revokedClaims.ID: true}), func(c *fiber.Ctx) error {
		userID, _ := CurrentUserID(c)
		ctxUserID, _ := c.UserContext().Value(UserIDKey).(uint)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"userID": userID, "ctxUserID": ctxUserID})
	})

	valid, _, err := tm.Issue(&models.User{ID: 123, Username: "bob"})
	require.NoError(t, err)

	signRaw := func(claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	expired := signRaw(jwt.RegisteredClaims{
		Subject:   strconv.Itoa(123),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongAudience := signRaw(jwt.RegisteredClaims{
		Subject:   strconv.Itoa(123),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{"someone-else"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	tests := []struct {
		name           string
		authHeader     string
		cookie         string
		expectedStatus int
		expectedUserID uint
	}{
		{name: "Happy Path", authHeader: "Bearer " + valid, expectedStatus: http.StatusOK, expectedUserID: 123},
		{name: "Cookie", cookie: valid, expectedStatus: http.StatusOK, expectedUserID: 123},
		{name: "Missing Header", expectedStatus: http.StatusUnauthorized},
		{name: "Invalid Format", authHeader: "Basic dXNlcjpwYXNz", expectedStatus: http.StatusUnauthorized},
		{name: "Malformed Token", authHeader: "Bearer malformed.token.here", expectedStatus: http.StatusUnauthorized},
		{name: "Expired Token", authHeader: "Bearer " + expired, expectedStatus: http.StatusUnauthorized},
		{name: "Wrong Audience", authHeader: "Bearer " + wrongAudience, expectedStatus: http.StatusUnauthorized},
		{name: "Revoked Token", authHeader: "Bearer " + revokedToken, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, float64(tt.expectedUserID), body["userID"])
				assert.Equal(t, float64(tt.expectedUserID), body["ctxUserID"])
			} else {
				assert.Equal(t, "Authentication required", body["error"])
			}
		})
	}
}

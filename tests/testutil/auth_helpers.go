package testutil

import (
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/pizzeria-api/config"
	"github.com/kendall-kelly/pizzeria-api/middleware"
	"github.com/kendall-kelly/pizzeria-api/models"
)

const (
	TestJWTSecret   = "test-secret-0123456789abcdef0123456789"
	TestJWTIssuer   = "pizzeria-api-test"
	TestJWTAudience = "pizzeria-test-clients"
)

// TestConfig returns a configuration suitable for in-process tests
func TestConfig() *config.Config {
	return &config.Config{
		GoEnv:                "test",
		Port:                 "8080",
		LogLevel:             "error",
		DatabaseDriver:       config.DriverSQLite,
		JWTSecret:            TestJWTSecret,
		JWTIssuer:            TestJWTIssuer,
		JWTAudience:          TestJWTAudience,
		TokenExpirationHours: 1,
		CacheTTL:             time.Minute,
		ReceiptBaseURL:       "http://pizzeria.test",
	}
}

// MintToken signs a token for the test configuration. A negative ttl yields
// an already expired token.
func MintToken(t *testing.T, cfg *config.Config, userID, username string, ttl time.Duration, roles ...models.Role) string {
	t.Helper()

	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"roles":    names,
		"iss":      cfg.JWTIssuer,
		"aud":      []string{cfg.JWTAudience},
		"iat":      now.Add(-time.Minute).Unix(),
		"exp":      now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// MockValidatedClaims creates validated claims carrying the given roles
func MockValidatedClaims(subject, username string, roles ...models.Role) *validator.ValidatedClaims {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}

	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  TestJWTIssuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Username: username,
			Roles:    names,
		},
	}
}

// SetMockAuthContext puts an authenticated identity on a gin context
func SetMockAuthContext(c *gin.Context, userID, username string, roles ...models.Role) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextClaims, MockValidatedClaims(userID, username, roles...))
}

// MockAuthMiddleware authenticates every request as the given identity
func MockAuthMiddleware(userID, username string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, username, roles...)
		c.Next()
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/stretchr/testify/require"
)

// DefaultTestConfig returns an AuthConfig suitable for tests. The bcrypt cost
// is the minimum so hashing stays fast.
func DefaultTestConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenExpiryHours:            24,
		BcryptCost:                  4,
		SessionPurgeIntervalMinutes: 60,
	}
}

// RequireTestJWTService creates a JWT service from DefaultTestConfig and
// fails the test if that is not possible.
func RequireTestJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(DefaultTestConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}

// NewJWTServiceWithClock creates a JWT service that reads the current time
// from now. Intended for tests that need to control expiry.
func NewJWTServiceWithClock(secret string, lifetime time.Duration, now func() time.Time) (JWTService, error) {
	svc, err := newHMACJWTService(secret, lifetime, now)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

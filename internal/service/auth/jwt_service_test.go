package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func newTestService(t *testing.T, secret string, lifetime time.Duration, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(secret, lifetime, func() time.Time { return now })
	require.NoError(t, err)
	return svc
}

func testSession(now time.Time, lifetime time.Duration) *domain.Session {
	return &domain.Session{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		TokenHash: "digest",
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(DefaultTestConfig())
	require.NoError(t, err)

	cfg := DefaultTestConfig()
	cfg.JWTSecret = "too-short"
	_, err = NewJWTService(cfg)
	assert.Error(t, err)

	cfg = DefaultTestConfig()
	cfg.TokenExpiryHours = 0
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 500_000_000, time.UTC)
	lifetime := 24 * time.Hour
	svc := newTestService(t, testSecret, lifetime, fixedTime)
	session := testSession(fixedTime, lifetime)

	token, err := svc.IssueToken(context.Background(), session, "session-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, session.UserID, claims.UserID)
	assert.Equal(t, session.ID, claims.SessionID)
	assert.Equal(t, "session-secret", claims.SessionSecret)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, session.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.Zero(t, claims.ExpiresAt.Nanosecond(), "expiry is whole seconds")
}

func TestIssueTokenRequiresSession(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, testSecret, time.Hour, now)

	_, err := svc.IssueToken(context.Background(), nil, "secret")
	assert.Error(t, err)

	_, err = svc.IssueToken(context.Background(), testSession(now, time.Hour), "")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour
	session := testSession(fixedTime, lifetime)

	sign := func(t *testing.T, claims jwtCustomClaims, method jwt.SigningMethod, key any) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	validClaims := func() jwtCustomClaims {
		return jwtCustomClaims{
			SessionSecret: "secret",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   session.UserID.String(),
				ID:        session.ID.String(),
				IssuedAt:  jwt.NewNumericDate(fixedTime),
				ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			},
		}
	}

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (*hmacJWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				svc := newTestService(t, testSecret, lifetime, fixedTime)
				token, err := svc.IssueToken(context.Background(), session, "secret")
				require.NoError(t, err)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				gen := newTestService(t, testSecret, lifetime, fixedTime)
				token, err := gen.IssueToken(context.Background(), session, "secret")
				require.NoError(t, err)
				return newTestService(t, testSecret, lifetime, fixedTime.Add(lifetime+time.Second)), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				gen := newTestService(t, testSecret, lifetime, fixedTime)
				token, err := gen.IssueToken(context.Background(), session, "secret")
				require.NoError(t, err)
				return newTestService(t, wrongSecret, lifetime, fixedTime), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				return newTestService(t, testSecret, lifetime, fixedTime), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				return newTestService(t, testSecret, lifetime, fixedTime), ""
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unexpected signing method",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				return newTestService(t, testSecret, lifetime, fixedTime),
					sign(t, validClaims(), jwt.SigningMethodHS512, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing expiry",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				c := validClaims()
				c.ExpiresAt = nil
				return newTestService(t, testSecret, lifetime, fixedTime),
					sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "subject is not a uuid",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				c := validClaims()
				c.Subject = "admin"
				return newTestService(t, testSecret, lifetime, fixedTime),
					sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "token id is not a uuid",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				c := validClaims()
				c.ID = "42"
				return newTestService(t, testSecret, lifetime, fixedTime),
					sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing session secret",
			setupFunc: func(t *testing.T) (*hmacJWTService, string) {
				c := validClaims()
				c.SessionSecret = ""
				return newTestService(t, testSecret, lifetime, fixedTime),
					sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, token := tt.setupFunc(t)
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, session.UserID, claims.UserID)
			assert.Equal(t, session.ID, claims.SessionID)
		})
	}
}

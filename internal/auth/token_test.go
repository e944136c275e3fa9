package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

const testSecret = "test-signing-secret"

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newTestManager(t *testing.T, clock *testClock, ttl time.Duration) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(TokenConfig{Secret: testSecret, TTL: ttl, Issuer: "blog-service"}, WithClock(clock.Now))
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager(t *testing.T) {
	t.Run("missing secret is a configuration error", func(t *testing.T) {
		tm, err := NewTokenManager(TokenConfig{Secret: "", TTL: time.Hour})
		assert.Nil(t, tm)
		var cfgErr *apperrors.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "AUTH_JWT_SECRET", cfgErr.Key)
	})

	t.Run("whitespace secret is rejected", func(t *testing.T) {
		_, err := NewTokenManager(TokenConfig{Secret: "  \t", TTL: time.Hour})
		assert.True(t, apperrors.IsConfigurationError(err))
	})

	t.Run("non positive ttl is rejected", func(t *testing.T) {
		_, err := NewTokenManager(TokenConfig{Secret: testSecret})
		assert.True(t, apperrors.IsConfigurationError(err))
	})
}

func TestTokenManager_IssueVerifyRoundTrip(t *testing.T) {
	clock := newTestClock()
	tm := newTestManager(t, clock, 24*time.Hour)

	for _, subject := range []string{"u1", "64f1c2a9e4b0a1b2c3d4e5f6", "user with spaces"} {
		t.Run(subject, func(t *testing.T) {
			cred, err := tm.Issue(subject)
			require.NoError(t, err)
			assert.Equal(t, subject, cred.SubjectID)
			assert.Equal(t, clock.now, cred.IssuedAt)
			assert.Equal(t, clock.now.Add(24*time.Hour), cred.ExpiresAt)

			claims, err := tm.Verify(cred.Token)
			require.NoError(t, err)
			assert.Equal(t, subject, claims.Subject)
			assert.Equal(t, "blog-service", claims.Issuer)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestTokenManager_IssueRejectsEmptySubject(t *testing.T) {
	tm := newTestManager(t, newTestClock(), time.Hour)

	_, err := tm.Issue("")
	assert.ErrorIs(t, err, ErrEmptySubject)

	_, err = tm.Issue("   ")
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestTokenManager_IndependentCredentials(t *testing.T) {
	tm := newTestManager(t, newTestClock(), time.Hour)

	first, err := tm.Issue("u1")
	require.NoError(t, err)
	second, err := tm.Issue("u1")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
	_, err = tm.Verify(first.Token)
	assert.NoError(t, err)
	_, err = tm.Verify(second.Token)
	assert.NoError(t, err)
}

func TestTokenManager_ExpiryBoundary(t *testing.T) {
	clock := newTestClock()
	tm := newTestManager(t, clock, time.Hour)

	cred, err := tm.Issue("u1")
	require.NoError(t, err)

	clock.now = cred.ExpiresAt.Add(-time.Second)
	_, err = tm.Verify(cred.Token)
	assert.NoError(t, err)

	clock.now = cred.ExpiresAt
	_, err = tm.Verify(cred.Token)
	assert.ErrorIs(t, err, ErrVerification)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	clock.Advance(time.Hour)
	_, err = tm.Verify(cred.Token)
	assert.ErrorIs(t, err, ErrVerification)
}

func TestTokenManager_TamperedSignature(t *testing.T) {
	tm := newTestManager(t, newTestClock(), time.Hour)
	cred, err := tm.Issue("u1")
	require.NoError(t, err)

	parts := strings.Split(cred.Token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range sig {
		tampered := append([]byte(nil), sig...)
		tampered[i] ^= 0xFF
		token := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := tm.Verify(token)
		assert.ErrorIs(t, err, ErrVerification, "byte %d", i)
	}
}

func TestTokenManager_RejectsForeignTokens(t *testing.T) {
	clock := newTestClock()
	tm := newTestManager(t, clock, time.Hour)

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "blog-service",
		IssuedAt:  jwt.NewNumericDate(clock.now),
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: sign(jwt.SigningMethodHS256, []byte("other-secret"), valid)},
		{name: "other hmac algorithm", token: sign(jwt.SigningMethodHS512, []byte(testSecret), valid)},
		{name: "unsigned", token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
		{name: "wrong issuer", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: "u1", Issuer: "someone-else", ExpiresAt: valid.ExpiresAt,
		})},
		{name: "no expiry", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: "u1", Issuer: "blog-service",
		})},
		{name: "no subject", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Issuer: "blog-service", ExpiresAt: valid.ExpiresAt,
		})},
		{name: "issued in the future", token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: "u1", Issuer: "blog-service",
			IssuedAt:  jwt.NewNumericDate(clock.now.Add(10 * time.Minute)),
			ExpiresAt: valid.ExpiresAt,
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.token)
			assert.ErrorIs(t, err, ErrVerification)
		})
	}

	t.Run("control", func(t *testing.T) {
		_, err := tm.Verify(sign(jwt.SigningMethodHS256, []byte(testSecret), valid))
		assert.NoError(t, err)
	})
}

func TestTokenManager_SecretRotationInvalidates(t *testing.T) {
	clock := newTestClock()
	tm := newTestManager(t, clock, time.Hour)
	cred, err := tm.Issue("u1")
	require.NoError(t, err)

	rotated, err := NewTokenManager(TokenConfig{Secret: "rotated-secret", TTL: time.Hour, Issuer: "blog-service"}, WithClock(clock.Now))
	require.NoError(t, err)

	_, err = rotated.Verify(cred.Token)
	assert.ErrorIs(t, err, ErrVerification)
}

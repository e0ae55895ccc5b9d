package auth

import (
	"strings"
	"testing"
	"time"

	"cycletrack/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNewJWTService(t *testing.T) {
	t.Run("requires secret", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.SecretKey.Access = "  "

		svc, err := NewJWTService(cfg)

		require.Error(t, err)
		assert.Nil(t, svc)
	})

	t.Run("uses one hour ttl", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.SecretKey.Access = testSecret

		svc, err := NewJWTService(cfg)

		require.NoError(t, err)
		assert.Equal(t, time.Hour, svc.TokenTTL())
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTServiceWithClock(testSecret, clock.Now)

	token, err := svc.GenerateToken("account-1", "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "account-1", claims.UserID)
	assert.Equal(t, "a@x.io", claims.Email)
	assert.Equal(t, clock.now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTService_Expiry(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTServiceWithClock(testSecret, clock.Now)

	token, err := svc.GenerateToken("account-1", "a@x.io")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	clock := newTestClock()
	issuer := NewJWTServiceWithClock("other-secret", clock.Now)
	verifier := NewJWTServiceWithClock(testSecret, clock.Now)

	token, err := issuer.GenerateToken("account-1", "a@x.io")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestJWTService_RejectsMalformedToken(t *testing.T) {
	svc := NewJWTServiceWithClock(testSecret, newTestClock().Now)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTServiceWithClock(testSecret, clock.Now)

	claims := jwt.MapClaims{
		"userId": "account-1",
		"email":  "a@x.io",
		"exp":    clock.now.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RequiresExpiryAndUserID(t *testing.T) {
	clock := newTestClock()
	svc := NewJWTServiceWithClock(testSecret, clock.Now)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "account-1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(noExpiry)
	assert.Error(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.io",
		"exp":   clock.now.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(noUser)
	assert.Error(t, err)
}

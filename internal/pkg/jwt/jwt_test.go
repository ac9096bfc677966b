package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	SetSecret("test-secret")
}

func TestSignParseRoundTrip(t *testing.T) {
	token, err := Sign("alice", 7, true)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, UserID(7), claims.UserID)
	assert.Equal(t, RoleUser, claims.Roles)
	assert.Equal(t, "emotion-recognition", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.WithinDuration(t, time.Now().Add(AccessTTL()), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRefreshTokenHasNoRole(t *testing.T) {
	token, err := Sign("bob", 12, false)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)
	assert.WithinDuration(t, time.Now().Add(RefreshTTL()), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseDoesNotFailOnExpiry(t *testing.T) {
	token := signWithClaims(t, jwtlib.MapClaims{
		"sub":    "alice",
		"userId": 7,
		"exp":    time.Now().Add(-time.Hour).Unix(),
	})

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, IsExpired(claims))
	assert.False(t, Validate(token))
}

func TestParseRejectsBadSignature(t *testing.T) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, jwtlib.MapClaims{
		"sub": "mallory", "userId": 1,
	})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	_, err = Parse(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
	assert.False(t, Validate(signed))
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", input)
	}
}

func TestUserIDCoercion(t *testing.T) {
	numeric := signWithClaims(t, jwtlib.MapClaims{
		"sub": "alice", "userId": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	claims, err := Parse(numeric)
	require.NoError(t, err)
	assert.Equal(t, UserID(42), claims.UserID)

	stringly := signWithClaims(t, jwtlib.MapClaims{
		"sub": "alice", "userId": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	claims, err = Parse(stringly)
	require.NoError(t, err)
	assert.Equal(t, UserID(42), claims.UserID)

	bogus := signWithClaims(t, jwtlib.MapClaims{
		"sub": "alice", "userId": []int{1},
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = Parse(bogus)
	assert.ErrorIs(t, err, ErrMalformedToken)

	nonInteger := signWithClaims(t, jwtlib.MapClaims{
		"sub": "alice", "userId": "forty-two",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = Parse(nonInteger)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestIsExpiredWithoutExpiry(t *testing.T) {
	assert.True(t, IsExpired(nil))
	assert.True(t, IsExpired(&Claims{}))
}

func TestValidateFreshToken(t *testing.T) {
	token, err := Sign("alice", 7, true)
	require.NoError(t, err)
	assert.True(t, Validate(token))
}

func signWithClaims(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

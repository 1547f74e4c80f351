package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret"

func TestIssueAndParseSessionToken(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestParseSessionTokenExpired(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "user-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseSessionTokenTampered(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	// Flipping any byte must break the signature check.
	raw := []byte(token)
	for _, i := range []int{0, len(raw) / 2, len(raw) - 1} {
		tampered := append([]byte(nil), raw...)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		_, err := ParseSessionToken(string(tampered), testSecret)
		require.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestParseSessionTokenWrongSecret(t *testing.T) {
	token, err := IssueSessionToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "another-secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRememberTokenOutlivesShortToken(t *testing.T) {
	short, err := IssueSessionToken(testSecret, "user-1", 24*time.Hour)
	require.NoError(t, err)
	long, err := IssueSessionToken(testSecret, "user-1", 7*24*time.Hour)
	require.NoError(t, err)

	require.True(t, tokenExpiry(t, short).Before(tokenExpiry(t, long)))
}

func tokenExpiry(t *testing.T, token string) time.Time {
	t.Helper()

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	claims := parsed.Claims.(*sessionClaims)
	return claims.ExpiresAt.Time
}

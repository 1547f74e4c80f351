package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only failure Parse surfaces. Forgery, corruption and
// expiry are deliberately indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a self-contained session token carrying the user id
// and an expiry. There is no server-side session table: the token is the
// session, so the only revocation available is cookie deletion or expiry.
func IssueSessionToken(secret string, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature and expiry of token and returns the
// embedded user id.
func ParseSessionToken(token string, secret string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

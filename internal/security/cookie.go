package security

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the single cookie the whole application uses to carry
// the signed session token.
const SessionCookieName = "__session"

// SetSessionCookie writes the token back to the client. maxAge is zero for a
// browser-session cookie ("remember me" off); the token's embedded expiry
// still bounds its lifetime either way.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the cookie with an empty token, the only
// logout mechanism a stateless session design has.
func ClearSessionCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"notedeck/api/internal/config"
	"notedeck/api/internal/models"
	"notedeck/api/internal/repository"
	"notedeck/api/internal/security"
)

const (
	// CurrentUserKey holds the resolved models.User for guarded handlers.
	CurrentUserKey = "current_user"
	// UserIDKey holds the resolved owner id for guarded handlers.
	UserIDKey = "user_id"
)

// UserLoader is the slice of the user repository the guard needs for the
// deleted-account consistency check.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// ResolveUserID extracts the session cookie and parses it. A missing cookie
// and an invalid token both resolve to "no session"; being unauthenticated is
// a normal state, not an error.
func ResolveUserID(c *gin.Context, secret string) (string, bool) {
	token, err := c.Cookie(security.SessionCookieName)
	if err != nil || token == "" {
		return "", false
	}

	userID, err := security.ParseSessionToken(token, secret)
	if err != nil {
		return "", false
	}
	return userID, true
}

// Auth is the single enforcement point in front of every owner-scoped route.
// It resolves the session cookie, reloads the user record (a token may outlive
// its account), and redirects to the login page with the original path
// preserved when either step fails.
func Auth(cfg *config.AppConfig, users UserLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := ResolveUserID(c, cfg.Security.SessionSecret)
		if !ok {
			redirectToLogin(c)
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			// A valid token for a since-deleted account resolves to "no
			// session". Any other failure is a storage fault, not an
			// authentication state.
			if errors.Is(err, repository.ErrUserNotFound) {
				redirectToLogin(c)
				return
			}
			log.Error().
				Err(err).
				Str("request_id", c.Writer.Header().Get(requestIDHeader)).
				Msg("load session user failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal_server_error",
			})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.ID)

		c.Next()
	}
}

// RedirectIfAuthenticated bounces an already-logged-in user away from the
// login and signup entry points.
func RedirectIfAuthenticated(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ResolveUserID(c, cfg.Security.SessionSecret); ok {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := "/login?redirectTo=" + url.QueryEscape(c.Request.URL.Path)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

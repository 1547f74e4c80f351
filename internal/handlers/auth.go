package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"notedeck/api/internal/middleware"
	"notedeck/api/internal/models"
	"notedeck/api/internal/repository"
	"notedeck/api/internal/security"
	"notedeck/api/internal/service"
)

type joinForm struct {
	Email      string `form:"email" binding:"required,email"`
	Password   string `form:"password" binding:"required,min=8"`
	RedirectTo string `form:"redirectTo"`
}

func (h HandlerSet) Join(c *gin.Context) {
	var form joinForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": credentialFieldErrors(err)})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": gin.H{"email": "A user already exists with this email"},
			})
			return
		}
		h.log.Error().Err(err).Msg("register failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	if !h.startSession(c, user.ID, false) {
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(form.RedirectTo, "/"))
}

type loginForm struct {
	Email      string `form:"email" binding:"required,email"`
	Password   string `form:"password" binding:"required,min=8"`
	Remember   string `form:"remember"`
	RedirectTo string `form:"redirectTo"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": credentialFieldErrors(err)})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), service.LoginInput{
		Email:    form.Email,
		Password: form.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": gin.H{"email": "Invalid email or password"},
			})
		case errors.Is(err, service.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too_many_attempts"})
		default:
			h.log.Error().Err(err).Msg("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		}
		return
	}

	if !h.startSession(c, user.ID, form.Remember == "on") {
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(form.RedirectTo, "/notes"))
}

func (h HandlerSet) Logout(c *gin.Context) {
	security.ClearSessionCookie(c, h.secureCookies())
	c.Redirect(http.StatusFound, "/")
}

func (h HandlerSet) Me(c *gin.Context) {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, ok := userVal.(models.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// startSession issues a signed token and writes the session cookie. A
// remembered session gets the long TTL and a persisted cookie; otherwise the
// cookie lives for the browser session and the token expires early anyway.
func (h HandlerSet) startSession(c *gin.Context, userID string, remember bool) bool {
	ttl := h.cfg.Security.SessionTTL
	maxAge := 0
	if remember {
		ttl = h.cfg.Security.RememberTTL
		maxAge = int(ttl.Seconds())
	}

	token, err := security.IssueSessionToken(h.cfg.Security.SessionSecret, userID, ttl)
	if err != nil {
		h.log.Error().Err(err).Msg("issue session token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return false
	}

	security.SetSessionCookie(c, token, maxAge, h.secureCookies())
	return true
}

func (h HandlerSet) secureCookies() bool {
	return h.cfg.Environment == "production"
}

// safeRedirect keeps post-auth redirects inside the application.
func safeRedirect(target string, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	return target
}

func credentialFieldErrors(err error) gin.H {
	out := gin.H{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["email"] = "Email is invalid"
		return out
	}

	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			out["email"] = "Email is invalid"
		case "Password":
			if fe.Tag() == "min" {
				out["password"] = "Password is too short"
			} else {
				out["password"] = "Password is required"
			}
		}
	}
	return out
}

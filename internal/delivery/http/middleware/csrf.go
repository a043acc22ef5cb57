package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"go-jobmatch-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

const (
	CSRFTokenCookieName = "csrf_token"
	CSRFTokenHeaderName = "X-CSRF-Token"
	csrfTokenLength     = 32
	csrfTokenExpiry     = 24 * time.Hour
)

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// CSRFMiddleware enforces the double-submit cookie pattern for requests that
// authenticate with the auth_token cookie. Bearer-token clients are not exposed
// to cross-site form posts and pass through untouched.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}
		if _, err := c.Cookie("auth_token"); err != nil {
			c.Next()
			return
		}

		token, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || token == "" {
			token, err = generateCSRFToken()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "Failed to generate security token", nil)
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			// HttpOnly stays off so the frontend can echo the value back
			c.SetCookie(CSRFTokenCookieName, token, int(csrfTokenExpiry.Seconds()), "/", "", gin.Mode() == gin.ReleaseMode, false)
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		header := c.GetHeader(CSRFTokenHeaderName)
		if header == "" {
			response.Error(c, http.StatusForbidden, "Missing CSRF token", nil)
			c.Abort()
			return
		}
		if header != token {
			response.Error(c, http.StatusForbidden, "Invalid CSRF token", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

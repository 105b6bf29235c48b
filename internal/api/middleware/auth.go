package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"mom-generator/internal/api/errors"
)

// UserKey is the gin context key holding the authenticated user
const UserKey = "user"

// TokenValidator is satisfied by *auth.Service
type TokenValidator interface {
	Validate(token string) (string, error)
}

// TokenFromRequest reads the bearer token, falling back to the session cookie
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireAuth rejects API requests without a valid token with a 401 JSON body
func RequireAuth(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := validator.Validate(TokenFromRequest(c, cookieName))
		if err != nil {
			HandleError(c, errors.NewUnauthorizedError("Authentication required"))
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// RequireLogin redirects browsers without a valid session to the login page
func RequireLogin(validator TokenValidator, cookieName, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := validator.Validate(TokenFromRequest(c, cookieName))
		if err != nil {
			target := loginPath
			if c.Request.Method == http.MethodGet && c.Request.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by the auth middleware
func CurrentUser(c *gin.Context) string {
	return c.GetString(UserKey)
}

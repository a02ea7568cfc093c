package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adiprasetyo/evently-api/internal/application"
	"github.com/adiprasetyo/evently-api/pkg/response"
)

const principalKey = "principal"

// Auth resolves the session principal from the access_token cookie through
// the session manager. Missing, malformed, expired and signature-invalid
// tokens are all rejected the same way. Handlers downstream read the
// principal with PrincipalFrom and pass it explicitly to services.
func Auth(sessions *application.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("access_token")
		p, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "unauthenticated", nil)
			c.Abort()
			return
		}
		c.Set(principalKey, p)
		c.Set("userID", p.ID)
		c.Next()
	}
}

// PrincipalFrom returns the resolved principal for the request, or nil when
// the route is not session-gated.
func PrincipalFrom(c *gin.Context) *application.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*application.Principal)
	return p
}

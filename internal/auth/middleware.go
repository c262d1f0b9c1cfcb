package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"society-platform/internal/claims"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "bearer "

// AdvisoryScope reads identifiers from the Authorization header without
// verifying it and stores them on the request context. It never aborts: a
// missing or unreadable token leaves the scope empty.
func AdvisoryScope(ex *claims.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader(authorizationHeader)); raw != "" {
			id := ex.Identity(raw)
			c.Request = c.Request.WithContext(WithScope(c.Request.Context(), id))
		}
		c.Next()
	}
}

// RequireVerified rejects requests whose bearer token does not verify.
func RequireVerified(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if len(raw) <= len(bearerPrefix) || !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		cl, err := m.Verify(strings.TrimSpace(raw[len(bearerPrefix):]), time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx := WithVerified(c.Request.Context(), cl)
		ctx = WithScope(ctx, cl.Identity())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

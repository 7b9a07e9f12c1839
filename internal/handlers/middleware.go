package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Gin context keys holding the authenticated identity.
const (
	ctxUserID = "userId"
	ctxEmail  = "email"
)

// authMiddleware rejects requests without a valid bearer token and stores the caller's identity.
// With allowQuery the token may also come from the "token" query parameter.
func (h *Handler) authMiddleware(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c, allowQuery)
		if !ok {
			return
		}

		claims, err := h.services.VerifyToken(token)
		if err != nil {
			h.respondError(c, err, "auth_verify_failed")
			c.Abort()
			return
		}

		// store in Gin context
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// bearerToken extracts the token, aborting with 401 when it is absent or malformed.
func bearerToken(c *gin.Context, allowQuery bool) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if allowQuery {
			if t := strings.TrimSpace(c.Query("token")); t != "" {
				return t, true
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Error:   codeMissingToken,
			Message: "Authorization token is required",
		})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
			Error:   codeTokenInvalid,
			Message: "Authorization header must be 'Bearer <token>'",
		})
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// currentUser returns the id stored by authMiddleware.
func currentUser(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sorokinArtemV/kombats-sub002/internal/constants"
)

const contextKeyPlayerID = "playerID"

// AuthRequired validates the bearer token and injects the player identity
// into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		token := bearerToken(header)
		if token == "" {
			// Browsers cannot set headers on websocket dials; allow the token
			// as a query parameter there.
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		claims, err := parseSessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidToken})
			return
		}
		c.Set(contextKeyPlayerID, claims.PlayerID)
		c.Next()
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
}

// sessionPlayerID returns the authenticated player id, or "" when the
// request carries no identity.
func sessionPlayerID(c *gin.Context) string {
	v, _ := c.Get(contextKeyPlayerID)
	s, _ := v.(string)
	return s
}

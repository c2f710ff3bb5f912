package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/service/session"
)

type ctxKey string

const sessionCtxKey ctxKey = "session"

// sessionMiddleware resolves the bearer token to a session id.
func sessionMiddleware(svc SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("missing bearer token"))
			return
		}
		id, err := svc.Lookup(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("invalid or expired session"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("session lookup failed"))
			return
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func sessionID(c *gin.Context) string {
	id, _ := c.Request.Context().Value(sessionCtxKey).(string)
	return id
}

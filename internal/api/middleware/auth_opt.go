package middleware

import (
	"Inkwell/internal/pkg/consts"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败、缺失或已注销则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := requestToken(c)
		if tokenString == "" {
			c.Set(consts.UserIDKey, uint64(0))
			c.Next()
			return
		}

		claims, err := verifyToken(c.Request.Context(), tokenString)
		if err != nil {
			log.DebugContext(c.Request.Context(), "anonymous request with invalid token", "err", err)
			c.Set(consts.UserIDKey, uint64(0))
		} else {
			setIdentity(c, claims.UserID, tokenString)
		}

		c.Next()
	}
}

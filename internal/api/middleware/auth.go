package middleware

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/security"
	"context"
	"errors"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := requestToken(c)
		if tokenString == "" {
			response.Fail(c, response.Unauthorized, "Missing or malformed token")
			c.Abort()
			return
		}

		claims, err := verifyToken(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, errTokenCheck) {
				response.Fail(c, response.InternalServerError, "Internal server error")
			} else {
				response.Fail(c, response.Unauthorized, "Invalid or expired token")
			}
			c.Abort()
			return
		}

		setIdentity(c, claims.UserID, tokenString)
		c.Next()
	}
}

// requestToken 优先读取 Authorization 头，websocket 握手时退回 token 查询参数
func requestToken(c *gin.Context) string {
	if token := security.ExtractToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return c.Query("token")
}

var (
	errTokenRevoked = errors.New("token revoked")
	errTokenCheck   = errors.New("token blacklist check failed")
)

// verifyToken 校验签名与有效期，并检查是否已注销
func verifyToken(ctx context.Context, tokenString string) (*security.UserClaims, error) {
	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := redis.Exists(ctx, consts.TokenBlacklistKey+signature)
	if err != nil {
		log.ErrorContext(ctx, "check token blacklist failed", "err", err)
		return nil, errTokenCheck
	}
	if revoked {
		return nil, errTokenRevoked
	}

	return security.ValidateToken(tokenString)
}

func setIdentity(c *gin.Context, userID uint64, token string) {
	c.Set(consts.UserIDKey, userID)
	c.Set(consts.TokenKey, token)

	ctx := context.WithValue(c.Request.Context(), consts.UserIDKey, userID)
	ctx = context.WithValue(ctx, consts.TokenKey, token)
	c.Request = c.Request.WithContext(ctx)
}

package security

import (
	"Inkwell/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         = []byte("inkwell-dev-secret")
	jwtIssuer         = "Inkwell"
	JWTExpirationTime = time.Hour * 24 * 7
)

// UserClaims Token 中携带的业务信息
type UserClaims struct {
	UserID uint64 `json:"userId"`
	jwt.RegisteredClaims
}

// Init 使用配置覆盖默认的签名密钥与有效期
func Init(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.ExpireHours > 0 {
		JWTExpirationTime = time.Duration(cfg.ExpireHours) * time.Hour
	}
}

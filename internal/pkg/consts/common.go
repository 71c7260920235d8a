package consts

// UserIDKey gin.Context 与 request context 中当前用户 ID 的 key
const UserIDKey = "user_id"

// TokenKey gin.Context 中原始 token 的 key，注销时使用
const TokenKey = "token"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

package graph

import (
	"Inkwell/internal/service"
	"context"
	log "log/slog"
)

var codeNames = map[int]string{
	service.BadRequest:          "BAD_REQUEST",
	service.Unauthorized:        "UNAUTHENTICATED",
	service.Forbidden:           "FORBIDDEN",
	service.NotFound:            "NOT_FOUND",
	service.Conflict:            "CONFLICT",
	service.InvalidOperation:    "INVALID_OPERATION",
	service.InternalServerError: "INTERNAL",
}

// gqlError 在 GraphQL errors[].extensions.code 中携带错误分类
type gqlError struct {
	message string
	code    string
}

func (e *gqlError) Error() string {
	return e.message
}

func (e *gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// wrapErr 已知错误保留原文案，未知错误记录日志后统一返回内部错误
func wrapErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	code, known := service.ErrorCode(err)
	if !known {
		log.ErrorContext(ctx, "resolver failed", "err", err)
		return &gqlError{message: service.UnExpectedError.Error(), code: codeNames[service.InternalServerError]}
	}
	return &gqlError{message: err.Error(), code: codeNames[code]}
}

package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InvalidOperation    = 422
	InternalServerError = 500
)

var (
	ErrUnauthenticated      = errors.New("You must be logged in to perform this action")
	ErrParamInvalid         = errors.New("Invalid input")
	ErrUserNotFound         = errors.New("User not found")
	ErrUserExist            = errors.New("User with this email already exists")
	ErrPasswordIncorrect    = errors.New("Invalid password")
	ErrFollowSelf           = errors.New("You cannot follow yourself")
	ErrPostNotFound         = errors.New("Post not found")
	ErrCommentNotFound      = errors.New("Comment not found")
	ErrCategoryNotFound     = errors.New("Category not found")
	ErrCategoryExist        = errors.New("Category with this name or slug already exists")
	ErrCategoryInUse        = errors.New("Cannot delete category with associated posts")
	ErrAlreadyLiked         = errors.New("You already liked this")
	ErrNotLiked             = errors.New("You haven't liked this")
	ErrForbidden            = errors.New("You do not have permission to modify this resource")
	ErrAlreadySubscribed    = errors.New("This email is already subscribed to our newsletter")
	ErrFileNotSupported     = errors.New("Only image uploads are supported")
	ErrFileTooLarge         = errors.New("Image exceeds the maximum upload size")
	ErrUploadFailed         = errors.New("Failed to upload image")
	ErrNotificationNotFound = errors.New("Notification not found")
	UnExpectedError         = errors.New("Internal server error")
)

var ErrorMap = map[error]int{
	ErrUnauthenticated:      Unauthorized,
	ErrParamInvalid:         BadRequest,
	ErrUserNotFound:         NotFound,
	ErrUserExist:            Conflict,
	ErrPasswordIncorrect:    Unauthorized,
	ErrFollowSelf:           InvalidOperation,
	ErrPostNotFound:         NotFound,
	ErrCommentNotFound:      NotFound,
	ErrCategoryNotFound:     NotFound,
	ErrCategoryExist:        Conflict,
	ErrCategoryInUse:        InvalidOperation,
	ErrAlreadyLiked:         Conflict,
	ErrNotLiked:             Conflict,
	ErrForbidden:            Forbidden,
	ErrAlreadySubscribed:    Conflict,
	ErrFileNotSupported:     BadRequest,
	ErrFileTooLarge:         BadRequest,
	ErrUploadFailed:         InternalServerError,
	ErrNotificationNotFound: NotFound,
	UnExpectedError:         InternalServerError,
}

// ErrorCode 返回错误的分类码，未知错误按 500 处理
func ErrorCode(err error) (int, bool) {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return InternalServerError, false
}

// detailError 在分类错误上附带面向用户的具体文案，errors.Is 仍然命中分类错误
type detailError struct {
	kind error
	msg  string
}

func (e *detailError) Error() string {
	return e.msg
}

func (e *detailError) Unwrap() error {
	return e.kind
}

func withMessage(kind error, msg string) error {
	return &detailError{kind: kind, msg: msg}
}

func paramError(msg string) error {
	return withMessage(ErrParamInvalid, msg)
}

func unauthenticated(action string) error {
	return withMessage(ErrUnauthenticated, "You must be logged in to "+action)
}

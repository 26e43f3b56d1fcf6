package common

import (
	"errors"
	"net/http"
)

const (
	ErrCodeInvalidInput   = "invalid_input"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeInternalServer = "internal_server_error"
)

// Error 带有给用户看的信息和 http 状态码, 调试信息不会返回给用户
type Error struct {
	code       string
	msgToUser  string
	debugErr   error
	httpStatus int
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) DebugInfo() error {
	return e.debugErr
}

func (e *Error) Unwrap() error {
	return e.debugErr
}

func (e *Error) SetDebug(err error) *Error {
	e.debugErr = err
	return e
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

// Is 按错误码比较, 使 errors.Is(err, ErrNotFound("")) 可用
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.code == e.code
}

func NewError(code string, msgToUser string, status int) *Error {
	return &Error{
		code:       code,
		msgToUser:  msgToUser,
		httpStatus: status,
	}
}

func ErrInvalidInput(msg string) *Error {
	return NewError(ErrCodeInvalidInput, msg, http.StatusBadRequest)
}

func ErrUnauthorized() *Error {
	return NewError(ErrCodeUnauthorized, "Not logged in", http.StatusUnauthorized)
}

func ErrForbidden(msg string) *Error {
	if msg == "" {
		msg = "You do not have access to this challenge"
	}
	return NewError(ErrCodeForbidden, msg, http.StatusForbidden)
}

func ErrNotFound(msg string) *Error {
	if msg == "" {
		msg = "Not Found"
	}
	return NewError(ErrCodeNotFound, msg, http.StatusNotFound)
}

func ErrRateLimited() *Error {
	return NewError(ErrCodeRateLimited, "You're submitting flags too fast. Slow down.", http.StatusTooManyRequests)
}

func ErrInternal(debug error) *Error {
	return NewError(ErrCodeInternalServer, "Internal Server Error", http.StatusInternalServerError).SetDebug(debug)
}

// AsError 把任意错误转换成 *Error, 未分类的错误视为服务器内部错误
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal(err)
}

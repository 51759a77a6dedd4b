package response

import "fmt"

// AppError 响应层错误载体
// Code 对应 codes.go 的业务码，Message 是返回给调用方的文案，
// 底层错误只进日志和错误链，不出现在响应体里。
type AppError struct {
	Code    int
	Message string
	cause   error
}

// WrapError 包装错误
func WrapError(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

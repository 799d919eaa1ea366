package errors

import (
	"errors"
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/middleware"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/writequeue"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Status 是否成功，错误恒为 false
	Status bool `json:"status"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// ToCode maps err to the response code a client sees.
// *code.Code passes through, domain errors map by kind and anything
// else becomes an internal error.
// ToCode 将错误映射为响应码
func ToCode(err error) *code.Code {
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		return codeErr
	}

	if errors.Is(err, writequeue.ErrWriteQueueFull) || errors.Is(err, writequeue.ErrWriteTimeout) {
		return code.ErrorWriteBusy
	}

	if errors.Is(err, domain.ErrInvalidOrder) {
		return code.ErrorNoteInvalidOrder.WithDetails(err.Error())
	}
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindProtocol:
		return code.ErrorInvalidParams.WithDetails(err.Error())
	case domain.KindNotFound:
		return code.ErrorNotFound
	case domain.KindForbidden:
		return code.ErrorForbidden
	case domain.KindStorage:
		return code.ErrorDBQuery
	}
	return code.ErrorServerInternal
}

// ErrorResponse 统一错误响应处理
// 从 gin.Context 获取 TraceID，将错误转换为 AppError 并返回 JSON 响应
func ErrorResponse(c *gin.Context, err error) {
	traceID := middleware.GetTraceIDFromGin(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		appErr.TraceID = traceID
		c.Set("status_code", http.StatusOK)
		c.JSON(http.StatusOK, appErr)
		return
	}

	codeErr := ToCode(err)
	if codeErr == code.ErrorServerInternal || codeErr == code.ErrorDBQuery {
		// 内部错误不向客户端暴露原因，记录到访问日志
		_ = c.Error(err)
	}
	ErrorResponseWithCode(c, codeErr, err)
}

// ErrorResponseWithCode 使用指定的 Code 对象返回错误响应
func ErrorResponseWithCode(c *gin.Context, codeErr *code.Code, cause error) {
	response := &AppError{
		Code:      codeErr.Code(),
		Message:   codeErr.Msg(),
		Details:   codeErr.Details(),
		TraceID:   middleware.GetTraceIDFromGin(c),
		Cause:     cause,
		Timestamp: time.Now(),
	}
	c.Set("status_code", http.StatusOK)
	c.JSON(http.StatusOK, response)
}

// IsAppError 检查错误是否为 AppError 类型
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

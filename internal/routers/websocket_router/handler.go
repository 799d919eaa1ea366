// Package websocket_router 提供 WebSocket 路由处理器
package websocket_router

import (
	"context"
	"errors"

	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// Submitter runs fn on a bounded pool and waits for the result.
type Submitter interface {
	Submit(ctx context.Context, fn func(context.Context) error) error
}

// WSHandler WebSocket 基础 Handler，持有日志器
type WSHandler struct {
	logger *zap.Logger
}

func newWSHandler(lg *zap.Logger) *WSHandler {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &WSHandler{logger: lg}
}

func traceID(c *pkgapp.WebsocketClient) string {
	if c == nil {
		return ""
	}
	return c.TraceID
}

// logError 记录错误日志，包含 Trace ID
// 连接已关闭导致的错误降级为 Debug
func (h *WSHandler) logError(c *pkgapp.WebsocketClient, method string, err error) {
	if c != nil && c.Context().Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, pkgapp.ErrConnClosed)) {
		h.logDebug(c, method, zap.Error(err))
		return
	}
	h.logger.Error(method,
		zap.Error(err),
		zap.String(logger.FieldTraceID, traceID(c)),
	)
}

// logDebug 记录调试日志，包含 Trace ID
func (h *WSHandler) logDebug(c *pkgapp.WebsocketClient, method string, fields ...zap.Field) {
	allFields := append([]zap.Field{zap.String(logger.FieldTraceID, traceID(c))}, fields...)
	h.logger.Debug(method, allFields...)
}

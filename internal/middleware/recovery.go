package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件（支持依赖注入）
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			var errorMsg string
			fields := []zap.Field{
				zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
				zap.String("router", c.Request.URL.Path),
				zap.String(logger.FieldMethod, c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String("user-agent", c.Request.UserAgent()),
				zap.String("stack", string(debug.Stack())),
			}
			switch v := rec.(type) {
			case error:
				errorMsg = v.Error()
				lg.Error("Recovered from panic", append(fields, zap.Error(v))...)
			case string:
				errorMsg = v
				lg.Error("Recovered from panic", append(fields, zap.String("panic_value", v))...)
			default:
				// 其它类型的 panic
				errorMsg = fmt.Sprintf("%v", v)
				lg.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", errorMsg))...)
			}

			// 返回统一的错误响应
			app.NewResponse(c).ToResponse(code.ErrorServerInternal.WithDetails(errorMsg))
			c.Abort()
		}()

		c.Next()
	}
}

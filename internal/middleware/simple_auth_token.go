package middleware

import (
	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
)

// SimpleAuthTokenWithConfig 简单 Token 认证中间件（使用注入的配置），用于私有路由
// authToken 为空时放行
func SimpleAuthTokenWithConfig(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {

		if authToken == "" {
			c.Next()
			return
		}

		var token string
		if s, exist := c.GetQuery("authorization"); exist {
			token = s
		} else if s = c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		}

		if token != authToken {
			app.NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Next()
	}
}

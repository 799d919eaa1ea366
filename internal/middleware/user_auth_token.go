package middleware

import (
	"context"
	"strings"

	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/gin-gonic/gin"
)

// RevocationChecker reports whether a parsed token was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, user *app.UserEntity) (bool, error)
}

// GetRequestToken 按 authorization、token 的顺序从查询参数和请求头读取 Token
func GetRequestToken(c *gin.Context) string {
	var token string
	for _, name := range []string{"authorization", "Authorization", "token", "Token"} {
		if s, exist := c.GetQuery(name); exist && s != "" {
			token = s
			break
		}
		if s := c.GetHeader(name); s != "" {
			token = s
			break
		}
	}
	if t, ok := strings.CutPrefix(token, "Bearer "); ok {
		token = t
	}
	return strings.TrimSpace(token)
}

// UserAuthTokenWithConfig 用户 Token 认证中间件（使用注入的 TokenManager）
// revoked 为 nil 时不检查注销状态
func UserAuthTokenWithConfig(tm app.TokenManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := GetRequestToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), user)
			if err != nil {
				response.ToResponse(code.ErrorServerInternal.WithDetails(err.Error()))
				c.Abort()
				return
			}
			if isRevoked {
				response.ToResponse(code.ErrorInvalidUserAuthToken)
				c.Abort()
				return
			}
		}

		if user.IP == "" {
			user.IP = app.GetRequestIP(c)
		}
		c.Set(app.ContextUserKey, user)
		c.Next()
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"channel_admin_v1/internal/service"
)

// ==================== 会话校验 ====================

// SessionChecker 登录状态查询
type SessionChecker interface {
	IsAuthenticated(ctx context.Context) (bool, error)
}

// RequireLogin 登录校验中间件
// 登录状态保存在存储中的单一标记上，所有客户端共享
func RequireLogin(checker SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := checker.IsAuthenticated(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "读取登录状态失败: " + err.Error(),
			})
			c.Abort()
			return
		}

		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": service.ErrNotLoggedIn.Error(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

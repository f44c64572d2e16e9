package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"channel_admin_v1/internal/middleware"
	"channel_admin_v1/internal/service"
)

// statusOf 业务错误到 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrChannelNameRequired),
		errors.Is(err, service.ErrCustomerFieldsRequired),
		errors.Is(err, service.ErrCredentialsRequired),
		errors.Is(err, service.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrChannelNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSnapshotDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError 统一错误响应
func abortWithError(ctx *gin.Context, err error) {
	status := statusOf(err)
	_ = ctx.Error(err)

	body := gin.H{
		"code":    status,
		"message": err.Error(),
	}
	// 服务端错误带上请求 ID，便于对照访问日志
	if status >= http.StatusInternalServerError {
		if id := middleware.GetRequestID(ctx.Request.Context()); id != "" {
			body["request_id"] = id
		}
	}
	ctx.JSON(status, body)
}

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": "参数错误: " + err.Error(),
	})
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/service"
)

// ==================== SessionController 登录控制器 ====================

// SessionController 登录 / 登出 / 状态
type SessionController struct {
	userService *service.UserService
}

// NewSessionController 创建登录控制器
func NewSessionController(userService *service.UserService) *SessionController {
	return &SessionController{userService: userService}
}

// Login 登录
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.SessionStatus
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (c *SessionController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	email := req.Email
	password := req.Password
	if email == "" && password == "" {
		abortWithError(ctx, service.ErrCredentialsRequired)
		return
	}

	// 只填一项时另一项用演示默认值
	fallback := c.userService.Fallback()
	if email == "" {
		email = fallback.Email
	}
	if password == "" {
		password = fallback.Password
	}

	if err := c.userService.Login(ctx.Request.Context(), email, password); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "登录成功",
		"data":    dto.SessionStatus{Authenticated: true, Email: email},
	})
}

// Logout 登出
// @Summary 登出
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (c *SessionController) Logout(ctx *gin.Context) {
	if err := c.userService.Logout(ctx.Request.Context()); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "已登出",
	})
}

// Status 当前登录状态
// @Summary 登录状态
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.SessionStatus
// @Router /api/auth/status [get]
func (c *SessionController) Status(ctx *gin.Context) {
	status, err := c.userService.Status(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": status,
	})
}

// Demo 演示凭据
// @Summary 演示凭据
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.DemoCredentials
// @Router /api/auth/demo [get]
func (c *SessionController) Demo(ctx *gin.Context) {
	creds, err := c.userService.DemoCredentials(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": creds,
	})
}

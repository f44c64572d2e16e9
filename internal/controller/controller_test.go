package controller

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"channel_admin_v1/internal/middleware"
	"channel_admin_v1/internal/repository"
	"channel_admin_v1/internal/service"
	"channel_admin_v1/pkg/kvstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrChannelNameRequired, http.StatusBadRequest},
		{service.ErrCustomerFieldsRequired, http.StatusBadRequest},
		{service.ErrCredentialsRequired, http.StatusBadRequest},
		{fmt.Errorf("%w: bad", service.ErrInvalidSnapshot), http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrChannelNotFound, http.StatusNotFound},
		{service.ErrCustomerNotFound, http.StatusNotFound},
		{service.ErrSnapshotDisabled, http.StatusServiceUnavailable},
		{fmt.Errorf("读取 channels 失败: %w", kvstore.ErrNotFound), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.err))
		})
	}
}

func setupSessionRouter(t *testing.T) (*gin.Engine, *service.UserService) {
	t.Helper()
	logger := zap.NewNop()
	uow := repository.NewUnitOfWork(kvstore.NewMemoryStore())
	bootstrap := service.NewBootstrapService(uow, logger)
	users := service.NewUserService(uow, bootstrap, service.DefaultFallback(), logger)

	ctl := NewSessionController(users)
	r := gin.New()
	r.POST("/login", ctl.Login)
	r.POST("/logout", ctl.Logout)
	return r, users
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionController_Login(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		loggedIn bool
	}{
		{"两项都为空", `{"email":"","password":""}`, http.StatusBadRequest, false},
		{"仅空白邮箱", `{"email":"   "}`, http.StatusUnauthorized, false},
		{"空白邮箱不回退默认值", `{"email":"   ","password":"password123"}`, http.StatusUnauthorized, false},
		{"只填密码", `{"password":"password123"}`, http.StatusOK, true},
		{"只填邮箱", `{"email":"admin@example.com"}`, http.StatusOK, true},
		{"密码错误", `{"email":"admin@example.com","password":"x"}`, http.StatusUnauthorized, false},
		{"非法 JSON", `{`, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 未初始化的存储：登录时自动补写默认数据
			r, users := setupSessionRouter(t)

			w := postJSON(r, "/login", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			ok, err := users.IsAuthenticated(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.loggedIn, ok)
		})
	}
}

func TestSessionController_Logout(t *testing.T) {
	r, users := setupSessionRouter(t)

	require.Equal(t, http.StatusOK, postJSON(r, "/login", `{"email":"admin@example.com","password":"password123"}`).Code)
	require.Equal(t, http.StatusOK, postJSON(r, "/logout", ``).Code)

	ok, err := users.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAbortWithError_ServerErrorCarriesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestLog(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { abortWithError(c, fmt.Errorf("写入 %s 失败", "channels")) })
	r.GET("/missing", func(c *gin.Context) { abortWithError(c, service.ErrChannelNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-1"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "request_id")
}

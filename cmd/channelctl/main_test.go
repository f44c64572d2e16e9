package main

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"channel_admin_v1/internal/controller"
	"channel_admin_v1/internal/middleware"
	"channel_admin_v1/internal/repository"
	"channel_admin_v1/internal/router"
	"channel_admin_v1/internal/service"
	"channel_admin_v1/pkg/kvstore"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	uow := repository.NewUnitOfWork(kvstore.NewMemoryStore())
	bootstrap := service.NewBootstrapService(uow, logger)
	users := service.NewUserService(uow, bootstrap, service.DefaultFallback(), logger)

	engine := router.SetupRouter(&router.Controllers{
		Session:  controller.NewSessionController(users),
		Channel:  controller.NewChannelController(service.NewChannelService(uow, logger)),
		Customer: controller.NewCustomerController(service.NewCustomerService(uow, logger), service.NewAccessService(uow)),
		Maintenance: controller.NewMaintenanceController(
			service.NewIntegrityService(uow, logger),
			service.NewSnapshotService(uow, nil, logger),
		),
	}, router.Options{Session: users, Limiter: middleware.NewCooldownLimiter(), Logger: logger})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"channelctl", "--server", server}, args...))
	return out.String(), err
}

func TestChannelctl(t *testing.T) {
	server := newTestServer(t)

	_, err := run(t, server, "channels", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	out, err := run(t, server, "login", "--email", "admin@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "登录成功")

	out, err = run(t, server, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "已登录 (admin@example.com)")

	out, err = run(t, server, "channels", "add", "--global", "VIP", "Lounge")
	require.NoError(t, err)
	channelID := string(bytes.TrimSpace([]byte(out)))
	assert.NotEmpty(t, channelID)

	out, err = run(t, server, "channels", "list", "-k", "lounge")
	require.NoError(t, err)
	assert.Contains(t, out, "VIP Lounge")
	assert.Contains(t, out, channelID)

	out, err = run(t, server, "customers", "add",
		"--email", "a@x.io", "--first-name", "Ann", "--last-name", "Lee", "--channel", channelID)
	require.NoError(t, err)
	customerID := string(bytes.TrimSpace([]byte(out)))

	out, err = run(t, server, "customers", "access", customerID, channelID)
	require.NoError(t, err)
	assert.Contains(t, out, "mode=channel allowed=true")

	out, err = run(t, server, "customers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "a@x.io")

	_, err = run(t, server, "channels", "delete", channelID)
	require.NoError(t, err)

	out, err = run(t, server, "maintenance", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "orphans=0")

	_, err = run(t, server, "customers", "delete", customerID)
	require.NoError(t, err)

	out, err = run(t, server, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "已登出")
}

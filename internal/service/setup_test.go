package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"channel_admin_v1/internal/repository"
	"channel_admin_v1/pkg/kvstore"
)

// ==================== 测试辅助 ====================

type testEnv struct {
	store     *kvstore.MemoryStore
	uow       *repository.UnitOfWork
	bootstrap *BootstrapService
	channels  *ChannelService
	customers *CustomerService
	users     *UserService
	access    *AccessService
	integrity *IntegrityService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	store := kvstore.NewMemoryStore()
	uow := repository.NewUnitOfWork(store)
	logger := zap.NewNop()

	bootstrap := NewBootstrapService(uow, logger)
	return &testEnv{
		store:     store,
		uow:       uow,
		bootstrap: bootstrap,
		channels:  NewChannelService(uow, logger),
		customers: NewCustomerService(uow, logger),
		users:     NewUserService(uow, bootstrap, DefaultFallback(), logger),
		access:    NewAccessService(uow),
		integrity: NewIntegrityService(uow, logger),
	}
}

// setupSeededEnv 已执行初始化
func setupSeededEnv(t *testing.T) *testEnv {
	t.Helper()
	env := setupEnv(t)
	_, err := env.bootstrap.Initialize(context.Background())
	require.NoError(t, err)
	return env
}

package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSnapshotService_ExportRestore(t *testing.T) {
	env := setupSeededEnv(t)
	ctx := context.Background()

	provider, err := NewLocalStorage(&StorageConfig{LocalDir: t.TempDir()})
	require.NoError(t, err)
	snapshots := NewSnapshotService(env.uow, provider, zap.NewNop())

	channels, _ := env.channels.ListChannels(ctx, "")
	_, err = env.customers.AddCustomer(ctx, "a@x.io", "Ann", "Lee", []string{channels[1].ID})
	require.NoError(t, err)
	require.NoError(t, env.users.Login(ctx, "admin@example.com", "password123"))

	info, err := snapshots.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 1, info.Customers)
	assert.Equal(t, 1, info.Links)
	require.FileExists(t, info.Location)

	data, err := os.ReadFile(info.Location)
	require.NoError(t, err)

	// 修改后恢复
	_, err = env.channels.DeleteChannel(ctx, channels[1].ID)
	require.NoError(t, err)
	require.NoError(t, env.users.Logout(ctx))

	restored, err := snapshots.Restore(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Channels)

	after, _ := env.channels.ListChannels(ctx, "")
	assert.Equal(t, channels, after)
	links, _ := env.uow.Links.List(ctx)
	require.Len(t, links, 1)
	assert.Equal(t, channels[1].ID, links[0].ChannelID)
	ok, _ := env.users.IsAuthenticated(ctx)
	assert.True(t, ok)
}

func TestSnapshotService_Disabled(t *testing.T) {
	env := setupSeededEnv(t)

	snapshots := NewSnapshotService(env.uow, nil, zap.NewNop())
	_, err := snapshots.Export(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotDisabled)
}

func TestSnapshotService_RestoreInvalid(t *testing.T) {
	env := setupSeededEnv(t)
	ctx := context.Background()
	snapshots := NewSnapshotService(env.uow, nil, zap.NewNop())

	tests := []struct {
		name string
		data string
	}{
		{"非 JSON", "not json"},
		{"版本不符", `{"version":99,"user":{"email":"a","password":"b","isLoggedIn":false}}`},
		{"缺少用户", `{"version":1,"channels":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := snapshots.Restore(ctx, []byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}

	// 失败的恢复不应改动数据
	channels, _ := env.channels.ListChannels(ctx, "")
	assert.Len(t, channels, 2)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

func TestBootstrap_SeedsDefaults(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	result, err := env.bootstrap.Initialize(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, repository.AllKeys, result.Seeded)

	channels, err := env.channels.ListChannels(ctx, "")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "Default Channel", channels[0].Name)
	assert.True(t, channels[0].AllowGlobalLogin)
	assert.Equal(t, "Premium Channel", channels[1].Name)
	assert.False(t, channels[1].AllowGlobalLogin)

	customers, err := env.customers.ListWithChannels(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, customers)

	user, err := env.uow.Users.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.DefaultUserEmail, user.Email)
	assert.Equal(t, model.DefaultUserPassword, user.Password)
	assert.False(t, user.IsLoggedIn)

	raw, err := env.store.Get(ctx, repository.KeyCustomerChannels)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestBootstrap_Idempotent(t *testing.T) {
	env := setupSeededEnv(t)
	ctx := context.Background()

	_, err := env.channels.AddChannel(ctx, "Extra", false)
	require.NoError(t, err)
	_, err = env.customers.AddCustomer(ctx, "a@b.c", "A", "B", nil)
	require.NoError(t, err)
	require.NoError(t, env.users.Login(ctx, model.DefaultUserEmail, model.DefaultUserPassword))

	before, err := env.channels.ListChannels(ctx, "")
	require.NoError(t, err)

	result, err := env.bootstrap.Initialize(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Seeded)
	assert.False(t, result.RepairedUser)

	after, err := env.channels.ListChannels(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	customers, err := env.customers.ListWithChannels(ctx, "")
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	ok, err := env.users.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "初始化不应重置登录状态")
}

func TestBootstrap_RepairsLegacyUser(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	legacy := model.SysUser{Email: "mirsat@example.com", Password: "old", IsLoggedIn: true}
	require.NoError(t, env.uow.Users.Save(ctx, &legacy))

	result, err := env.bootstrap.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, result.RepairedUser)
	assert.NotContains(t, result.Seeded, repository.KeyUser)

	user, err := env.uow.Users.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserEmail, user.Email)
	assert.Equal(t, model.DefaultUserPassword, user.Password)
	assert.True(t, user.IsLoggedIn)
}

func TestBootstrap_PartialState(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	custom := []model.Channel{model.NewChannel("Only", false)}
	require.NoError(t, env.uow.Channels.SaveAll(ctx, custom))

	result, err := env.bootstrap.Initialize(ctx)
	require.NoError(t, err)
	assert.NotContains(t, result.Seeded, repository.KeyChannels)

	channels, err := env.channels.ListChannels(ctx, "")
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "Only", channels[0].Name)
}

func TestBootstrap_KeepsNullUserDocument(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Set(ctx, repository.KeyUser, []byte("null")))

	result, err := env.bootstrap.Initialize(ctx)
	require.NoError(t, err)
	assert.NotContains(t, result.Seeded, repository.KeyUser)
	assert.False(t, result.RepairedUser)

	raw, err := env.store.Get(ctx, repository.KeyUser)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

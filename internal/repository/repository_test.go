package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/pkg/kvstore"
)

// ==================== 测试辅助 ====================

func setupUow(t *testing.T) (*UnitOfWork, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewUnitOfWork(store), store
}

// ==================== 渠道 ====================

func TestChannelRepo_ListEmptyWhenAbsent(t *testing.T) {
	uow, _ := setupUow(t)
	ctx := context.Background()

	channels, err := uow.Channels.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, channels)
	assert.Empty(t, channels)

	ok, err := uow.Channels.Initialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChannelRepo_CreateKeepsOrder(t *testing.T) {
	uow, _ := setupUow(t)
	ctx := context.Background()

	a := model.NewChannel("A", true)
	b := model.NewChannel("B", false)
	require.NoError(t, uow.Channels.Create(ctx, &a))
	require.NoError(t, uow.Channels.Create(ctx, &b))

	channels, err := uow.Channels.List(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "A", channels[0].Name)
	assert.Equal(t, "B", channels[1].Name)

	found, err := uow.Channels.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.AllowGlobalLogin)

	missing, err := uow.Channels.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChannelRepo_DeleteMissingDoesNotWrite(t *testing.T) {
	uow, store := setupUow(t)
	ctx := context.Background()

	removed, err := uow.Channels.Delete(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, removed)

	// 未命中时不应创建文档
	ok, _ := store.Exists(ctx, KeyChannels)
	assert.False(t, ok)
}

func TestCollection_NullDocument(t *testing.T) {
	uow, store := setupUow(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyCustomers, []byte("null")))

	customers, err := uow.Customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCollection_CorruptDocument(t *testing.T) {
	uow, store := setupUow(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyChannels, []byte("{not json")))

	_, err := uow.Channels.List(ctx)
	assert.Error(t, err)
}

// ==================== 关联 ====================

func TestCustomerChannelRepo_Deletes(t *testing.T) {
	uow, _ := setupUow(t)
	ctx := context.Background()

	links := []model.CustomerChannel{
		model.NewCustomerChannel("c1", "ch1"),
		model.NewCustomerChannel("c1", "ch2"),
		model.NewCustomerChannel("c2", "ch1"),
	}
	require.NoError(t, uow.Links.CreateBatch(ctx, links))

	n, err := uow.Links.DeleteByChannelID(ctx, "ch1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rest, err := uow.Links.List(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "ch2", rest[0].ChannelID)

	n, err = uow.Links.DeleteByIDs(ctx, []string{rest[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byCustomer, err := uow.Links.ListByCustomerID(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, byCustomer)
}

// ==================== 用户 ====================

func TestUserRepo_GetSave(t *testing.T) {
	uow, _ := setupUow(t)
	ctx := context.Background()

	user, err := uow.Users.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	u := model.NewDefaultUser()
	u.IsLoggedIn = true
	require.NoError(t, uow.Users.Save(ctx, &u))

	user, err = uow.Users.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.IsLoggedIn)
	assert.Equal(t, model.DefaultUserEmail, user.Email)
}

// ==================== 事务 ====================

func TestUnitOfWork_RollbackSpansDocuments(t *testing.T) {
	uow, _ := setupUow(t)
	ctx := context.Background()

	ch := model.NewChannel("A", true)
	require.NoError(t, uow.Channels.Create(ctx, &ch))
	require.NoError(t, uow.Links.CreateBatch(ctx, []model.CustomerChannel{model.NewCustomerChannel("c1", ch.ID)}))

	boom := errors.New("boom")
	err := uow.Transaction(ctx, func(tx *UnitOfWork) error {
		if _, err := tx.Channels.Delete(ctx, ch.ID); err != nil {
			return err
		}
		if _, err := tx.Links.DeleteByChannelID(ctx, ch.ID); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	channels, _ := uow.Channels.List(ctx)
	links, _ := uow.Links.List(ctx)
	assert.Len(t, channels, 1)
	assert.Len(t, links, 1)
}

func TestUnitOfWork_NestedTransactionReusesTx(t *testing.T) {
	uow, _ := setupUow(t)
	ctx := context.Background()

	err := uow.Transaction(ctx, func(tx *UnitOfWork) error {
		return tx.Transaction(ctx, func(inner *UnitOfWork) error {
			assert.Same(t, tx, inner)
			return nil
		})
	})
	require.NoError(t, err)
}

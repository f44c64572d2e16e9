package repository

import (
	"context"

	"channel_admin_v1/pkg/kvstore"
)

// UnitOfWork 工作单元：跨文档写入在同一事务中完成
type UnitOfWork struct {
	store kvstore.Store // 事务内为 nil

	Channels  ChannelRepository
	Customers CustomerRepository
	Links     CustomerChannelRepository
	Users     UserRepository
}

// NewUnitOfWork 创建工作单元
func NewUnitOfWork(store kvstore.Store) *UnitOfWork {
	uow := newUnitOfWork(store)
	uow.store = store
	return uow
}

func newUnitOfWork(db kvstore.Tx) *UnitOfWork {
	return &UnitOfWork{
		Channels:  NewChannelRepository(db),
		Customers: NewCustomerRepository(db),
		Links:     NewCustomerChannelRepository(db),
		Users:     NewUserRepository(db),
	}
}

// Transaction 执行事务；已在事务内时直接复用当前工作单元
func (u *UnitOfWork) Transaction(ctx context.Context, fn func(uow *UnitOfWork) error) error {
	if u.store == nil {
		return fn(u)
	}
	return u.store.Transaction(ctx, func(tx kvstore.Tx) error {
		return fn(newUnitOfWork(tx))
	})
}

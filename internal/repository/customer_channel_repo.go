package repository

import (
	"context"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/pkg/kvstore"
)

// ==================== CustomerChannelRepository 关联仓库 ====================

// CustomerChannelRepository 客户-渠道关联仓库接口
type CustomerChannelRepository interface {
	List(ctx context.Context) ([]model.CustomerChannel, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]model.CustomerChannel, error)
	CreateBatch(ctx context.Context, links []model.CustomerChannel) error
	DeleteByChannelID(ctx context.Context, channelID string) (int, error)
	DeleteByCustomerID(ctx context.Context, customerID string) (int, error)
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
	SaveAll(ctx context.Context, links []model.CustomerChannel) error
	Initialized(ctx context.Context) (bool, error)
}

type customerChannelRepository struct {
	db   kvstore.Tx
	coll collection[model.CustomerChannel]
}

// NewCustomerChannelRepository 创建关联仓库
func NewCustomerChannelRepository(db kvstore.Tx) CustomerChannelRepository {
	return &customerChannelRepository{db: db, coll: collection[model.CustomerChannel]{key: KeyCustomerChannels}}
}

func (r *customerChannelRepository) List(ctx context.Context) ([]model.CustomerChannel, error) {
	return r.coll.load(ctx, r.db)
}

func (r *customerChannelRepository) ListByCustomerID(ctx context.Context, customerID string) ([]model.CustomerChannel, error) {
	links, err := r.coll.load(ctx, r.db)
	if err != nil {
		return nil, err
	}
	out := make([]model.CustomerChannel, 0)
	for _, l := range links {
		if l.CustomerID == customerID {
			out = append(out, l)
		}
	}
	return out, nil
}

// CreateBatch 一次回写；空批次不产生写入
func (r *customerChannelRepository) CreateBatch(ctx context.Context, links []model.CustomerChannel) error {
	if len(links) == 0 {
		return nil
	}
	existing, err := r.coll.load(ctx, r.db)
	if err != nil {
		return err
	}
	return r.coll.save(ctx, r.db, append(existing, links...))
}

// DeleteByChannelID 级联删除：总是回写，与删除数量无关
func (r *customerChannelRepository) DeleteByChannelID(ctx context.Context, channelID string) (int, error) {
	return r.deleteWhere(ctx, func(l model.CustomerChannel) bool { return l.ChannelID == channelID })
}

func (r *customerChannelRepository) DeleteByCustomerID(ctx context.Context, customerID string) (int, error) {
	return r.deleteWhere(ctx, func(l model.CustomerChannel) bool { return l.CustomerID == customerID })
}

func (r *customerChannelRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return r.deleteWhere(ctx, func(l model.CustomerChannel) bool {
		_, hit := set[l.ID]
		return hit
	})
}

func (r *customerChannelRepository) deleteWhere(ctx context.Context, match func(model.CustomerChannel) bool) (int, error) {
	links, err := r.coll.load(ctx, r.db)
	if err != nil {
		return 0, err
	}
	kept, removed := removeWhere(links, match)
	if err := r.coll.save(ctx, r.db, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *customerChannelRepository) SaveAll(ctx context.Context, links []model.CustomerChannel) error {
	return r.coll.save(ctx, r.db, links)
}

func (r *customerChannelRepository) Initialized(ctx context.Context) (bool, error) {
	return r.coll.exists(ctx, r.db)
}

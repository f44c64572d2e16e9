package repository

import (
	"context"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/pkg/kvstore"
)

// ==================== ChannelRepository 渠道仓库 ====================

// ChannelRepository 渠道仓库接口
type ChannelRepository interface {
	List(ctx context.Context) ([]model.Channel, error)
	GetByID(ctx context.Context, id string) (*model.Channel, error)
	Create(ctx context.Context, channel *model.Channel) error
	Delete(ctx context.Context, id string) (bool, error)
	SaveAll(ctx context.Context, channels []model.Channel) error
	Initialized(ctx context.Context) (bool, error)
}

type channelRepository struct {
	db   kvstore.Tx
	coll collection[model.Channel]
}

// NewChannelRepository 创建渠道仓库
func NewChannelRepository(db kvstore.Tx) ChannelRepository {
	return &channelRepository{db: db, coll: collection[model.Channel]{key: KeyChannels}}
}

// List 按插入顺序返回全部渠道
func (r *channelRepository) List(ctx context.Context) ([]model.Channel, error) {
	return r.coll.load(ctx, r.db)
}

// GetByID 未找到返回 nil, nil
func (r *channelRepository) GetByID(ctx context.Context, id string) (*model.Channel, error) {
	channels, err := r.coll.load(ctx, r.db)
	if err != nil {
		return nil, err
	}
	for i := range channels {
		if channels[i].ID == id {
			return &channels[i], nil
		}
	}
	return nil, nil
}

// Create 追加到末尾
func (r *channelRepository) Create(ctx context.Context, channel *model.Channel) error {
	channels, err := r.coll.load(ctx, r.db)
	if err != nil {
		return err
	}
	return r.coll.save(ctx, r.db, append(channels, *channel))
}

// Delete 过滤后整体回写；未命中不写入
func (r *channelRepository) Delete(ctx context.Context, id string) (bool, error) {
	channels, err := r.coll.load(ctx, r.db)
	if err != nil {
		return false, err
	}
	kept, removed := removeWhere(channels, func(c model.Channel) bool { return c.ID == id })
	if removed == 0 {
		return false, nil
	}
	return true, r.coll.save(ctx, r.db, kept)
}

func (r *channelRepository) SaveAll(ctx context.Context, channels []model.Channel) error {
	return r.coll.save(ctx, r.db, channels)
}

// Initialized 文档是否已存在
func (r *channelRepository) Initialized(ctx context.Context) (bool, error) {
	return r.coll.exists(ctx, r.db)
}

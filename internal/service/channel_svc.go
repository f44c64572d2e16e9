package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// ==================== ChannelService 渠道服务 ====================

// ChannelService 渠道服务
type ChannelService struct {
	uow    *repository.UnitOfWork
	logger *zap.Logger
}

// NewChannelService 创建渠道服务
func NewChannelService(uow *repository.UnitOfWork, logger *zap.Logger) *ChannelService {
	return &ChannelService{uow: uow, logger: logger}
}

// AddChannel 新增渠道，名称原样保存
func (s *ChannelService) AddChannel(ctx context.Context, name string, allowGlobalLogin bool) (*model.Channel, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrChannelNameRequired
	}

	channel := model.NewChannel(name, allowGlobalLogin)
	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		return tx.Channels.Create(ctx, &channel)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("channel added",
		zap.String("channel_id", channel.ID),
		zap.String("name", channel.Name),
		zap.Bool("allow_global_login", channel.AllowGlobalLogin))
	return &channel, nil
}

// DeleteChannel 删除渠道并级联删除关联，两份文档在同一事务中写入
// 返回 false 表示渠道不存在，此时不做任何写入
func (s *ChannelService) DeleteChannel(ctx context.Context, id string) (bool, error) {
	var removed bool
	var unlinked int

	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		ok, err := tx.Channels.Delete(ctx, id)
		if err != nil || !ok {
			return err
		}
		unlinked, err = tx.Links.DeleteByChannelID(ctx, id)
		if err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Info("channel deleted", zap.String("channel_id", id), zap.Int("links_removed", unlinked))
	}
	return removed, nil
}

// ListChannels 按插入顺序返回，keyword 按名称不区分大小写过滤
func (s *ChannelService) ListChannels(ctx context.Context, keyword string) ([]model.Channel, error) {
	channels, err := s.uow.Channels.List(ctx)
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		return channels, nil
	}

	kw := strings.ToLower(keyword)
	out := make([]model.Channel, 0, len(channels))
	for _, c := range channels {
		if strings.Contains(strings.ToLower(c.Name), kw) {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetChannel 获取渠道详情
func (s *ChannelService) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	channel, err := s.uow.Channels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}
	return channel, nil
}

// ==================== 错误定义 ====================

var (
	ErrChannelNameRequired = errors.New("channel name is required")
	ErrChannelNotFound     = errors.New("channel not found")
)

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// ==================== SnapshotService 快照服务 ====================

// SnapshotService 导出 / 恢复全部文档
type SnapshotService struct {
	uow      *repository.UnitOfWork
	provider StorageProvider
	logger   *zap.Logger
}

// NewSnapshotService 创建快照服务；provider 为 nil 时只能恢复不能导出
func NewSnapshotService(uow *repository.UnitOfWork, provider StorageProvider, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{uow: uow, provider: provider, logger: logger}
}

// Capture 在一个事务视图内读取四个文档
func (s *SnapshotService) Capture(ctx context.Context) (*dto.SnapshotBundle, error) {
	bundle := &dto.SnapshotBundle{Version: dto.SnapshotVersion, CreatedAt: model.Now()}

	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		var err error
		if bundle.Channels, err = tx.Channels.List(ctx); err != nil {
			return err
		}
		if bundle.Customers, err = tx.Customers.List(ctx); err != nil {
			return err
		}
		if bundle.CustomerChannels, err = tx.Links.List(ctx); err != nil {
			return err
		}
		bundle.User, err = tx.Users.Get(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Export 生成快照并上传
func (s *SnapshotService) Export(ctx context.Context) (*dto.SnapshotInfo, error) {
	if s.provider == nil {
		return nil, ErrSnapshotDisabled
	}

	bundle, err := s.Capture(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化快照失败: %w", err)
	}

	filename := fmt.Sprintf("snapshot-%s.json", bundle.CreatedAt.Format("20060102T150405.000Z"))
	location, err := s.provider.Upload(ctx, data, filename, "application/json")
	if err != nil {
		return nil, err
	}

	info := summarize(bundle)
	info.Location = location
	s.logger.Info("snapshot exported",
		zap.String("location", location),
		zap.Int("channels", info.Channels),
		zap.Int("customers", info.Customers),
		zap.Int("links", info.Links))
	return info, nil
}

// Restore 用快照整体覆盖四个文档，单事务写入
func (s *SnapshotService) Restore(ctx context.Context, data []byte) (*dto.SnapshotInfo, error) {
	var bundle dto.SnapshotBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if bundle.Version != dto.SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, bundle.Version)
	}
	if bundle.User == nil {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidSnapshot)
	}

	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		if err := tx.Channels.SaveAll(ctx, bundle.Channels); err != nil {
			return err
		}
		if err := tx.Customers.SaveAll(ctx, bundle.Customers); err != nil {
			return err
		}
		if err := tx.Links.SaveAll(ctx, bundle.CustomerChannels); err != nil {
			return err
		}
		return tx.Users.Save(ctx, bundle.User)
	})
	if err != nil {
		return nil, err
	}

	info := summarize(&bundle)
	s.logger.Info("snapshot restored",
		zap.Time("snapshot_created_at", bundle.CreatedAt),
		zap.Int("channels", info.Channels),
		zap.Int("customers", info.Customers))
	return info, nil
}

func summarize(b *dto.SnapshotBundle) *dto.SnapshotInfo {
	return &dto.SnapshotInfo{
		CreatedAt: b.CreatedAt,
		Channels:  len(b.Channels),
		Customers: len(b.Customers),
		Links:     len(b.CustomerChannels),
	}
}

// ==================== 错误定义 ====================

var (
	ErrSnapshotDisabled = errors.New("snapshot storage is not configured")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
)

package service

import (
	"context"

	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// IntegrityService 检查悬空关联
// 新增客户时允许引用不存在的渠道，这里负责发现（可选清理）
type IntegrityService struct {
	uow    *repository.UnitOfWork
	logger *zap.Logger
}

// NewIntegrityService 创建完整性检查服务
func NewIntegrityService(uow *repository.UnitOfWork, logger *zap.Logger) *IntegrityService {
	return &IntegrityService{uow: uow, logger: logger}
}

// Check 找出悬空关联；prune 为 true 时在同一事务中删除
func (s *IntegrityService) Check(ctx context.Context, prune bool) (*dto.IntegrityReport, error) {
	report := &dto.IntegrityReport{CheckedAt: model.Now(), OrphanLinks: []dto.OrphanLink{}}

	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		customers, err := tx.Customers.List(ctx)
		if err != nil {
			return err
		}
		channels, err := tx.Channels.List(ctx)
		if err != nil {
			return err
		}
		links, err := tx.Links.List(ctx)
		if err != nil {
			return err
		}

		customerIDs := make(map[string]struct{}, len(customers))
		for _, c := range customers {
			customerIDs[c.ID] = struct{}{}
		}
		channelIDs := make(map[string]struct{}, len(channels))
		for _, c := range channels {
			channelIDs[c.ID] = struct{}{}
		}

		report.TotalLinks = len(links)
		var orphanIDs []string
		for _, l := range links {
			_, hasCustomer := customerIDs[l.CustomerID]
			_, hasChannel := channelIDs[l.ChannelID]
			if hasCustomer && hasChannel {
				continue
			}
			report.OrphanLinks = append(report.OrphanLinks, dto.OrphanLink{
				CustomerChannel: l,
				MissingCustomer: !hasCustomer,
				MissingChannel:  !hasChannel,
			})
			orphanIDs = append(orphanIDs, l.ID)
		}

		if !prune || len(orphanIDs) == 0 {
			return nil
		}
		report.Pruned, err = tx.Links.DeleteByIDs(ctx, orphanIDs)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(report.OrphanLinks) > 0 {
		s.logger.Warn("orphan customer-channel links found",
			zap.Int("orphans", len(report.OrphanLinks)),
			zap.Int("pruned", report.Pruned))
	}
	return report, nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// ==================== BootstrapService 初始化服务 ====================

// BootstrapService 首次运行时写入默认数据
type BootstrapService struct {
	uow    *repository.UnitOfWork
	logger *zap.Logger
}

// InitResult 初始化结果
type InitResult struct {
	Seeded       []string // 本次新写入的文档键
	RepairedUser bool     // 是否重置了旧版账号
}

// NewBootstrapService 创建初始化服务
func NewBootstrapService(uow *repository.UnitOfWork, logger *zap.Logger) *BootstrapService {
	return &BootstrapService{uow: uow, logger: logger}
}

// DefaultChannels 默认渠道
func DefaultChannels() []model.Channel {
	return []model.Channel{
		model.NewChannel("Default Channel", true),
		model.NewChannel("Premium Channel", false),
	}
}

// Initialize 幂等：已存在的文档保持原样
func (s *BootstrapService) Initialize(ctx context.Context) (*InitResult, error) {
	result := &InitResult{}
	err := s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		r, err := s.seed(ctx, tx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Seeded) > 0 {
		s.logger.Info("store initialized", zap.Strings("seeded", result.Seeded))
	}
	if result.RepairedUser {
		s.logger.Warn("legacy user credentials reset to defaults")
	}
	return result, nil
}

func (s *BootstrapService) seed(ctx context.Context, tx *repository.UnitOfWork) (*InitResult, error) {
	result := &InitResult{}

	// 1. 渠道
	ok, err := tx.Channels.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := tx.Channels.SaveAll(ctx, DefaultChannels()); err != nil {
			return nil, err
		}
		result.Seeded = append(result.Seeded, repository.KeyChannels)
	}

	// 2. 客户
	ok, err = tx.Customers.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := tx.Customers.SaveAll(ctx, nil); err != nil {
			return nil, err
		}
		result.Seeded = append(result.Seeded, repository.KeyCustomers)
	}

	// 3. 关联
	ok, err = tx.Links.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := tx.Links.SaveAll(ctx, nil); err != nil {
			return nil, err
		}
		result.Seeded = append(result.Seeded, repository.KeyCustomerChannels)
	}

	// 4. 用户：键不存在则写默认账号；已存在时只对旧版 mirsat 账号重置凭据
	ok, err = tx.Users.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		def := model.NewDefaultUser()
		if err := tx.Users.Save(ctx, &def); err != nil {
			return nil, err
		}
		result.Seeded = append(result.Seeded, repository.KeyUser)
		return result, nil
	}

	// 内容为 null 的用户文档原样保留
	user, err := tx.Users.Get(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil && user.IsLegacy() {
		user.Email = model.DefaultUserEmail
		user.Password = model.DefaultUserPassword
		if err := tx.Users.Save(ctx, user); err != nil {
			return nil, err
		}
		result.RepairedUser = true
	}

	return result, nil
}

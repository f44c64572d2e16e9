package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/internal/model"
	"channel_admin_v1/internal/repository"
)

// ==================== UserService 会话服务 ====================

// Credentials 邮箱 + 密码
type Credentials struct {
	Email    string
	Password string
}

// DefaultFallback 演示用兜底凭据
func DefaultFallback() Credentials {
	return Credentials{Email: model.DefaultUserEmail, Password: model.DefaultUserPassword}
}

// UserService 单用户登录状态
// 不做密码哈希、不过期，所有调用方共享同一个登录标记
type UserService struct {
	uow       *repository.UnitOfWork
	bootstrap *BootstrapService
	fallback  Credentials
	logger    *zap.Logger
}

// NewUserService 创建会话服务
func NewUserService(uow *repository.UnitOfWork, bootstrap *BootstrapService, fallback Credentials, logger *zap.Logger) *UserService {
	return &UserService{
		uow:       uow,
		bootstrap: bootstrap,
		fallback:  fallback,
		logger:    logger,
	}
}

// ==================== 认证相关 ====================

// Login 凭据与存储的用户一致，或等于兜底凭据时登录成功
// 失败时不修改登录状态
func (s *UserService) Login(ctx context.Context, email, password string) error {
	// 用户文档缺失时先补初始化
	user, err := s.uow.Users.Get(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		if _, err := s.bootstrap.Initialize(ctx); err != nil {
			return err
		}
	}

	err = s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		user, err := tx.Users.Get(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrInvalidCredentials
		}
		if !user.Matches(email, password) && !s.isFallback(email, password) {
			return ErrInvalidCredentials
		}

		user.IsLoggedIn = true
		return tx.Users.Save(ctx, user)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Warn("login rejected", zap.String("email", email))
		}
		return err
	}

	s.logger.Info("login succeeded", zap.String("email", email))
	return nil
}

// Logout 清除登录标记；用户不存在时什么都不做
func (s *UserService) Logout(ctx context.Context) error {
	return s.uow.Transaction(ctx, func(tx *repository.UnitOfWork) error {
		user, err := tx.Users.Get(ctx)
		if err != nil || user == nil {
			return err
		}
		user.IsLoggedIn = false
		return tx.Users.Save(ctx, user)
	})
}

// IsAuthenticated 当前登录标记；用户不存在视为未登录
func (s *UserService) IsAuthenticated(ctx context.Context) (bool, error) {
	user, err := s.uow.Users.Get(ctx)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsLoggedIn, nil
}

// Status 登录状态及当前账号
func (s *UserService) Status(ctx context.Context) (*dto.SessionStatus, error) {
	user, err := s.uow.Users.Get(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &dto.SessionStatus{}, nil
	}
	return &dto.SessionStatus{Authenticated: user.IsLoggedIn, Email: user.Email}, nil
}

// DemoCredentials 登录页提示用的凭据，缺省时返回兜底凭据
func (s *UserService) DemoCredentials(ctx context.Context) (*dto.DemoCredentials, error) {
	creds := &dto.DemoCredentials{Email: s.fallback.Email, Password: s.fallback.Password}

	user, err := s.uow.Users.Get(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.Email != "" {
			creds.Email = user.Email
		}
		if user.Password != "" {
			creds.Password = user.Password
		}
	}
	return creds, nil
}

// Fallback 兜底凭据
func (s *UserService) Fallback() Credentials {
	return s.fallback
}

func (s *UserService) isFallback(email, password string) bool {
	return s.fallback.Email != "" && email == s.fallback.Email && password == s.fallback.Password
}

// ==================== 错误定义 ====================

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrCredentialsRequired = errors.New("please enter both email and password")
	ErrNotLoggedIn         = errors.New("not logged in")
)

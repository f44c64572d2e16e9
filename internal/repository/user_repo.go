package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"channel_admin_v1/internal/model"
	"channel_admin_v1/pkg/kvstore"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 单例用户仓库接口
type UserRepository interface {
	// Get 用户文档不存在时返回 nil, nil
	Get(ctx context.Context) (*model.SysUser, error)
	Save(ctx context.Context, user *model.SysUser) error
	Initialized(ctx context.Context) (bool, error)
}

type userRepository struct {
	db kvstore.Tx
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db kvstore.Tx) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context) (*model.SysUser, error) {
	raw, err := r.db.Get(ctx, KeyUser)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", KeyUser, err)
	}

	// 文档内容为 null 时按不存在处理
	var user *model.SysUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", KeyUser, err)
	}
	return user, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.SysUser) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", KeyUser, err)
	}
	if err := r.db.Set(ctx, KeyUser, data); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", KeyUser, err)
	}
	return nil
}

func (r *userRepository) Initialized(ctx context.Context) (bool, error) {
	return r.db.Exists(ctx, KeyUser)
}

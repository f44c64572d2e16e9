package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"channel_admin_v1/pkg/kvstore"
)

// ==================== 文档键 ====================

const (
	KeyChannels         = "channels"
	KeyCustomers        = "customers"
	KeyCustomerChannels = "customer_channels"
	KeyUser             = "user"
)

// AllKeys 全部持久化文档
var AllKeys = []string{KeyChannels, KeyCustomers, KeyCustomerChannels, KeyUser}

// ==================== 整文档读写 ====================

// collection 一个键下保存的 JSON 数组
type collection[T any] struct {
	key string
}

// load 读取整个集合；键不存在时返回空切片
func (c collection[T]) load(ctx context.Context, r kvstore.Reader) ([]T, error) {
	raw, err := r.Get(ctx, c.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取 %s 失败: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// save 覆盖写整个集合
func (c collection[T]) save(ctx context.Context, w kvstore.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", c.key, err)
	}
	if err := w.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", c.key, err)
	}
	return nil
}

func (c collection[T]) exists(ctx context.Context, r kvstore.Reader) (bool, error) {
	return r.Exists(ctx, c.key)
}

// removeWhere 过滤掉命中的元素，返回剩余元素与删除数量
func removeWhere[T any](items []T, match func(T) bool) ([]T, int) {
	kept := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	return kept, len(items) - len(kept)
}

package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("kvstore: key not found")

// ==================== 接口定义 ====================

// Reader 只读访问
type Reader interface {
	// Get 读取整个文档，键不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Writer 整文档覆盖写
type Writer interface {
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Tx 事务内视图，写入在 fn 返回 nil 后统一提交
type Tx interface {
	Reader
	Writer
}

// Store 文档存储
// 每个键对应一个完整的 JSON 文档，不支持局部更新
type Store interface {
	Reader
	Writer

	// Transaction 在同一事务中执行 fn，fn 返回错误时所有写入丢弃
	Transaction(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

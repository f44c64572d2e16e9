package kvstore

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ==================== RedisStore Redis 实现 ====================

// RedisOptions Redis 连接参数
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // 键前缀，如 "channel_admin:"
}

// RedisStore 基于 Redis 的文档存储
type RedisStore struct {
	client *redis.Client
	prefix string

	// 进程内串行化事务；跨进程写入不做冲突检测
	txMu sync.Mutex
}

// NewRedisStore 创建 Redis 存储并检查连通性
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisStoreWithClient(client, opts.Prefix), nil
}

// NewRedisStoreWithClient 复用已有客户端
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	return n > 0, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Transaction 写入暂存在本地，最后通过 MULTI/EXEC 一次提交
func (s *RedisStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &redisTx{
		store:   s,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.writes) == 0 && len(tx.deletes) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k := range tx.deletes {
			pipe.Del(ctx, s.key(k))
		}
		for k, v := range tx.writes {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// ==================== 事务视图 ====================

type redisTx struct {
	store   *RedisStore
	writes  map[string][]byte
	deletes map[string]struct{}
}

func (t *redisTx) Get(ctx context.Context, key string) ([]byte, error) {
	if _, gone := t.deletes[key]; gone {
		return nil, ErrNotFound
	}
	if v, ok := t.writes[key]; ok {
		return cloneBytes(v), nil
	}
	return t.store.Get(ctx, key)
}

func (t *redisTx) Exists(ctx context.Context, key string) (bool, error) {
	if _, gone := t.deletes[key]; gone {
		return false, nil
	}
	if _, ok := t.writes[key]; ok {
		return true, nil
	}
	return t.store.Exists(ctx, key)
}

func (t *redisTx) Set(_ context.Context, key string, value []byte) error {
	delete(t.deletes, key)
	t.writes[key] = cloneBytes(value)
	return nil
}

func (t *redisTx) Delete(_ context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = struct{}{}
	return nil
}

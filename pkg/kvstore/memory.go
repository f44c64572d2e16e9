package kvstore

import (
	"context"
	"sync"
)

// ==================== MemoryStore 内存实现 ====================

// MemoryStore 进程内存储，用于测试和临时运行
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// 串行化事务，保证 读-改-写 不交错
	txMu sync.Mutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(v), nil
}

func (m *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[key]
	return ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = cloneBytes(value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Transaction 写入先暂存，fn 成功后一次性落入 map
func (m *MemoryStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	tx := &memoryTx{
		base:    m,
		writes:  make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range tx.deletes {
		delete(m.data, k)
	}
	for k, v := range tx.writes {
		m.data[k] = v
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// ==================== 事务视图 ====================

type memoryTx struct {
	base    *MemoryStore
	writes  map[string][]byte
	deletes map[string]struct{}
}

func (t *memoryTx) Get(ctx context.Context, key string) ([]byte, error) {
	if _, gone := t.deletes[key]; gone {
		return nil, ErrNotFound
	}
	if v, ok := t.writes[key]; ok {
		return cloneBytes(v), nil
	}
	return t.base.Get(ctx, key)
}

func (t *memoryTx) Exists(ctx context.Context, key string) (bool, error) {
	if _, gone := t.deletes[key]; gone {
		return false, nil
	}
	if _, ok := t.writes[key]; ok {
		return true, nil
	}
	return t.base.Exists(ctx, key)
}

func (t *memoryTx) Set(_ context.Context, key string, value []byte) error {
	delete(t.deletes, key)
	t.writes[key] = cloneBytes(value)
	return nil
}

func (t *memoryTx) Delete(_ context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = struct{}{}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

package kvstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 表结构 ====================

// Document 一行保存一个完整文档
type Document struct {
	Key       string         `gorm:"column:doc_key;primaryKey;size:128"`
	Value     datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Document) TableName() string {
	return "kv_documents"
}

// ==================== GormStore 数据库实现 ====================

// GormStore 基于 gorm 的文档存储（sqlite / postgres）
type GormStore struct {
	db *gorm.DB

	// 事务内读取加行锁（postgres SELECT ... FOR UPDATE）
	lockReads bool

	// 进程内串行化事务；行锁挡不住首次写入同一个不存在的键
	txMu sync.Mutex
}

// NewGormStore 创建数据库存储，自动建表
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	return gormGet(s.db.WithContext(ctx), key, s.lockReads)
}

func (s *GormStore) Exists(ctx context.Context, key string) (bool, error) {
	return gormExists(s.db.WithContext(ctx), key)
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	return gormSet(s.db.WithContext(ctx), key, value)
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Document{}, "doc_key = ?", key).Error
}

// Transaction 使用数据库事务
// 读-改-写整文档，事务内的读取对其他事务加锁，避免后提交的覆盖先提交的
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, lockReads: supportsRowLock(tx)})
	})
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ==================== 辅助函数 ====================

// supportsRowLock sqlite 没有行级锁，单连接本身已串行
func supportsRowLock(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

func gormGet(db *gorm.DB, key string, forUpdate bool) ([]byte, error) {
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var doc Document
	err := db.Where("doc_key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc.Value), nil
}

func gormExists(db *gorm.DB, key string) (bool, error) {
	var count int64
	err := db.Model(&Document{}).Where("doc_key = ?", key).Count(&count).Error
	return count > 0, err
}

// gormSet upsert：键存在则覆盖 value
func gormSet(db *gorm.DB, key string, value []byte) error {
	doc := &Document{Key: key, Value: datatypes.JSON(value)}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(doc).Error
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel 所有文档记录共用的身份字段
type BaseModel struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBaseModel 生成新 ID 与创建时间
func NewBaseModel() BaseModel {
	return BaseModel{
		ID:        uuid.NewString(),
		CreatedAt: Now(),
	}
}

// Now UTC 毫秒精度时间，与存量数据的 ISO 时间戳一致
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

package dto

import (
	"time"

	"channel_admin_v1/internal/model"
)

// ==================== 完整性检查 ====================

// OrphanLink 指向不存在客户或渠道的关联
type OrphanLink struct {
	model.CustomerChannel
	MissingCustomer bool `json:"missing_customer"`
	MissingChannel  bool `json:"missing_channel"`
}

// IntegrityReport 检查结果
type IntegrityReport struct {
	CheckedAt   time.Time    `json:"checked_at"`
	TotalLinks  int          `json:"total_links"`
	OrphanLinks []OrphanLink `json:"orphan_links"`
	Pruned      int          `json:"pruned"`
}

// ==================== 快照 ====================

// SnapshotVersion 快照格式版本
const SnapshotVersion = 1

// SnapshotBundle 四个文档的完整导出
type SnapshotBundle struct {
	Version          int                     `json:"version"`
	CreatedAt        time.Time               `json:"created_at"`
	Channels         []model.Channel         `json:"channels"`
	Customers        []model.Customer        `json:"customers"`
	CustomerChannels []model.CustomerChannel `json:"customer_channels"`
	User             *model.SysUser          `json:"user"`
}

// SnapshotInfo 导出/恢复摘要
type SnapshotInfo struct {
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Channels  int       `json:"channels"`
	Customers int       `json:"customers"`
	Links     int       `json:"links"`
}

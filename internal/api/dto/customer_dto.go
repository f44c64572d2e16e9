package dto

import "channel_admin_v1/internal/model"

// ==================== 客户 ====================

// CreateCustomerRequest 创建客户请求
type CreateCustomerRequest struct {
	Email      string   `json:"email"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	ChannelIDs []string `json:"channel_ids"`
}

// CustomerListRequest 客户列表请求
type CustomerListRequest struct {
	Keyword string `form:"keyword"`
}

// CustomerInfo 客户及其渠道
// ChannelIDs 为 nil 时序列化为 null，表示全局访问
type CustomerInfo struct {
	model.Customer
	ChannelIDs []string `json:"channel_ids"`
}

// AccessMode 访问模式
func (c *CustomerInfo) AccessMode() model.AccessMode {
	if len(c.ChannelIDs) == 0 {
		return model.AccessModeGlobal
	}
	return model.AccessModeChannel
}

// AccessResult 客户对渠道的访问判定
type AccessResult struct {
	CustomerID string           `json:"customer_id"`
	ChannelID  string           `json:"channel_id"`
	Mode       model.AccessMode `json:"mode"`
	Allowed    bool             `json:"allowed"`
}

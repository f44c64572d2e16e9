package dto

// ==================== 渠道 ====================

// CreateChannelRequest 创建渠道请求
type CreateChannelRequest struct {
	Name             string `json:"name"`
	AllowGlobalLogin bool   `json:"allow_global_login"`
}

// ChannelListRequest 渠道列表请求
type ChannelListRequest struct {
	Keyword string `form:"keyword"`
}

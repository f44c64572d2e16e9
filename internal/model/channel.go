package model

// Channel 渠道：命名的访问分组
type Channel struct {
	BaseModel
	Name string `json:"name"`

	// 允许全局客户（无渠道关联）登录
	AllowGlobalLogin bool `json:"allow_global_login"`
}

// NewChannel 创建渠道记录
func NewChannel(name string, allowGlobalLogin bool) Channel {
	return Channel{
		BaseModel:        NewBaseModel(),
		Name:             name,
		AllowGlobalLogin: allowGlobalLogin,
	}
}

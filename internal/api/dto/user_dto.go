package dto

// ==================== 登录 ====================

// LoginRequest 登录请求
// 两项都为空时拒绝；只缺一项时由控制器补演示默认值
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionStatus 登录状态
type SessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

// DemoCredentials 登录页展示的演示凭据
type DemoCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

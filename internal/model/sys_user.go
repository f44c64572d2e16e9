package model

import "strings"

// 演示账号
const (
	DefaultUserEmail    = "admin@example.com"
	DefaultUserPassword = "password123"
)

// SysUser 唯一的后台账号，同时保存登录状态
// 密码明文保存：登录页会把它作为演示凭据展示
type SysUser struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// NewDefaultUser 初始化用的默认账号
func NewDefaultUser() SysUser {
	return SysUser{
		Email:    DefaultUserEmail,
		Password: DefaultUserPassword,
	}
}

// Matches 凭据比对
func (u *SysUser) Matches(email, password string) bool {
	return u.Email == email && u.Password == password
}

// IsLegacy 旧版本遗留的 mirsat 账号，需要重置为默认凭据
func (u *SysUser) IsLegacy() bool {
	return strings.Contains(u.Email, "mirsat")
}

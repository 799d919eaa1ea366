// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig // User related config // 用户相关配置
	Tag  TagServiceConfig  // Tag related config // 标签相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool          // Whether registration is enabled // 注册是否启用
	ResetTokenExpiry time.Duration // Reset token lifetime, default 1h // 找回密码令牌有效期
}

// TagServiceConfig tag service configuration
// TagServiceConfig 标签服务配置
type TagServiceConfig struct {
	SystemTags []SystemTag // Tags shared by every user // 系统标签
}

// SystemTag is a read-only tag seeded at startup.
type SystemTag struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

func (c *ServiceConfig) resetTokenExpiry() time.Duration {
	if c == nil || c.User.ResetTokenExpiry <= 0 {
		return time.Hour
	}
	return c.User.ResetTokenExpiry
}

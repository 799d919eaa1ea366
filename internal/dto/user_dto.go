package dto

import "time"

// UserCreateRequest User registration request parameters
// 用户注册请求参数
type UserCreateRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`               // User email // 用户邮件
	Username        string `json:"username" form:"username" binding:"required,username"`      // User name // 用户名
	Password        string `json:"password" form:"password" binding:"required,min=6,max=72"`  // User password // 用户密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"` // Confirm password // 校验密码
}

// UserLoginRequest User login request parameters
// 用户登录请求参数
type UserLoginRequest struct {
	Credentials string `json:"credentials" form:"credentials" binding:"required"` // Username or Email // 登录凭证（用户名或邮件）
	Password    string `json:"password" form:"password" binding:"required"`       // Password // 密码
}

// UserChangePasswordRequest Request parameters for changing password
// 修改密码请求参数
type UserChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" binding:"required"`         // Old password // 旧密码
	Password        string `json:"password" form:"password" binding:"required,min=6,max=72"`  // New password // 新密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"` // Confirm password // 校验密码
}

// UserProfileRequest patches username and avatar, empty fields are kept
// 更新资料请求参数
type UserProfileRequest struct {
	Username string `json:"username" form:"username" binding:"omitempty,username"`
	Avatar   string `json:"avatar" form:"avatar" binding:"omitempty,max=255"`
}

// ResetPasswordIssueRequest asks for a reset token
// 申请找回密码
type ResetPasswordIssueRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// ResetPasswordValidateRequest 校验找回密码令牌
type ResetPasswordValidateRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	Token string `json:"token" form:"token" binding:"required"`
}

// ResetPasswordRequest 使用令牌重置密码
type ResetPasswordRequest struct {
	Email       string `json:"email" form:"email" binding:"required,email"`
	Token       string `json:"token" form:"token" binding:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" binding:"required,min=6,max=72"`
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64     `json:"uid"`             // User ID (primary key) // 用户唯一标识（主键）
	Email     string    `json:"email"`           // Email address // 邮件地址
	Username  string    `json:"username"`        // Username // 用户名
	Token     string    `json:"token,omitempty"` // Authentication Token // 认证 Token
	Avatar    string    `json:"avatar"`          // Avatar URL or handle // 头像路径或名称
	UpdatedAt time.Time `json:"updatedAt"`       // Last updated time // 最后更新时间
	CreatedAt time.Time `json:"createdAt"`       // Account created time // 账号创建时间
}

// ResetTokenValidDTO 找回密码令牌校验结果
type ResetTokenValidDTO struct {
	Valid bool `json:"valid"`
}

package model

import "time"

// User mapped from table <user>
type User struct {
	UID            int64     `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email          string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex:idx_user_email" json:"email" form:"email"`
	Username       string    `gorm:"column:username;type:varchar(32);not null;uniqueIndex:idx_user_username" json:"username" form:"username"`
	Password       string    `gorm:"column:password;type:varchar(255);not null" json:"-" form:"-"`
	Avatar         string    `gorm:"column:avatar;type:varchar(255);not null;default:''" json:"avatar" form:"avatar"`
	ResetToken     string    `gorm:"column:reset_token;type:varchar(64);not null;default:''" json:"-" form:"-"`
	ResetExpiresAt int64     `gorm:"column:reset_expires_at;not null;default:0;index:idx_user_reset_expires" json:"-" form:"-"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

package domain

import "time"

// User 用户领域模型
type User struct {
	UID            int64
	Email          string
	Username       string
	Password       string
	Avatar         string
	ResetToken     string
	ResetExpiresAt int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ResetTokenValid reports whether token matches the stored reset token and
// has not expired at now (unix seconds).
func (u *User) ResetTokenValid(token string, now int64) bool {
	return u.ResetToken != "" && u.ResetToken == token && u.ResetExpiresAt > now
}

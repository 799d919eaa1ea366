package dao

import (
	"context"
	"strconv"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/model"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		UID:            m.UID,
		Email:          m.Email,
		Username:       m.Username,
		Password:       m.Password,
		Avatar:         m.Avatar,
		ResetToken:     m.ResetToken,
		ResetExpiresAt: m.ResetExpiresAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := &model.User{
		Email:    user.Email,
		Username: user.Username,
		Password: user.Password,
		Avatar:   user.Avatar,
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, domain.Storage("UserRepository.Create", err)
	}
	return r.toDomain(m), nil
}

func (r *userRepository) first(ctx context.Context, op, what string, query string, arg any) (*domain.User, error) {
	var m model.User
	if err := r.dao.DB(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, wrapErr(op, what, err)
	}
	return r.toDomain(&m), nil
}

// GetByUID 根据用户ID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	return r.first(ctx, "UserRepository.GetByUID", "user "+strconv.FormatInt(uid, 10), "uid = ?", uid)
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "UserRepository.GetByEmail", "user "+email, "email = ?", email)
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "UserRepository.GetByUsername", "user "+username, "username = ?", username)
}

// UpdatePassword 更新密码，同时作废找回密码令牌
func (r *userRepository) UpdatePassword(ctx context.Context, password string, uid int64) error {
	return r.updates(ctx, "UserRepository.UpdatePassword", uid, map[string]any{
		"password":         password,
		"reset_token":      "",
		"reset_expires_at": 0,
	})
}

// UpdateProfile 更新用户名和头像
func (r *userRepository) UpdateProfile(ctx context.Context, uid int64, username, avatar string) error {
	return r.updates(ctx, "UserRepository.UpdateProfile", uid, map[string]any{
		"username": username,
		"avatar":   avatar,
	})
}

// SetResetToken 写入找回密码令牌
func (r *userRepository) SetResetToken(ctx context.Context, uid int64, token string, expiresAt int64) error {
	return r.updates(ctx, "UserRepository.SetResetToken", uid, map[string]any{
		"reset_token":      token,
		"reset_expires_at": expiresAt,
	})
}

func (r *userRepository) updates(ctx context.Context, op string, uid int64, values map[string]any) error {
	res := r.dao.DB(ctx).Model(&model.User{}).Where("uid = ?", uid).Updates(values)
	if res.Error != nil {
		return domain.Storage(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(op, "user "+strconv.FormatInt(uid, 10))
	}
	return nil
}

// ClearExpiredResetTokens 清理过期的找回密码令牌
func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now int64) (int64, error) {
	res := r.dao.DB(ctx).Model(&model.User{}).
		Where("reset_token <> '' AND reset_expires_at <= ?", now).
		Updates(map[string]any{"reset_token": "", "reset_expires_at": 0})
	if res.Error != nil {
		return 0, domain.Storage("UserRepository.ClearExpiredResetTokens", res.Error)
	}
	return res.RowsAffected, nil
}

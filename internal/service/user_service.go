package service

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"
	"github.com/haierkeys/fast-note-board/pkg/util"

	"go.uber.org/zap"
)

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserCreateRequest, clientIP string) (*dto.UserDTO, error)

	// Login 用户登录
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// Logout 注销当前 Token
	Logout(ctx context.Context, user *app.UserEntity) error

	// IsRevoked 判断 Token 是否已注销
	IsRevoked(ctx context.Context, user *app.UserEntity) (bool, error)

	// ChangePassword 修改密码
	ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error

	// GetInfo 获取用户信息
	GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error)

	// UpdateProfile 更新用户名和头像
	UpdateProfile(ctx context.Context, uid int64, params *dto.UserProfileRequest) (*dto.UserDTO, error)

	// IssueResetToken 生成找回密码令牌
	IssueResetToken(ctx context.Context, params *dto.ResetPasswordIssueRequest) error

	// ValidateResetToken 校验找回密码令牌
	ValidateResetToken(ctx context.Context, params *dto.ResetPasswordValidateRequest) bool

	// ResetPassword 使用令牌重置密码
	ResetPassword(ctx context.Context, params *dto.ResetPasswordRequest) error

	// ClearExpiredResetTokens 清理过期的找回密码令牌
	ClearExpiredResetTokens(ctx context.Context) (int64, error)

	// VerifyUser 校验用户存在，用于 WebSocket 连接
	VerifyUser(ctx context.Context, uid int64) error
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	sessions     domain.SessionStore
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
	now          Clock
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, sessions domain.SessionStore, tokenManager app.TokenManager, lg *zap.Logger, config *ServiceConfig, now Clock) UserService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		sessions:     sessions,
		tokenManager: tokenManager,
		logger:       lg,
		config:       config,
		now:          clockOrNow(now),
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *userService) domainToDTO(user *domain.User) *dto.UserDTO {
	if user == nil {
		return nil
	}
	return &dto.UserDTO{
		UID:       user.UID,
		Email:     user.Email,
		Username:  user.Username,
		Avatar:    user.Avatar,
		UpdatedAt: user.UpdatedAt,
		CreatedAt: user.CreatedAt,
	}
}

// lookup 查询用户，不存在返回 nil, nil
func lookup(user *domain.User, err error) (*domain.User, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return user, nil
}

// Register 用户注册
func (s *userService) Register(ctx context.Context, params *dto.UserCreateRequest, clientIP string) (*dto.UserDTO, error) {
	// 检查注册是否启用
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}

	// 验证密码一致性
	if params.Password != params.ConfirmPassword {
		return nil, code.ErrorUserPasswordNotMatch
	}

	// 检查邮箱是否已存在
	emailUser, err := lookup(s.userRepo.GetByEmail(ctx, params.Email))
	if err != nil {
		return nil, err
	}
	if emailUser != nil {
		return nil, code.ErrorUserEmailAlreadyExists
	}

	// 检查用户名是否已存在
	nameUser, err := lookup(s.userRepo.GetByUsername(ctx, params.Username))
	if err != nil {
		return nil, err
	}
	if nameUser != nil {
		return nil, code.ErrorUserAlreadyExists
	}

	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorPasswordNotValid
	}

	user, err := s.userRepo.Create(ctx, &domain.User{
		Username: params.Username,
		Email:    params.Email,
		Password: password,
	})
	if err != nil {
		return nil, code.ErrorUserRegister.WithDetails(err.Error())
	}

	return s.withToken(user, clientIP)
}

func (s *userService) withToken(user *domain.User, clientIP string) (*dto.UserDTO, error) {
	token, _, err := s.tokenManager.Generate(user.UID, user.Username, clientIP)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}
	out := s.domainToDTO(user)
	out.Token = token
	return out, nil
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	var user *domain.User
	var err error

	// 根据凭证类型查找用户
	if util.IsValidEmail(params.Credentials) {
		user, err = s.userRepo.GetByEmail(ctx, params.Credentials)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, params.Credentials)
	}
	if err != nil {
		// 不暴露用户是否存在，统一返回用户名或密码错误
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("UserService.Login lookup failed", zap.Error(err))
		}
		return nil, code.ErrorUserLoginPasswordFailed
	}

	if !util.CheckPasswordHash(user.Password, params.Password) {
		return nil, code.ErrorUserLoginPasswordFailed
	}

	return s.withToken(user, clientIP)
}

// Logout 注销 Token 直到其自然过期
func (s *userService) Logout(ctx context.Context, user *app.UserEntity) error {
	if user == nil || s.sessions == nil {
		return nil
	}
	ttl := int64(s.tokenManager.Expiry() / time.Second)
	if user.ExpiresAt != nil {
		ttl = user.ExpiresAt.Unix() - s.now().Unix()
	}
	if ttl <= 0 {
		return nil
	}
	if err := s.sessions.Revoke(ctx, user.SessionID(), ttl); err != nil {
		return err
	}
	s.logger.Info("user logged out",
		zap.Int64(logger.FieldUID, user.UID),
		zap.String(logger.FieldSessionID, user.SessionID()))
	return nil
}

// IsRevoked 判断 Token 是否已注销
func (s *userService) IsRevoked(ctx context.Context, user *app.UserEntity) (bool, error) {
	if user == nil || s.sessions == nil {
		return false, nil
	}
	return s.sessions.IsRevoked(ctx, user.SessionID())
}

// ChangePassword 修改密码
func (s *userService) ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error {
	if params.Password != params.ConfirmPassword {
		return code.ErrorUserPasswordNotMatch
	}

	user, err := lookup(s.userRepo.GetByUID(ctx, uid))
	if err != nil {
		return err
	}
	if user == nil {
		return code.ErrorUserNotFound
	}

	if !util.CheckPasswordHash(user.Password, params.OldPassword) {
		return code.ErrorUserOldPasswordFailed
	}

	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return code.ErrorPasswordNotValid
	}
	return s.userRepo.UpdatePassword(ctx, password, uid)
}

// GetInfo 获取用户信息
func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := lookup(s.userRepo.GetByUID(ctx, uid))
	if err != nil {
		s.logger.Error("UserService.GetInfo failed", zap.Int64(logger.FieldUID, uid), zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, code.ErrorUserNotFound
	}
	return s.domainToDTO(user), nil
}

// UpdateProfile 更新用户资料
func (s *userService) UpdateProfile(ctx context.Context, uid int64, params *dto.UserProfileRequest) (*dto.UserDTO, error) {
	user, err := lookup(s.userRepo.GetByUID(ctx, uid))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, code.ErrorUserNotFound
	}

	username, avatar := user.Username, user.Avatar
	if params.Username != "" && params.Username != user.Username {
		other, err := lookup(s.userRepo.GetByUsername(ctx, params.Username))
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, code.ErrorUserAlreadyExists
		}
		username = params.Username
	}
	if params.Avatar != "" {
		avatar = params.Avatar
	}

	if err := s.userRepo.UpdateProfile(ctx, uid, username, avatar); err != nil {
		return nil, err
	}
	return s.GetInfo(ctx, uid)
}

// IssueResetToken 生成找回密码令牌，投递不在服务范围内，令牌仅记录在 debug 日志
func (s *userService) IssueResetToken(ctx context.Context, params *dto.ResetPasswordIssueRequest) error {
	user, err := lookup(s.userRepo.GetByEmail(ctx, params.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return code.ErrorEmailNotRegistered
	}

	token, err := util.GetRandomToken(32)
	if err != nil {
		return code.ErrorTokenGenerate.WithDetails(err.Error())
	}
	expiresAt := s.now().Add(s.config.resetTokenExpiry()).Unix()
	if err := s.userRepo.SetResetToken(ctx, user.UID, token, expiresAt); err != nil {
		return err
	}

	s.logger.Debug("reset token issued",
		zap.Int64(logger.FieldUID, user.UID),
		zap.String("token", token),
		zap.Int64("expiresAt", expiresAt))
	return nil
}

func (s *userService) resetUser(ctx context.Context, email, token string) (*domain.User, bool) {
	user, err := lookup(s.userRepo.GetByEmail(ctx, email))
	if err != nil || user == nil {
		return nil, false
	}
	return user, user.ResetTokenValid(token, s.now().Unix())
}

// ValidateResetToken 校验找回密码令牌
func (s *userService) ValidateResetToken(ctx context.Context, params *dto.ResetPasswordValidateRequest) bool {
	_, ok := s.resetUser(ctx, params.Email, params.Token)
	return ok
}

// ResetPassword 使用令牌重置密码，成功后令牌失效
func (s *userService) ResetPassword(ctx context.Context, params *dto.ResetPasswordRequest) error {
	user, ok := s.resetUser(ctx, params.Email, params.Token)
	if !ok {
		return code.ErrorResetTokenInvalid
	}
	password, err := util.GeneratePasswordHash(params.NewPassword)
	if err != nil {
		return code.ErrorPasswordNotValid
	}
	return s.userRepo.UpdatePassword(ctx, password, user.UID)
}

// ClearExpiredResetTokens 清理过期令牌
func (s *userService) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	return s.userRepo.ClearExpiredResetTokens(ctx, s.now().Unix())
}

// VerifyUser 校验用户存在
func (s *userService) VerifyUser(ctx context.Context, uid int64) error {
	user, err := lookup(s.userRepo.GetByUID(ctx, uid))
	if err != nil {
		return err
	}
	if user == nil {
		return code.ErrorUserNotFound
	}
	return nil
}

// 确保 userService 实现了 UserService 接口
var _ UserService = (*userService)(nil)

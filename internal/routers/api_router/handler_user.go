package api_router

import (
	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	apperrors "github.com/haierkeys/fast-note-board/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserHandler user API router handler
// UserHandler 用户 API 路由处理器
type UserHandler struct {
	*Handler
}

// NewUserHandler creates UserHandler instance
// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{Handler: NewHandler(a)}
}

// Register user registration
// @Summary User registration
// @Description 处理用户注册 HTTP 请求，注册功能可能在服务器设置中被禁用。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserCreateRequest true "Register Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Router /api/v1/auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	params := &dto.UserCreateRequest{}
	if !h.bind(c, "UserHandler.Register", params) {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Register(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// Login user login
// @Summary User login
// @Description 使用用户名或邮箱登录并返回认证 Token。
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.UserLoginRequest true "Login Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Router /api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	params := &dto.UserLoginRequest{}
	if !h.bind(c, "UserHandler.Login", params) {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.Login(ctx, params, pkgapp.GetRequestIP(c))
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// Logout revokes the token of the current request
// @Summary User logout
// @Tags User
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/v1/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	user := pkgapp.GetUserEntity(c)
	if user == nil {
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	ctx := c.Request.Context()
	if err := h.App.UserService.Logout(ctx, user); err != nil {
		h.logError(ctx, "UserHandler.Logout", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessLogout)
}

// Me returns the current user
// @Summary Get current user info
// @Tags User
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Router /api/v1/auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	uid, ok := h.uid(c, "UserHandler.Me")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.GetInfo(ctx, uid)
	if err != nil {
		h.logError(ctx, "UserHandler.Me", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(userDTO))
}

// UpdateProfile patches username and avatar
// @Summary Update profile
// @Tags User
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.UserProfileRequest true "Profile Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.UserDTO} "Success"
// @Router /api/v1/auth/profile [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	params := &dto.UserProfileRequest{}
	if !h.bind(c, "UserHandler.UpdateProfile", params) {
		return
	}
	uid, ok := h.uid(c, "UserHandler.UpdateProfile")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userDTO, err := h.App.UserService.UpdateProfile(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "UserHandler.UpdateProfile", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(userDTO))
}

// ChangePassword changes user password
// @Summary Change user password
// @Tags User
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.UserChangePasswordRequest true "Change Password Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/v1/auth/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	params := &dto.UserChangePasswordRequest{}
	if !h.bind(c, "UserHandler.ChangePassword", params) {
		return
	}
	uid, ok := h.uid(c, "UserHandler.ChangePassword")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.UserService.ChangePassword(ctx, uid, params); err != nil {
		h.logError(ctx, "UserHandler.ChangePassword", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessPasswordUpdate)
}

// IssueResetToken issues a one-time reset token for an email
// @Summary Request password reset
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.ResetPasswordIssueRequest true "Email"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/v1/auth/reset-password [post]
func (h *UserHandler) IssueResetToken(c *gin.Context) {
	params := &dto.ResetPasswordIssueRequest{}
	if !h.bind(c, "UserHandler.IssueResetToken", params) {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.UserService.IssueResetToken(ctx, params); err != nil {
		h.logError(ctx, "UserHandler.IssueResetToken", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessResetIssued)
}

// ValidateResetToken reports whether an email/token pair is usable
// @Summary Validate password reset token
// @Tags User
// @Produce json
// @Param email query string true "Email"
// @Param token query string true "Reset token"
// @Success 200 {object} pkgapp.Res{data=dto.ResetTokenValidDTO} "Success"
// @Router /api/v1/auth/reset-password/validate [get]
func (h *UserHandler) ValidateResetToken(c *gin.Context) {
	params := &dto.ResetPasswordValidateRequest{}
	if !h.bind(c, "UserHandler.ValidateResetToken", params) {
		return
	}

	valid := h.App.UserService.ValidateResetToken(c.Request.Context(), params)
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(&dto.ResetTokenValidDTO{Valid: valid}))
}

// ResetPassword sets a new password with a reset token
// @Summary Reset password
// @Tags User
// @Accept json
// @Produce json
// @Param params body dto.ResetPasswordRequest true "Reset Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Router /api/v1/auth/reset-password [patch]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	params := &dto.ResetPasswordRequest{}
	if !h.bind(c, "UserHandler.ResetPassword", params) {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.UserService.ResetPassword(ctx, params); err != nil {
		h.logError(ctx, "UserHandler.ResetPassword", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessPasswordUpdate)
}

package api_router

import (
	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	apperrors "github.com/haierkeys/fast-note-board/pkg/errors"

	"github.com/gin-gonic/gin"
)

// TagHandler 标签 API 路由处理器
type TagHandler struct {
	*Handler
}

// NewTagHandler 创建 TagHandler 实例
func NewTagHandler(a *app.App) *TagHandler {
	return &TagHandler{Handler: NewHandler(a)}
}

// List 获取系统标签和当前用户的标签
// @Summary 获取标签列表
// @Tags 标签
// @Security UserAuthToken
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.TagDTO} "成功"
// @Router /api/v1/tags [get]
func (h *TagHandler) List(c *gin.Context) {
	uid, ok := h.uid(c, "TagHandler.List")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tags, err := h.App.TagService.List(ctx, uid)
	if err != nil {
		h.logError(ctx, "TagHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(tags))
}

// Create 创建标签
// @Summary 创建标签
// @Tags 标签
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.TagCreateRequest true "创建参数"
// @Success 200 {object} pkgapp.Res{data=dto.TagDTO} "成功"
// @Router /api/v1/tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	params := &dto.TagCreateRequest{}
	if !h.bind(c, "TagHandler.Create", params) {
		return
	}
	uid, ok := h.uid(c, "TagHandler.Create")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tag, err := h.App.TagService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "TagHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(tag))
}

// Update 修改标签名称或颜色，系统标签只读
// @Summary 更新标签
// @Tags 标签
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param tagId path string true "标签 ID"
// @Param params body dto.TagUpdateRequest true "更新参数"
// @Success 200 {object} pkgapp.Res{data=dto.TagDTO} "成功"
// @Router /api/v1/tags/{tagId} [patch]
func (h *TagHandler) Update(c *gin.Context) {
	params := &dto.TagUpdateRequest{}
	if !h.bind(c, "TagHandler.Update", params) {
		return
	}
	uid, ok := h.uid(c, "TagHandler.Update")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	tag, err := h.App.TagService.Update(ctx, uid, c.Param("tagId"), params)
	if err != nil {
		h.logError(ctx, "TagHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(tag))
}

// Delete 删除标签及其下全部笔记
// @Summary 删除标签
// @Tags 标签
// @Security UserAuthToken
// @Produce json
// @Param tagId path string true "标签 ID"
// @Success 200 {object} pkgapp.Res{data=dto.TagDeleteDTO} "成功"
// @Router /api/v1/tags/{tagId} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	uid, ok := h.uid(c, "TagHandler.Delete")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := h.App.TagService.Delete(ctx, uid, c.Param("tagId"))
	if err != nil {
		h.logError(ctx, "TagHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete.WithData(result))
}

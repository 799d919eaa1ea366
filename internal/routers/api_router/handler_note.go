package api_router

import (
	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	apperrors "github.com/haierkeys/fast-note-board/pkg/errors"

	"github.com/gin-gonic/gin"
)

// NoteHandler 笔记 API 路由处理器
// 位置只能通过实时通道修改，这里的写接口不接受坐标和排序
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// Create 创建笔记，放在当前列表末尾
// @Summary 创建笔记
// @Tags 笔记
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "创建参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/v1/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	params := &dto.NoteCreateRequest{}
	if !h.bind(c, "NoteHandler.Create", params) {
		return
	}
	uid, ok := h.uid(c, "NoteHandler.Create")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(note))
}

// List 按 order 升序分页获取笔记
// @Summary 获取笔记列表
// @Tags 笔记
// @Security UserAuthToken
// @Produce json
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes} "成功"
// @Router /api/v1/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.List")
	if !ok {
		return
	}

	pager := &pkgapp.Pager{Page: pkgapp.GetPage(c), PageSize: pkgapp.GetPageSize(c)}

	ctx := c.Request.Context()
	list, count, err := h.App.NoteService.List(ctx, uid, pager)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponseList(code.Success, list, count)
}

// Get 获取单条笔记
// @Summary 获取笔记详情
// @Tags 笔记
// @Security UserAuthToken
// @Produce json
// @Param noteId path string true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/v1/notes/{noteId} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.Get")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, uid, c.Param("noteId"))
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(note))
}

// Update 更新标题、内容和标签
// @Summary 更新笔记
// @Tags 笔记
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param noteId path string true "笔记 ID"
// @Param params body dto.NoteUpdateRequest true "更新参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/v1/notes/{noteId} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	params := &dto.NoteUpdateRequest{}
	if !h.bind(c, "NoteHandler.Update", params) {
		return
	}
	uid, ok := h.uid(c, "NoteHandler.Update")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Update(ctx, uid, c.Param("noteId"), params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessUpdate.WithData(note))
}

// Delete 删除笔记，后续笔记的 order 前移
// @Summary 删除笔记
// @Tags 笔记
// @Security UserAuthToken
// @Produce json
// @Param noteId path string true "笔记 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/v1/notes/{noteId} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	uid, ok := h.uid(c, "NoteHandler.Delete")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.App.NoteService.Delete(ctx, uid, c.Param("noteId")); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

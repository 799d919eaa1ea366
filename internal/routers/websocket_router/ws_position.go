package websocket_router

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/internal/service"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// Broadcaster fans a message out to the peers of owner.
type Broadcaster interface {
	Broadcast(owner int64, msg any) int
}

// PositionHandler handles UPDATE_NOTE_POSITION commands. Every command is
// applied synchronously on the worker pool and broadcast from inside the
// owner's write lane, so the sender sees its own change come back like every
// other tab and all tabs see changes in apply order.
// PositionHandler 处理笔记位置变更命令
type PositionHandler struct {
	*WSHandler
	positions service.PositionService
	hub       Broadcaster
	pool      Submitter
}

// NewPositionHandler 创建 PositionHandler 实例
func NewPositionHandler(a *app.App) *PositionHandler {
	return newPositionHandler(a.PositionService, a.Hub, a.WorkerPool(), a.Logger())
}

func newPositionHandler(positions service.PositionService, hub Broadcaster, pool Submitter, lg *zap.Logger) *PositionHandler {
	return &PositionHandler{
		WSHandler: newWSHandler(lg),
		positions: positions,
		hub:       hub,
		pool:      pool,
	}
}

// UpdatePosition decodes the payload once and routes it by shape. Errors are
// returned to the dispatcher which logs and drops them; nothing is broadcast.
// UpdatePosition 解码位置命令并调用位置服务，成功后广播
func (h *PositionHandler) UpdatePosition(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) error {
	cmd, err := dto.DecodePositionCommand(msg.Payload)
	if err != nil {
		h.logDebug(c, "PositionHandler.UpdatePosition decode",
			zap.Int64(logger.FieldUID, c.UID),
			zap.Error(err))
		return err
	}

	err = h.pool.Submit(c.Context(), func(ctx context.Context) error {
		return h.apply(ctx, c.UID, cmd)
	})
	if err != nil {
		h.logError(c, "PositionHandler.UpdatePosition", err)
	}
	return err
}

func (h *PositionHandler) apply(ctx context.Context, uid int64, cmd *dto.PositionCommand) error {
	switch cmd.Kind {
	case dto.ReorderMove:
		_, err := h.positions.SetOrder(ctx, uid, cmd.NoteID, cmd.Order, func(result domain.ReorderResult) {
			peers := h.hub.Broadcast(uid, dto.NewReorderMessage(result))
			h.logger.Debug("note reordered",
				zap.Int64(logger.FieldUID, uid),
				zap.String(logger.FieldNoteID, result.NoteID),
				zap.Int(logger.FieldOrder, result.Order),
				zap.Int(logger.FieldOldOrder, result.OldOrder),
				zap.Int(logger.FieldPeers, peers))
		})
		return err
	case dto.CoordinateMove:
		_, err := h.positions.SetCoordinates(ctx, uid, cmd.NoteID, cmd.X, cmd.Y, func(result domain.MoveResult) {
			h.hub.Broadcast(uid, dto.NewMoveMessage(result))
		})
		return err
	}
	return nil
}

package service

import (
	"context"
	"math"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// PositionService reads and mutates the board position of notes.
// Every mutation is scoped to the owner of the note and serialized per owner.
// PositionService 笔记位置服务
type PositionService interface {
	// Get 获取笔记位置
	Get(ctx context.Context, uid int64, noteID string) (domain.Position, error)

	// SetCoordinates 设置笔记坐标并刷新 lastMovedAt
	SetCoordinates(ctx context.Context, uid int64, noteID string, x, y float64, then OnMoved) (*domain.MoveResult, error)

	// SetOrder 移动笔记到新的 order 并平移兄弟笔记
	SetOrder(ctx context.Context, uid int64, noteID string, order int, then OnReordered) (*domain.ReorderResult, error)
}

// OnMoved and OnReordered run inside the owner's write lane once the change
// is stored, so callbacks for one owner see changes in the order they were applied.
// 回调在所有者写队列内执行，保证与写入顺序一致
type (
	OnMoved     func(domain.MoveResult)
	OnReordered func(domain.ReorderResult)
)

type positionService struct {
	noteRepo domain.NoteRepository
	queue    WriteSerializer
	logger   *zap.Logger
	now      Clock
}

// NewPositionService 创建 PositionService 实例
func NewPositionService(noteRepo domain.NoteRepository, queue WriteSerializer, lg *zap.Logger, now Clock) PositionService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &positionService{
		noteRepo: noteRepo,
		queue:    serializerOrInline(queue),
		logger:   lg,
		now:      clockOrNow(now),
	}
}

// ownedNote loads noteID and checks it belongs to uid.
func (s *positionService) ownedNote(ctx context.Context, op string, uid int64, noteID string) (*domain.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !note.OwnedBy(uid) {
		return nil, domain.Forbidden(op, "note "+noteID)
	}
	return note, nil
}

func (s *positionService) Get(ctx context.Context, uid int64, noteID string) (domain.Position, error) {
	note, err := s.ownedNote(ctx, "PositionService.Get", uid, noteID)
	if err != nil {
		return domain.Position{}, err
	}
	return note.Position, nil
}

func (s *positionService) SetCoordinates(ctx context.Context, uid int64, noteID string, x, y float64, then OnMoved) (*domain.MoveResult, error) {
	const op = "PositionService.SetCoordinates"
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return nil, domain.Validation(op, "coordinates must be finite")
	}

	var result *domain.MoveResult
	err := s.queue.Execute(ctx, uid, func(ctx context.Context) error {
		if _, err := s.ownedNote(ctx, op, uid, noteID); err != nil {
			return err
		}
		movedAt := s.now().Unix()
		if err := s.noteRepo.UpdateCoordinates(ctx, uid, noteID, x, y, movedAt); err != nil {
			return err
		}
		result = &domain.MoveResult{NoteID: noteID, X: x, Y: y, LastMovedAt: movedAt}
		if then != nil {
			then(*result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *positionService) SetOrder(ctx context.Context, uid int64, noteID string, order int, then OnReordered) (*domain.ReorderResult, error) {
	const op = "PositionService.SetOrder"

	var result *domain.ReorderResult
	err := s.queue.Execute(ctx, uid, func(ctx context.Context) error {
		note, err := s.ownedNote(ctx, op, uid, noteID)
		if err != nil {
			return err
		}
		count, err := s.noteRepo.CountByOwner(ctx, uid)
		if err != nil {
			return err
		}

		old := note.Position.Order
		plan, err := domain.PlanReorder(old, order, count)
		if err != nil {
			return err
		}
		if !plan.Noop() {
			if err := s.noteRepo.ApplyReorder(ctx, uid, noteID, plan); err != nil {
				return err
			}
		}

		s.logger.Debug("note reordered",
			zap.Int64(logger.FieldUID, uid),
			zap.String(logger.FieldNoteID, noteID),
			zap.Int(logger.FieldOrder, order),
			zap.Int(logger.FieldOldOrder, old))

		result = &domain.ReorderResult{NoteID: noteID, Order: order, OldOrder: old}
		if then != nil {
			then(*result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// Create 创建笔记，order 为当前笔记数量
	Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error)

	// Get 获取单条笔记
	Get(ctx context.Context, uid int64, noteID string) (*dto.NoteDTO, error)

	// List 按 order 升序获取笔记列表
	List(ctx context.Context, uid int64, pager *app.Pager) ([]*dto.NoteDTO, int, error)

	// Update 更新标题、内容和标签，不修改位置
	Update(ctx context.Context, uid int64, noteID string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error)

	// Delete 删除笔记并回填 order
	Delete(ctx context.Context, uid int64, noteID string) error
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo domain.NoteRepository
	tagRepo  domain.TagRepository
	queue    WriteSerializer
	logger   *zap.Logger
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(noteRepo domain.NoteRepository, tagRepo domain.TagRepository, queue WriteSerializer, lg *zap.Logger) NoteService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteService{
		noteRepo: noteRepo,
		tagRepo:  tagRepo,
		queue:    serializerOrInline(queue),
		logger:   lg,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *noteService) domainToDTO(n *domain.Note) *dto.NoteDTO {
	if n == nil {
		return nil
	}
	return &dto.NoteDTO{
		ID:          n.ID,
		TagID:       n.TagID,
		Title:       n.Title,
		Content:     n.Content,
		X:           n.Position.X,
		Y:           n.Position.Y,
		Order:       n.Position.Order,
		LastMovedAt: n.Position.LastMovedAt,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// checkTag 校验标签为系统标签或用户自己的标签
func (s *noteService) checkTag(ctx context.Context, uid int64, tagID string) error {
	tag, err := s.tagRepo.FindByID(ctx, tagID)
	if err != nil {
		return mapNotFound(err, code.ErrorTagNotFound)
	}
	if !tag.VisibleTo(uid) {
		return code.ErrorTagNotFound
	}
	return nil
}

// ownedNote 获取笔记并校验所有者
func (s *noteService) ownedNote(ctx context.Context, uid int64, noteID string) (*domain.Note, error) {
	note, err := s.noteRepo.FindByID(ctx, noteID)
	if err != nil {
		return nil, mapNotFound(err, code.ErrorNoteNotFound)
	}
	if !note.OwnedBy(uid) {
		return nil, code.ErrorNoteForbidden
	}
	return note, nil
}

// Create 创建笔记
// 标签校验与写入在同一写队列任务内完成，不会与标签级联删除交错
func (s *noteService) Create(ctx context.Context, uid int64, params *dto.NoteCreateRequest) (*dto.NoteDTO, error) {
	var created *domain.Note
	err := s.queue.Execute(ctx, uid, func(ctx context.Context) error {
		if err := s.checkTag(ctx, uid, params.TagID); err != nil {
			return err
		}
		count, err := s.noteRepo.CountByOwner(ctx, uid)
		if err != nil {
			return err
		}
		created, err = s.noteRepo.Create(ctx, &domain.Note{
			UID:      uid,
			TagID:    params.TagID,
			Title:    params.Title,
			Content:  params.Content,
			Position: domain.Position{Order: count},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("note created",
		zap.Int64(logger.FieldUID, uid),
		zap.String(logger.FieldNoteID, created.ID),
		zap.Int(logger.FieldOrder, created.Position.Order))
	return s.domainToDTO(created), nil
}

// Get 获取单条笔记
func (s *noteService) Get(ctx context.Context, uid int64, noteID string) (*dto.NoteDTO, error) {
	note, err := s.ownedNote(ctx, uid, noteID)
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(note), nil
}

// List 获取笔记列表
func (s *noteService) List(ctx context.Context, uid int64, pager *app.Pager) ([]*dto.NoteDTO, int, error) {
	notes, err := s.noteRepo.List(ctx, uid, pager.Page, pager.PageSize)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.noteRepo.ListCount(ctx, uid)
	if err != nil {
		return nil, 0, err
	}

	list := make([]*dto.NoteDTO, 0, len(notes))
	for _, n := range notes {
		list = append(list, s.domainToDTO(n))
	}
	return list, int(count), nil
}

// Update 更新笔记，空字段保持不变
func (s *noteService) Update(ctx context.Context, uid int64, noteID string, params *dto.NoteUpdateRequest) (*dto.NoteDTO, error) {
	if params.Empty() {
		return nil, code.ErrorInvalidParams.WithDetails("at least one of title, content or tagId is required")
	}

	var updated *domain.Note
	err := s.queue.Execute(ctx, uid, func(ctx context.Context) error {
		note, err := s.ownedNote(ctx, uid, noteID)
		if err != nil {
			return err
		}
		if params.TagID != "" && params.TagID != note.TagID {
			if err := s.checkTag(ctx, uid, params.TagID); err != nil {
				return err
			}
			note.TagID = params.TagID
		}
		if params.Title != "" {
			note.Title = params.Title
		}
		if params.Content != "" {
			note.Content = params.Content
		}

		updated, err = s.noteRepo.Update(ctx, note)
		return mapNotFound(err, code.ErrorNoteNotFound)
	})
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(updated), nil
}

// Delete 删除笔记
func (s *noteService) Delete(ctx context.Context, uid int64, noteID string) error {
	return s.queue.Execute(ctx, uid, func(ctx context.Context) error {
		if _, err := s.ownedNote(ctx, uid, noteID); err != nil {
			return err
		}
		err := s.noteRepo.Delete(ctx, uid, noteID)
		if errors.Is(err, domain.ErrNotFound) {
			return code.ErrorNoteNotFound
		}
		return err
	})
}

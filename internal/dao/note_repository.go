package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/model"
	"github.com/haierkeys/fast-note-board/pkg/app"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:      m.ID,
		UID:     m.UID,
		TagID:   m.TagID,
		Title:   m.Title,
		Content: m.Content,
		Position: domain.Position{
			X:           m.PosX,
			Y:           m.PosY,
			Order:       m.SortOrder,
			LastMovedAt: m.LastMovedAt,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(n *domain.Note) *model.Note {
	if n == nil {
		return nil
	}
	return &model.Note{
		ID:          n.ID,
		UID:         n.UID,
		TagID:       n.TagID,
		Title:       n.Title,
		Content:     n.Content,
		PosX:        n.Position.X,
		PosY:        n.Position.Y,
		SortOrder:   n.Position.Order,
		LastMovedAt: n.Position.LastMovedAt,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, domain.Storage("NoteRepository.Create", err)
	}
	return r.toDomain(m), nil
}

// FindByID 根据ID获取笔记
func (r *noteRepository) FindByID(ctx context.Context, noteID string) (*domain.Note, error) {
	var m model.Note
	if err := r.dao.DB(ctx).Where("id = ?", noteID).First(&m).Error; err != nil {
		return nil, wrapErr("NoteRepository.FindByID", "note "+noteID, err)
	}
	return r.toDomain(&m), nil
}

// CountByOwner 统计用户笔记数量
func (r *noteRepository) CountByOwner(ctx context.Context, uid int64) (int, error) {
	n, err := r.ListCount(ctx, uid)
	return int(n), err
}

// List 按 order 升序分页获取笔记
func (r *noteRepository) List(ctx context.Context, uid int64, page, pageSize int) ([]*domain.Note, error) {
	var ms []*model.Note
	q := r.dao.DB(ctx).Where("uid = ?", uid).Order("sort_order ASC")
	if pageSize > 0 {
		q = q.Offset(app.GetPageOffset(page, pageSize)).Limit(pageSize)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, domain.Storage("NoteRepository.List", err)
	}
	list := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// ListCount 获取笔记数量
func (r *noteRepository) ListCount(ctx context.Context, uid int64) (int64, error) {
	var count int64
	if err := r.dao.DB(ctx).Model(&model.Note{}).Where("uid = ?", uid).Count(&count).Error; err != nil {
		return 0, domain.Storage("NoteRepository.ListCount", err)
	}
	return count, nil
}

// Update 更新笔记标题、内容和标签
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	const op = "NoteRepository.Update"
	res := r.dao.DB(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ?", note.ID, note.UID).
		Updates(map[string]any{
			"title":      note.Title,
			"content":    note.Content,
			"tag_id":     note.TagID,
			"updated_at": time.Now().Unix(),
		})
	if res.Error != nil {
		return nil, domain.Storage(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound(op, "note "+note.ID)
	}
	return r.FindByID(ctx, note.ID)
}

// Delete 删除笔记并回填 order 空位
func (r *noteRepository) Delete(ctx context.Context, uid int64, noteID string) error {
	const op = "NoteRepository.Delete"
	return r.dao.ExecuteWrite(ctx, uid, func(tx *gorm.DB) error {
		var m model.Note
		if err := tx.Where("id = ? AND uid = ?", noteID, uid).First(&m).Error; err != nil {
			return wrapErr(op, "note "+noteID, err)
		}
		if err := tx.Delete(&model.Note{}, "id = ?", noteID).Error; err != nil {
			return domain.Storage(op, err)
		}
		err := tx.Model(&model.Note{}).
			Where("uid = ? AND sort_order > ?", uid, m.SortOrder).
			UpdateColumn("sort_order", gorm.Expr("sort_order - 1")).Error
		return domain.Storage(op, err)
	})
}

// DeleteByTag 删除使用该标签的全部笔记
func (r *noteRepository) DeleteByTag(ctx context.Context, uid int64, tagID string) (int64, error) {
	const op = "NoteRepository.DeleteByTag"
	var deleted int64
	err := r.dao.ExecuteWrite(ctx, uid, func(tx *gorm.DB) error {
		res := tx.Where("uid = ? AND tag_id = ?", uid, tagID).Delete(&model.Note{})
		if res.Error != nil {
			return domain.Storage(op, res.Error)
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}
		return densify(tx, uid)
	})
	return deleted, err
}

// Densify 将 order 重排为 0..N-1
func (r *noteRepository) Densify(ctx context.Context, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, func(tx *gorm.DB) error {
		return densify(tx, uid)
	})
}

func densify(tx *gorm.DB, uid int64) error {
	const op = "NoteRepository.Densify"
	var ms []*model.Note
	err := tx.Select("id", "sort_order").
		Where("uid = ?", uid).
		Order("sort_order ASC").Order("created_at ASC").Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return domain.Storage(op, err)
	}
	for i, m := range ms {
		if m.SortOrder == i {
			continue
		}
		if err := tx.Model(&model.Note{}).Where("id = ?", m.ID).UpdateColumn("sort_order", i).Error; err != nil {
			return domain.Storage(op, err)
		}
	}
	return nil
}

// UpdateCoordinates 更新笔记坐标
func (r *noteRepository) UpdateCoordinates(ctx context.Context, uid int64, noteID string, x, y float64, movedAt int64) error {
	const op = "NoteRepository.UpdateCoordinates"
	res := r.dao.DB(ctx).Model(&model.Note{}).
		Where("id = ? AND uid = ?", noteID, uid).
		UpdateColumns(map[string]any{
			"pos_x":         x,
			"pos_y":         y,
			"last_moved_at": movedAt,
		})
	if res.Error != nil {
		return domain.Storage(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(op, "note "+noteID)
	}
	return nil
}

// ApplyReorder shifts the siblings covered by plan and writes plan.Target to
// the moved note. The stored order of the note must still equal plan.Old.
// ApplyReorder 在同一事务中平移兄弟笔记并写入目标 order
func (r *noteRepository) ApplyReorder(ctx context.Context, uid int64, noteID string, plan domain.ShiftPlan) error {
	const op = "NoteRepository.ApplyReorder"
	return r.dao.ExecuteWrite(ctx, uid, func(tx *gorm.DB) error {
		var m model.Note
		if err := tx.Select("id", "sort_order").Where("id = ? AND uid = ?", noteID, uid).First(&m).Error; err != nil {
			return wrapErr(op, "note "+noteID, err)
		}
		if m.SortOrder != plan.Old {
			return domain.Validation(op, "stale order: note %s is at %d, plan expects %d", noteID, m.SortOrder, plan.Old)
		}
		if plan.Noop() {
			return nil
		}

		err := tx.Model(&model.Note{}).
			Where("uid = ? AND id <> ? AND sort_order BETWEEN ? AND ?", uid, noteID, plan.From, plan.To).
			UpdateColumn("sort_order", gorm.Expr("sort_order + ?", plan.Delta)).Error
		if err != nil {
			return domain.Storage(op, err)
		}

		err = tx.Model(&model.Note{}).Where("id = ?", noteID).UpdateColumn("sort_order", plan.Target).Error
		return domain.Storage(op, err)
	})
}

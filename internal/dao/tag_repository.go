package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/model"
	"github.com/haierkeys/fast-note-board/pkg/convert"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// tagRepository 实现 domain.TagRepository 接口
type tagRepository struct {
	dao *Dao
}

// NewTagRepository 创建 TagRepository 实例
func NewTagRepository(dao *Dao) domain.TagRepository {
	return &tagRepository{dao: dao}
}

func (r *tagRepository) toDomain(m *model.Tag) *domain.Tag {
	if m == nil {
		return nil
	}
	return &domain.Tag{
		ID:        m.ID,
		UID:       m.UID,
		Label:     m.Label,
		Code:      m.Code,
		Color:     domain.TagColor(m.Color),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *tagRepository) toModel(t *domain.Tag) *model.Tag {
	return &model.Tag{
		ID:        t.ID,
		UID:       t.UID,
		Label:     t.Label,
		Code:      t.Code,
		Color:     string(t.Color),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// Create 创建标签
func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	m := r.toModel(tag)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.dao.DB(ctx).Create(m).Error; err != nil {
		return nil, domain.Storage("TagRepository.Create", err)
	}
	return r.toDomain(m), nil
}

// FindByID 根据ID获取标签
func (r *tagRepository) FindByID(ctx context.Context, tagID string) (*domain.Tag, error) {
	var m model.Tag
	if err := r.dao.DB(ctx).Where("id = ?", tagID).First(&m).Error; err != nil {
		return nil, wrapErr("TagRepository.FindByID", "tag "+tagID, err)
	}
	return r.toDomain(&m), nil
}

// FindByCode 在系统标签和用户标签中查找 code
func (r *tagRepository) FindByCode(ctx context.Context, uid int64, code string) (*domain.Tag, error) {
	var m model.Tag
	err := r.dao.DB(ctx).
		Where("code = ? AND uid IN ?", code, []int64{0, uid}).
		Order("uid ASC").
		First(&m).Error
	if err != nil {
		return nil, wrapErr("TagRepository.FindByCode", "tag "+code, err)
	}
	return r.toDomain(&m), nil
}

// ListVisible 获取系统标签和用户标签
func (r *tagRepository) ListVisible(ctx context.Context, uid int64) ([]*domain.Tag, error) {
	var ms []*model.Tag
	err := r.dao.DB(ctx).
		Where("uid IN ?", []int64{0, uid}).
		Order("uid ASC").Order("created_at ASC").Order("code ASC").
		Find(&ms).Error
	if err != nil {
		return nil, domain.Storage("TagRepository.ListVisible", err)
	}
	list := make([]*domain.Tag, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// Update 更新标签名称、编码和颜色
func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	const op = "TagRepository.Update"
	data := make(map[string]any)
	changes := &model.Tag{
		Label:     tag.Label,
		Code:      tag.Code,
		Color:     string(tag.Color),
		UpdatedAt: time.Now().Unix(),
	}
	if err := convert.StructToModelMap(changes, data, "ID", "UID", "CreatedAt"); err != nil {
		return nil, domain.Storage(op, err)
	}
	res := r.dao.DB(ctx).Model(&model.Tag{}).
		Where("id = ? AND uid = ?", tag.ID, tag.UID).
		Updates(data)
	if res.Error != nil {
		return nil, domain.Storage(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.NotFound(op, "tag "+tag.ID)
	}
	return r.FindByID(ctx, tag.ID)
}

// Delete 删除标签
func (r *tagRepository) Delete(ctx context.Context, uid int64, tagID string) error {
	const op = "TagRepository.Delete"
	res := r.dao.DB(ctx).Where("id = ? AND uid = ?", tagID, uid).Delete(&model.Tag{})
	if res.Error != nil {
		return domain.Storage(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(op, "tag "+tagID)
	}
	return nil
}

// EnsureSystem 写入尚不存在的系统标签
func (r *tagRepository) EnsureSystem(ctx context.Context, tags []*domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	ms := make([]*model.Tag, 0, len(tags))
	for _, t := range tags {
		m := r.toModel(t)
		m.UID = 0
		if m.ID == "" {
			m.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("tag:"+m.Code)).String()
		}
		ms = append(ms, m)
	}
	err := r.dao.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ms).Error
	return domain.Storage("TagRepository.EnsureSystem", err)
}

package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/convert"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagService 定义标签业务服务接口
type TagService interface {
	// List 获取系统标签和用户标签
	List(ctx context.Context, uid int64) ([]*dto.TagDTO, error)

	// Create 创建用户标签
	Create(ctx context.Context, uid int64, params *dto.TagCreateRequest) (*dto.TagDTO, error)

	// Update 更新用户标签，系统标签只读
	Update(ctx context.Context, uid int64, tagID string, params *dto.TagUpdateRequest) (*dto.TagDTO, error)

	// Delete 删除标签及使用该标签的全部笔记
	Delete(ctx context.Context, uid int64, tagID string) (*dto.TagDeleteDTO, error)

	// EnsureSystemTags 写入配置中的系统标签
	EnsureSystemTags(ctx context.Context) error
}

type tagService struct {
	tagRepo  domain.TagRepository
	noteRepo domain.NoteRepository
	queue    WriteSerializer
	sf       *singleflight.Group
	logger   *zap.Logger
	config   *ServiceConfig
}

// NewTagService 创建 TagService 实例
func NewTagService(tagRepo domain.TagRepository, noteRepo domain.NoteRepository, queue WriteSerializer, lg *zap.Logger, config *ServiceConfig) TagService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &tagService{
		tagRepo:  tagRepo,
		noteRepo: noteRepo,
		queue:    serializerOrInline(queue),
		sf:       &singleflight.Group{},
		logger:   lg,
		config:   config,
	}
}

func (s *tagService) domainToDTO(t *domain.Tag) *dto.TagDTO {
	out := &dto.TagDTO{}
	convert.StructAssign(t, out)
	out.Color = string(t.Color)
	out.System = t.IsSystem()
	return out
}

// TagLabel capitalizes name the way labels are displayed: first letter upper,
// the rest lower.
// TagLabel 首字母大写，其余小写
func TagLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(name)
	return cases.Upper(language.Und).String(name[:size]) + cases.Lower(language.Und).String(name[size:])
}

// TagCode turns name into a lowercase kebab slug. Words split at any
// non-alphanumeric rune and at lower-to-upper case changes.
// TagCode 生成小写短横线分隔的标签编码
func TagCode(name string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return cases.Lower(language.Und).String(strings.Join(words, "-"))
}

// List 获取标签列表，同一用户的并发请求合并为一次查询
func (s *tagService) List(ctx context.Context, uid int64) ([]*dto.TagDTO, error) {
	v, err, _ := s.sf.Do("tags_"+strconv.FormatInt(uid, 10), func() (any, error) {
		tags, err := s.tagRepo.ListVisible(ctx, uid)
		if err != nil {
			return nil, err
		}
		list := make([]*dto.TagDTO, 0, len(tags))
		for _, t := range tags {
			list = append(list, s.domainToDTO(t))
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*dto.TagDTO), nil
}

// checkCodeFree 检查 code 在系统标签和用户标签中未被占用
func (s *tagService) checkCodeFree(ctx context.Context, uid int64, tagCode, selfID string) error {
	existing, err := s.tagRepo.FindByCode(ctx, uid, tagCode)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return code.ErrorTagAlreadyExists
	}
	return nil
}

// Create 创建标签
func (s *tagService) Create(ctx context.Context, uid int64, params *dto.TagCreateRequest) (*dto.TagDTO, error) {
	tagCode := TagCode(params.Name)
	if tagCode == "" {
		return nil, code.ErrorInvalidParams.WithDetails("name must contain a letter or digit")
	}
	if err := s.checkCodeFree(ctx, uid, tagCode, ""); err != nil {
		return nil, err
	}

	tag, err := s.tagRepo.Create(ctx, &domain.Tag{
		UID:   uid,
		Label: TagLabel(params.Name),
		Code:  tagCode,
		Color: domain.TagColor(params.Color),
	})
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(tag), nil
}

// ownedTag 获取用户可修改的标签
func (s *tagService) ownedTag(ctx context.Context, uid int64, tagID string) (*domain.Tag, error) {
	tag, err := s.tagRepo.FindByID(ctx, tagID)
	if err != nil {
		return nil, mapNotFound(err, code.ErrorTagNotFound)
	}
	if tag.IsSystem() {
		return nil, code.ErrorTagReadOnly
	}
	if tag.UID != uid {
		return nil, code.ErrorTagNotFound
	}
	return tag, nil
}

// Update 更新标签
func (s *tagService) Update(ctx context.Context, uid int64, tagID string, params *dto.TagUpdateRequest) (*dto.TagDTO, error) {
	tag, err := s.ownedTag(ctx, uid, tagID)
	if err != nil {
		return nil, err
	}

	if params.Name != "" {
		tagCode := TagCode(params.Name)
		if tagCode == "" {
			return nil, code.ErrorInvalidParams.WithDetails("name must contain a letter or digit")
		}
		if err := s.checkCodeFree(ctx, uid, tagCode, tag.ID); err != nil {
			return nil, err
		}
		tag.Label = TagLabel(params.Name)
		tag.Code = tagCode
	}
	if params.Color != "" {
		tag.Color = domain.TagColor(params.Color)
	}

	updated, err := s.tagRepo.Update(ctx, tag)
	if err != nil {
		return nil, mapNotFound(err, code.ErrorTagNotFound)
	}
	return s.domainToDTO(updated), nil
}

// Delete 删除标签，级联删除笔记并重排 order
func (s *tagService) Delete(ctx context.Context, uid int64, tagID string) (*dto.TagDeleteDTO, error) {
	tag, err := s.ownedTag(ctx, uid, tagID)
	if err != nil {
		return nil, err
	}

	var deleted int64
	err = s.queue.Execute(ctx, uid, func(ctx context.Context) error {
		n, err := s.noteRepo.DeleteByTag(ctx, uid, tag.ID)
		if err != nil {
			return err
		}
		deleted = n
		return mapNotFound(s.tagRepo.Delete(ctx, uid, tag.ID), code.ErrorTagNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag deleted",
		zap.Int64(logger.FieldUID, uid),
		zap.String(logger.FieldTagID, tag.ID),
		zap.Int64("deletedNotes", deleted))
	return &dto.TagDeleteDTO{ID: tag.ID, DeletedNotes: deleted}, nil
}

// EnsureSystemTags 写入系统标签
func (s *tagService) EnsureSystemTags(ctx context.Context) error {
	if s.config == nil || len(s.config.Tag.SystemTags) == 0 {
		return nil
	}
	tags := make([]*domain.Tag, 0, len(s.config.Tag.SystemTags))
	for _, st := range s.config.Tag.SystemTags {
		tagCode := TagCode(st.Name)
		if tagCode == "" {
			continue
		}
		tags = append(tags, &domain.Tag{
			Label: TagLabel(st.Name),
			Code:  tagCode,
			Color: domain.TagColor(st.Color),
		})
	}
	return s.tagRepo.EnsureSystem(ctx, tags)
}

package service

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagLabelAndCode(t *testing.T) {
	cases := []struct{ in, label, code string }{
		{"work", "Work", "work"},
		{"  side PROJECT ", "Side project", "side-project"},
		{"fooBar", "Foobar", "foo-bar"},
		{"__Road_Trip__", "__road_trip__", "road-trip"},
		{"v2 Plans", "V2 plans", "v2-plans"},
		{"été", "Été", "été"},
		{"!!!", "!!!", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.label, TagLabel(c.in), c.in)
		assert.Equal(t, c.code, TagCode(c.in), c.in)
	}
}

func newTagFixture() (*memNoteRepo, *memTagRepo, TagService) {
	notes := newMemNoteRepo()
	tags := newMemTagRepo(&domain.Tag{ID: "sys", UID: 0, Code: "work", Label: "Work", Color: domain.TagColorBlue})
	cfg := &ServiceConfig{Tag: TagServiceConfig{SystemTags: []SystemTag{
		{Name: "work", Color: "blue"},
		{Name: "ideas", Color: "yellow"},
	}}}
	return notes, tags, NewTagService(tags, notes, nil, nil, cfg)
}

func TestTagCreate(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTagFixture()

	tag, err := svc.Create(ctx, 1, &dto.TagCreateRequest{Name: "my list", Color: "green"})
	require.NoError(t, err)
	assert.Equal(t, "My list", tag.Label)
	assert.Equal(t, "my-list", tag.Code)
	assert.Equal(t, "green", tag.Color)
	assert.False(t, tag.System)

	_, err = svc.Create(ctx, 1, &dto.TagCreateRequest{Name: "My List", Color: "red"})
	assert.ErrorIs(t, err, code.ErrorTagAlreadyExists)

	// system codes are taken for everyone
	_, err = svc.Create(ctx, 2, &dto.TagCreateRequest{Name: "Work", Color: "red"})
	assert.ErrorIs(t, err, code.ErrorTagAlreadyExists)

	// user codes are per owner
	_, err = svc.Create(ctx, 2, &dto.TagCreateRequest{Name: "my list", Color: "red"})
	assert.NoError(t, err)
}

func TestTagUpdateRules(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTagFixture()

	_, err := svc.Update(ctx, 1, "sys", &dto.TagUpdateRequest{Color: "red"})
	assert.ErrorIs(t, err, code.ErrorTagReadOnly)

	tag, err := svc.Create(ctx, 1, &dto.TagCreateRequest{Name: "errands", Color: "green"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 2, tag.ID, &dto.TagUpdateRequest{Color: "red"})
	assert.ErrorIs(t, err, code.ErrorTagNotFound)

	updated, err := svc.Update(ctx, 1, tag.ID, &dto.TagUpdateRequest{Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, "red", updated.Color)
	assert.Equal(t, "errands", updated.Code)

	updated, err = svc.Update(ctx, 1, tag.ID, &dto.TagUpdateRequest{Name: "Errands"})
	require.NoError(t, err)
	assert.Equal(t, "errands", updated.Code)
}

func TestTagDeleteCascades(t *testing.T) {
	ctx := context.Background()
	notes, _, svc := newTagFixture()

	tag, err := svc.Create(ctx, 1, &dto.TagCreateRequest{Name: "temp", Color: "red"})
	require.NoError(t, err)
	notes.seed(1, tag.ID, "A")
	notes.seed(1, "sys", "B")
	notes.seed(1, tag.ID, "C")
	notes.seed(1, "sys", "D")

	_, err = svc.Delete(ctx, 1, "sys")
	assert.ErrorIs(t, err, code.ErrorTagReadOnly)

	res, err := svc.Delete(ctx, 1, tag.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.DeletedNotes)
	assert.Equal(t, []string{"B", "D"}, notes.titles(1))
	assert.True(t, notes.dense(1))
}

func TestTagListAndSystemSeed(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTagFixture()

	require.NoError(t, svc.EnsureSystemTags(ctx))
	require.NoError(t, svc.EnsureSystemTags(ctx))
	_, err := svc.Create(ctx, 1, &dto.TagCreateRequest{Name: "mine", Color: "red"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, &dto.TagCreateRequest{Name: "theirs", Color: "red"})
	require.NoError(t, err)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	codes := make([]string, 0, len(list))
	for _, tag := range list {
		codes = append(codes, tag.Code)
	}
	assert.Equal(t, []string{"ideas", "work", "mine"}, codes)
	assert.True(t, list[0].System)
}

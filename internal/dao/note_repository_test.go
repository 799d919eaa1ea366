package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRepositoryApplyReorder(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	ids := seedNotes(t, repo, 1, "", "A", "B", "C")

	// move C to the front
	plan, err := domain.PlanReorder(2, 0, 3)
	require.NoError(t, err)
	require.NoError(t, repo.ApplyReorder(ctx, 1, ids[2], plan))
	assert.Equal(t, []string{"C", "A", "B"}, titlesInOrder(t, repo, 1))

	// and A to the back
	plan, err = domain.PlanReorder(1, 2, 3)
	require.NoError(t, err)
	require.NoError(t, repo.ApplyReorder(ctx, 1, ids[0], plan))
	assert.Equal(t, []string{"C", "B", "A"}, titlesInOrder(t, repo, 1))
}

func TestNoteRepositoryApplyReorderStale(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	ids := seedNotes(t, repo, 1, "", "A", "B", "C")

	plan, err := domain.PlanReorder(1, 2, 3)
	require.NoError(t, err)
	err = repo.ApplyReorder(ctx, 1, ids[0], plan)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"A", "B", "C"}, titlesInOrder(t, repo, 1))
}

func TestNoteRepositoryApplyReorderIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	ids := seedNotes(t, repo, 1, "", "A", "B", "C")
	seedNotes(t, repo, 2, "", "X", "Y", "Z")

	plan, err := domain.PlanReorder(0, 2, 3)
	require.NoError(t, err)
	require.NoError(t, repo.ApplyReorder(ctx, 1, ids[0], plan))

	assert.Equal(t, []string{"B", "C", "A"}, titlesInOrder(t, repo, 1))
	assert.Equal(t, []string{"X", "Y", "Z"}, titlesInOrder(t, repo, 2))

	err = repo.ApplyReorder(ctx, 2, ids[1], plan)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepositoryDeleteClosesGap(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	ids := seedNotes(t, repo, 1, "", "A", "B", "C", "D")

	require.NoError(t, repo.Delete(ctx, 1, ids[1]))
	assert.Equal(t, []string{"A", "C", "D"}, titlesInOrder(t, repo, 1))

	err := repo.Delete(ctx, 1, ids[1])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepositoryDeleteByTag(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	seedNotes(t, repo, 1, "work", "A")
	seedNotes(t, repo, 1, "home", "B")
	seedNotes(t, repo, 1, "work", "C")
	seedNotes(t, repo, 1, "home", "D")

	n, err := repo.DeleteByTag(ctx, 1, "work")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, []string{"B", "D"}, titlesInOrder(t, repo, 1))

	n, err = repo.DeleteByTag(ctx, 1, "work")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNoteRepositoryUpdateCoordinates(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	ids := seedNotes(t, repo, 1, "", "A", "B")

	require.NoError(t, repo.UpdateCoordinates(ctx, 1, ids[1], 12.5, -3, 1700000000))
	n, err := repo.FindByID(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 12.5, n.Position.X)
	assert.Equal(t, float64(-3), n.Position.Y)
	assert.EqualValues(t, 1700000000, n.Position.LastMovedAt)
	assert.Equal(t, 1, n.Position.Order)

	err = repo.UpdateCoordinates(ctx, 2, ids[1], 0, 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepositoryUpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	ids := seedNotes(t, repo, 1, "", "A", "B")

	n, err := repo.Update(ctx, &domain.Note{ID: ids[1], UID: 1, Title: "B2", Content: "body", TagID: "t", Position: domain.Position{Order: 0}})
	require.NoError(t, err)
	assert.Equal(t, "B2", n.Title)
	assert.Equal(t, "body", n.Content)
	assert.Equal(t, 1, n.Position.Order)
}

func TestNoteRepositoryListPaged(t *testing.T) {
	ctx := context.Background()
	repo := NewNoteRepository(newTestDao(t))
	seedNotes(t, repo, 1, "", "A", "B", "C", "D", "E")

	page, err := repo.List(ctx, 1, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "C", page[0].Title)
	assert.Equal(t, "D", page[1].Title)

	total, err := repo.ListCount(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
}

package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type:        "sqlite",
		Path:        ":memory:",
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)

	queue := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() {
		_ = queue.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db, context.Background(), WithLogger(zap.NewNop()), WithWriteQueueManager(queue))
}

// seedNotes creates titles in order 0..len-1 for uid and returns their ids.
func seedNotes(t *testing.T, repo domain.NoteRepository, uid int64, tagID string, titles ...string) []string {
	t.Helper()
	ctx := context.Background()
	base, err := repo.CountByOwner(ctx, uid)
	require.NoError(t, err)

	ids := make([]string, 0, len(titles))
	for i, title := range titles {
		n, err := repo.Create(ctx, &domain.Note{
			UID:      uid,
			TagID:    tagID,
			Title:    title,
			Position: domain.Position{Order: base + i},
		})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	return ids
}

func titlesInOrder(t *testing.T, repo domain.NoteRepository, uid int64) []string {
	t.Helper()
	notes, err := repo.List(context.Background(), uid, 0, 0)
	require.NoError(t, err)
	out := make([]string, 0, len(notes))
	for i, n := range notes {
		require.Equal(t, i, n.Position.Order, "orders must stay dense")
		out = append(out, n.Title)
	}
	return out
}

func TestDatabaseConfigUnsupportedType(t *testing.T) {
	_, err := NewDBEngineWithConfig(DatabaseConfig{Type: "oracle"}, nil)
	assert.Error(t, err)
}

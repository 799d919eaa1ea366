package upgrade

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type:        "sqlite",
		Path:        ":memory:",
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)
	return db
}

func orders(t *testing.T, db *gorm.DB, uid int64) map[string]int {
	t.Helper()
	var notes []model.Note
	require.NoError(t, db.Where("uid = ?", uid).Find(&notes).Error)
	out := make(map[string]int, len(notes))
	for _, n := range notes {
		out[n.ID] = n.SortOrder
	}
	return out
}

func TestOrderDensifyMigrate(t *testing.T) {
	db := newTestDB(t)
	notes := []model.Note{
		{ID: "a", UID: 1, SortOrder: 4, CreatedAt: 1},
		{ID: "b", UID: 1, SortOrder: 1, CreatedAt: 2},
		{ID: "c", UID: 1, SortOrder: 1, CreatedAt: 3},
		{ID: "d", UID: 2, SortOrder: 7, CreatedAt: 1},
	}
	require.NoError(t, db.Create(&notes).Error)

	n, err := Execute(context.Background(), db, zap.NewNop(), "0.3.0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, map[string]int{"b": 0, "c": 1, "a": 2}, orders(t, db, 1))
	assert.Equal(t, map[string]int{"d": 0}, orders(t, db, 2))

	// 已应用的版本不再执行
	require.NoError(t, db.Model(&model.Note{}).Where("id = ?", "d").UpdateColumn("sort_order", 9).Error)
	n, err = Execute(context.Background(), db, zap.NewNop(), "0.3.0")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, map[string]int{"d": 9}, orders(t, db, 2))

	var count int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

type stubMigration struct {
	version string
	calls   *[]string
}

func (s stubMigration) Version() string     { return s.version }
func (s stubMigration) Description() string { return "stub " + s.version }
func (s stubMigration) Up(ctx context.Context, db *gorm.DB) error {
	*s.calls = append(*s.calls, s.version)
	return nil
}

func TestMigrationManagerOrderAndCeiling(t *testing.T) {
	db := newTestDB(t)
	var calls []string
	m := NewMigrationManager(db, zap.NewNop(),
		stubMigration{"0.10.0", &calls},
		stubMigration{"0.2.0", &calls},
		stubMigration{"v0.9.1", &calls},
	)

	n, err := m.Run(context.Background(), "0.9.5")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"0.2.0", "v0.9.1"}, calls)

	n, err = m.Run(context.Background(), "v0.10.0")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"0.2.0", "v0.9.1", "0.10.0"}, calls)
}

func TestMigrationInvalidVersion(t *testing.T) {
	db := newTestDB(t)
	var calls []string
	_, err := NewMigrationManager(db, zap.NewNop(), stubMigration{"latest", &calls}).Run(context.Background(), "0.3.0")
	assert.Error(t, err)
	assert.Empty(t, calls)
}

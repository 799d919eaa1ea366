// Package upgrade 按版本执行一次性的数据修复
package upgrade

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// SchemaVersion 数据库版本记录表
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"appliedAt"`
}

// Migration 定义升级接口
type Migration interface {
	Version() string
	Description() string
	Up(ctx context.Context, db *gorm.DB) error
}

// DefaultMigrations 所有已知的升级脚本
func DefaultMigrations() []Migration {
	return []Migration{
		&OrderDensifyMigrate{},
	}
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	migrations []Migration
}

// NewMigrationManager 创建升级管理器，migrations 按版本号排序执行
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, migrations ...Migration) *MigrationManager {
	sorted := append([]Migration(nil), migrations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return semver.Compare(canonical(sorted[i].Version()), canonical(sorted[j].Version())) < 0
	})
	return &MigrationManager{db: db, logger: logger, migrations: sorted}
}

// Execute 使用默认脚本执行升级
func Execute(ctx context.Context, db *gorm.DB, logger *zap.Logger, runningVersion string) (int, error) {
	return NewMigrationManager(db, logger, DefaultMigrations()...).Run(ctx, runningVersion)
}

// Run 执行所有未应用且不高于 runningVersion 的升级，返回执行数量
func (m *MigrationManager) Run(ctx context.Context, runningVersion string) (int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&SchemaVersion{}); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied versions: %w", err)
	}

	running := canonical(runningVersion)

	executed := 0
	for _, migration := range m.migrations {
		scriptVersion := canonical(migration.Version())
		if scriptVersion == "" {
			return executed, fmt.Errorf("migration %q has an invalid version", migration.Version())
		}
		if applied[scriptVersion] {
			continue
		}
		// 高于当前运行版本的脚本留给后续版本
		if running != "" && semver.Compare(scriptVersion, running) > 0 {
			m.logger.Info("skip migration newer than running version",
				zap.String("scriptVersion", scriptVersion),
				zap.String("runningVersion", running))
			continue
		}

		m.logger.Info("applying migration",
			zap.String("scriptVersion", scriptVersion),
			zap.String("desc", migration.Description()))

		if err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(ctx, tx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			record := &SchemaVersion{
				Version:     scriptVersion,
				Description: migration.Description(),
				AppliedAt:   time.Now(),
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to record version: %w", err)
			}
			return nil
		}); err != nil {
			return executed, fmt.Errorf("failed to apply migration %s: %w", scriptVersion, err)
		}

		m.logger.Info("migration applied successfully", zap.String("scriptVersion", scriptVersion))
		executed++
	}

	if executed == 0 {
		m.logger.Info("database is already up to date")
	} else {
		m.logger.Info("upgrade completed", zap.Int("migrationsApplied", executed))
	}
	return executed, nil
}

// appliedVersions 获取已应用的数据库版本
func (m *MigrationManager) appliedVersions(ctx context.Context) (map[string]bool, error) {
	var versions []SchemaVersion
	if err := m.db.WithContext(ctx).Find(&versions).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[canonical(v.Version)] = true
	}
	return applied, nil
}

func canonical(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}

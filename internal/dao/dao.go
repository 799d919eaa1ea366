// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-note-board/internal/model"
	"github.com/haierkeys/fast-note-board/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// WriteSerializer runs fn exclusively for one owner.
type WriteSerializer interface {
	Execute(ctx context.Context, uid int64, fn func(ctx context.Context) error) error
}

type Dao struct {
	Db     *gorm.DB
	ctx    context.Context
	config *DatabaseConfig
	logger *zap.Logger
	queue  WriteSerializer
}

type Option func(*Dao)

func WithConfig(cfg *DatabaseConfig) Option {
	return func(d *Dao) { d.config = cfg }
}

func WithLogger(lg *zap.Logger) Option {
	return func(d *Dao) { d.logger = lg }
}

// WithWriteQueueManager serializes ExecuteWrite per owner through m.
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) {
		if m != nil {
			d.queue = m
		}
	}
}

// WithWriteSerializer is WithWriteQueueManager for any serializer.
func WithWriteSerializer(s WriteSerializer) Option {
	return func(d *Dao) { d.queue = s }
}

func New(db *gorm.DB, ctx context.Context, opts ...Option) *Dao {
	d := &Dao{Db: db, ctx: ctx, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DB returns the handle bound to ctx.
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		ctx = d.ctx
	}
	return d.Db.WithContext(ctx)
}

// Queue returns the write serializer, nil when writes are not queued.
func (d *Dao) Queue() WriteSerializer {
	return d.queue
}

// ExecuteWrite runs fn in one transaction on the write lane of uid.
// Nested calls for the same uid do not deadlock.
// ExecuteWrite 在 uid 的写队列上以单个事务执行 fn
func (d *Dao) ExecuteWrite(ctx context.Context, uid int64, fn func(tx *gorm.DB) error) error {
	run := func(ctx context.Context) error {
		return d.Db.WithContext(ctx).Transaction(fn)
	}
	if d.queue == nil {
		return run(ctx)
	}
	return d.queue.Execute(ctx, uid, run)
}

// Migrate creates or updates every table.
func (d *Dao) Migrate() error {
	return model.AutoMigrateAll(d.Db)
}

// NewDBEngineWithConfig opens the database described by c.
// NewDBEngineWithConfig 根据配置创建数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(c)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if c.RunMode == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`User` 的表名应该是 `t_user`
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", c.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}

	if c.Type == "sqlite" {
		// one writer at a time, sqlite locks the whole file
		sqlDB.SetMaxOpenConns(1)
	} else if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if d := parseDurationOr(c.ConnMaxLifetime, 10*time.Minute); d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	}
	if d := parseDurationOr(c.ConnMaxIdleTime, 0); d > 0 {
		sqlDB.SetConnMaxIdleTime(d)
	}

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil && lg != nil {
		lg.Warn("gorm tracing plugin not registered", zap.Error(err))
	}

	if c.AutoMigrate {
		if err := model.AutoMigrateAll(db); err != nil {
			return nil, errors.Wrap(err, "auto migrate")
		}
	}

	if lg != nil {
		lg.Info("database connected", zap.String("type", c.Type))
	}
	return db, nil
}

func dialectorFor(c DatabaseConfig) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName, c.Password, c.Host, c.Name, charset, c.ParseTime)), nil
	case "postgres":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.UserName, c.Password, c.Name, sslMode)), nil
	case "sqlite", "":
		if c.Path != ":memory:" && c.Path != "" {
			if err := os.MkdirAll(filepath.Dir(c.Path), 0754); err != nil {
				return nil, errors.Wrap(err, "create sqlite dir")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, errors.Errorf("unsupported database type %q", c.Type)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/service"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"
	"github.com/haierkeys/fast-note-board/pkg/workerpool"
	"github.com/haierkeys/fast-note-board/pkg/writequeue"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// 实时广播
	Hub *pkgapp.Hub

	// Token 注销存储
	Sessions    domain.SessionStore
	memSessions *dao.MemorySessionStore

	// Repository 层
	NoteRepo domain.NoteRepository
	TagRepo  domain.TagRepository
	UserRepo domain.UserRepository

	// Service 层
	NoteService     service.NoteService
	TagService      service.TagService
	UserService     service.UserService
	PositionService service.PositionService

	TokenManager pkgapp.TokenManager

	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	a.Dao = dao.New(db, context.Background(),
		dao.WithConfig(cfg.DaoConfig()),
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueueMgr),
	)

	a.Hub = pkgapp.NewHub(pkgapp.ParseBroadcastScope(cfg.Realtime.Scope), logger)

	if cfg.Session.RedisURL != "" {
		store, err := dao.NewRedisSessionStore(cfg.Session.RedisURL, cfg.Session.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, "connect session redis failed")
		}
		a.Sessions = store
	} else {
		a.memSessions = dao.NewMemorySessionStore()
		a.Sessions = a.memSessions
		logger.Warn("session.redis-url is empty, revoked tokens are kept in memory")
	}

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Expiry:    cfg.GetTokenExpiry(),
		Issuer:    pkgapp.DefaultTokenIssuer,
	})

	a.NoteRepo = dao.NewNoteRepository(a.Dao)
	a.TagRepo = dao.NewTagRepository(a.Dao)
	a.UserRepo = dao.NewUserRepository(a.Dao)

	svcConfig := cfg.GetServiceConfig()

	a.PositionService = service.NewPositionService(a.NoteRepo, a.writeQueueMgr, logger, nil)
	a.NoteService = service.NewNoteService(a.NoteRepo, a.TagRepo, a.writeQueueMgr, logger)
	a.TagService = service.NewTagService(a.TagRepo, a.NoteRepo, a.writeQueueMgr, logger, svcConfig)
	a.UserService = service.NewUserService(a.UserRepo, a.Sessions, a.TokenManager, logger, svcConfig, nil)

	if err := a.TagService.EnsureSystemTags(context.Background()); err != nil {
		return nil, errors.Wrap(err, "seed system tags failed")
	}

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.String("realtimeScope", string(a.Hub.Scope())))

	return a, nil
}

// DaoConfig 转换为 DAO 层数据库配置
func (c *AppConfig) DaoConfig() *dao.DatabaseConfig {
	return &dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		TablePrefix:     c.Database.TablePrefix,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		SSLMode:         c.Database.SSLMode,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// Close 释放数据库连接和会话存储
func (a *App) Close() error {
	var errs []error
	if a.Sessions != nil {
		if err := a.Sessions.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close session store: %w", err))
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			a.logger.Info("Database connection closed")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close: %v", errs)
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SubmitTask 提交任务到 Worker Pool 并等待执行完成
func (a *App) SubmitTask(ctx context.Context, task func(context.Context) error) error {
	return a.workerPool.Submit(ctx, task)
}

// MemorySessions 返回内存会话存储，使用 Redis 时为 nil
func (a *App) MemorySessions() *dao.MemorySessionStore {
	return a.memSessions
}

// Version 获取版本信息
func (a *App) Version() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsProductionMode 是否为生产模式
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Worker Pool -> Write Queue Manager -> 后台任务 -> 数据库与会话存储
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 1. 停止接受实时命令，等待正在执行的完成
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
	}

	// 2. 排空所有写队列
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		}
	}

	// 3. 等待后台操作
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	// 4. 关闭数据库与会话存储
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors", zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作，优雅关闭时等待其完成
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}

// Package task 后台定时任务
package task

import (
	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/pkg/safe_close"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Manager 任务管理器，负责创建和管理所有任务
type Manager struct {
	app       *app.App
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewManager 创建任务管理器
func NewManager(appContainer *app.App, sc *safe_close.SafeClose) *Manager {
	logger := appContainer.Logger()
	return &Manager{
		app:       appContainer,
		scheduler: NewScheduler(logger, sc, appContainer.Config().GetContextTimeout()),
		logger:    logger,
	}
}

// RegisterTasks 通过注册表创建并添加所有任务
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app)
		if err != nil {
			return errors.Wrap(err, "create task failed")
		}
		if t == nil {
			continue
		}
		m.scheduler.AddTask(t)
		m.logger.Info("task registered", zap.String("name", t.Name()))
	}
	return nil
}

// Scheduler 返回任务调度器
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}

package task

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dao"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweepTask 清理内存中已过期的注销记录
type SessionSweepTask struct {
	store  *dao.MemorySessionStore
	every  cron.Schedule
	logger *zap.Logger
}

func (t *SessionSweepTask) Name() string {
	return "SessionSweep"
}

func (t *SessionSweepTask) Schedule() cron.Schedule {
	return t.every
}

func (t *SessionSweepTask) IsStartupRun() bool {
	return false
}

func (t *SessionSweepTask) Run(ctx context.Context) error {
	if n := t.store.Sweep(); n > 0 {
		t.logger.Debug("task log", zap.String("task", t.Name()), zap.Int("swept", n))
	}
	return nil
}

// NewSessionSweepTask 使用 Redis 存储时不启用
func NewSessionSweepTask(appContainer *app.App) (Task, error) {
	store := appContainer.MemorySessions()
	if store == nil {
		return nil, nil
	}
	return &SessionSweepTask{
		store:  store,
		every:  cron.Every(appContainer.Config().GetSessionSweepInterval()),
		logger: appContainer.Logger(),
	}, nil
}

func init() {
	Register(func(appContainer *app.App) (Task, error) {
		return NewSessionSweepTask(appContainer)
	})
}

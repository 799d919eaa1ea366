package task

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/app"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ResetTokenCleanupTask 清理过期的找回密码令牌
type ResetTokenCleanupTask struct {
	app      *app.App
	schedule cron.Schedule
}

func (t *ResetTokenCleanupTask) Name() string {
	return "ResetTokenCleanup"
}

func (t *ResetTokenCleanupTask) Schedule() cron.Schedule {
	return t.schedule
}

func (t *ResetTokenCleanupTask) IsStartupRun() bool {
	return true
}

func (t *ResetTokenCleanupTask) Run(ctx context.Context) error {
	n, err := t.app.UserService.ClearExpiredResetTokens(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		t.app.Logger().Info("task log",
			zap.String("task", t.Name()),
			zap.Int64("cleared", n))
	}
	return nil
}

// NewResetTokenCleanupTask 按配置的 cron 表达式创建任务，表达式为空时不启用
func NewResetTokenCleanupTask(appContainer *app.App) (Task, error) {
	spec := appContainer.Config().Task.ResetTokenCleanupSpec
	if spec == "" {
		return nil, nil
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reset-token-cleanup-spec %q", spec)
	}
	return &ResetTokenCleanupTask{app: appContainer, schedule: schedule}, nil
}

func init() {
	Register(func(appContainer *app.App) (Task, error) {
		return NewResetTokenCleanupTask(appContainer)
	})
}

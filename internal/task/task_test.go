package task

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/dao"
	"github.com/haierkeys/fast-note-board/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tickSchedule time.Duration

func (d tickSchedule) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

type countingTask struct {
	runs     atomic.Int32
	schedule cron.Schedule
	startup  bool
	fail     bool
}

func (t *countingTask) Name() string            { return "counting" }
func (t *countingTask) Schedule() cron.Schedule { return t.schedule }
func (t *countingTask) IsStartupRun() bool      { return t.startup }
func (t *countingTask) Run(context.Context) error {
	n := t.runs.Add(1)
	if t.fail && n == 1 {
		panic("first run")
	}
	return nil
}

func TestSchedulerRunsUntilClosed(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, time.Second)
	task := &countingTask{schedule: tickSchedule(5 * time.Millisecond), startup: true, fail: true}
	s.AddTask(task)
	s.Start()

	require.Eventually(t, func() bool { return task.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	sc.SendCloseSignal(nil)
	require.NoError(t, sc.WaitClosed())
	stopped := task.runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, task.runs.Load())
}

func TestSchedulerStartupOnly(t *testing.T) {
	sc := safe_close.NewSafeClose()
	s := NewScheduler(zap.NewNop(), sc, 0)
	task := &countingTask{startup: true}
	s.AddTask(task)
	s.Start()

	require.NoError(t, sc.WaitClosed())
	assert.EqualValues(t, 1, task.runs.Load())
}

func newTestApp(t *testing.T, extra string) *app.App {
	t.Helper()
	cfg, err := app.ParseConfig([]byte("database:\n  type: sqlite\n  path: \":memory:\"\n" + extra))
	require.NoError(t, err)
	db, err := dao.NewDBEngineWithConfig(*cfg.DaoConfig(), zap.NewNop())
	require.NoError(t, err)
	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestManagerRegistersTasks(t *testing.T) {
	a := newTestApp(t, "")
	m := NewManager(a, safe_close.NewSafeClose())
	require.NoError(t, m.RegisterTasks())

	var names []string
	for _, task := range m.Scheduler().Tasks() {
		names = append(names, task.Name())
	}
	assert.ElementsMatch(t, []string{"ResetTokenCleanup", "SessionSweep"}, names)

	for _, task := range m.Scheduler().Tasks() {
		assert.NoError(t, task.Run(context.Background()))
	}
}

func TestResetTokenCleanupTaskSpec(t *testing.T) {
	a := newTestApp(t, "task:\n  reset-token-cleanup-spec: \"not a spec\"\n")
	_, err := NewResetTokenCleanupTask(a)
	require.Error(t, err)

	m := NewManager(a, safe_close.NewSafeClose())
	assert.Error(t, m.RegisterTasks())
}

func TestResetTokenCleanupTaskDaily(t *testing.T) {
	a := newTestApp(t, "")
	task, err := NewResetTokenCleanupTask(a)
	require.NoError(t, err)

	from := time.Date(2024, 5, 1, 13, 30, 0, 0, time.Local)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.Local), task.Schedule().Next(from))
}

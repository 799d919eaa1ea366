// Package writequeue serializes write operations per owner.
// Package writequeue 按所有者串行化写操作
//
// Every owner gets a lane with a single worker. Operations on one lane run
// strictly in FIFO order, lanes of different owners run in parallel.
// A lane is torn down as soon as it is drained.
// 每个所有者对应一条通道和一个 worker，同一通道内按 FIFO 顺序执行，不同所有者并行
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/logger"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 当所有者的写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 当写操作等待超时时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity 每个所有者允许排队的最大操作数，默认 100
	QueueCapacity int
	// WriteTimeout 单次写操作的最长等待时间，默认 30 秒
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
	}
}

type ownerKey struct{}

// heldOwners is stored in the context of a running operation so nested
// calls for the same owner run inline instead of queueing behind themselves.
type heldOwners map[int64]struct{}

func holding(ctx context.Context, uid int64) bool {
	held, _ := ctx.Value(ownerKey{}).(heldOwners)
	_, ok := held[uid]
	return ok
}

func withOwner(ctx context.Context, uid int64) context.Context {
	prev, _ := ctx.Value(ownerKey{}).(heldOwners)
	next := make(heldOwners, len(prev)+1)
	for k := range prev {
		next[k] = struct{}{}
	}
	next[uid] = struct{}{}
	return context.WithValue(ctx, ownerKey{}, next)
}

type writeOp struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

type lane struct {
	uid     int64
	ch      chan writeOp
	pending int
}

// Manager owns the lanes of all owners.
// Manager 管理所有所有者的写通道
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	lanes  map[int64]*lane
	closed bool
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a manager. A nil cfg or logger falls back to defaults.
// New 创建写队列管理器，cfg 或 logger 为 nil 时使用默认值
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config: c,
		logger: logger,
		lanes:  make(map[int64]*lane),
		ctx:    ctx,
		cancel: cancel,
	}

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout))
	return m
}

// Execute runs fn on the lane of uid and waits for its result.
// Calls made from inside fn for the same uid run inline.
// Execute 在 uid 对应的通道上执行 fn 并等待结果，fn 内部对同一 uid 的嵌套调用直接执行
func (m *Manager) Execute(ctx context.Context, uid int64, fn func(ctx context.Context) error) error {
	if holding(ctx, uid) {
		return fn(ctx)
	}

	result := make(chan error, 1)
	op := writeOp{ctx: withOwner(ctx, uid), fn: fn, result: result}

	if err := m.enqueue(uid, op); err != nil {
		return err
	}

	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

func (m *Manager) enqueue(uid int64, op writeOp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrWriteQueueClosed
	}

	l, ok := m.lanes[uid]
	if !ok {
		l = &lane{uid: uid, ch: make(chan writeOp, m.config.QueueCapacity)}
		m.lanes[uid] = l
		m.wg.Add(1)
		go m.worker(l)
		m.logger.Debug("write queue lane created", zap.Int64(logger.FieldUID, uid))
	}
	if l.pending >= m.config.QueueCapacity {
		return ErrWriteQueueFull
	}
	l.pending++
	// pending never exceeds the channel capacity, so this send does not block
	l.ch <- op
	return nil
}

func (m *Manager) worker(l *lane) {
	defer m.wg.Done()
	for op := range l.ch {
		m.run(op)

		m.mu.Lock()
		l.pending--
		if l.pending == 0 {
			delete(m.lanes, l.uid)
			m.mu.Unlock()
			m.logger.Debug("write queue lane drained", zap.Int64(logger.FieldUID, l.uid))
			return
		}
		m.mu.Unlock()
	}
}

func (m *Manager) run(op writeOp) {
	var err error
	select {
	case <-op.ctx.Done():
		err = op.ctx.Err()
	default:
		err = op.fn(op.ctx)
	}
	op.result <- err
}

// Shutdown stops accepting work and waits for every lane to drain.
// Shutdown 停止接收新操作并等待所有通道排空
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.cancel()
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.cancel()
		m.logger.Warn("write queue manager shutdown timeout, forcing cancellation")
		return ctx.Err()
	}
}

// QueueCount returns the number of live lanes.
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}

// QueuedCount returns the operations pending on the lane of uid, including the running one.
// QueuedCount 返回指定所有者待执行的操作数（含正在执行的）
func (m *Manager) QueuedCount(uid int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.lanes[uid]; ok {
		return l.pending
	}
	return 0
}

func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type Metrics struct {
	QueueCapacity int
	ActiveQueues  int
	IsClosed      bool
}

func (m *Manager) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Metrics{
		QueueCapacity: m.config.QueueCapacity,
		ActiveQueues:  len(m.lanes),
		IsClosed:      m.closed,
	}
}

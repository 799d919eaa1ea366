// Package safe_close coordinates the shutdown of long running goroutines.
// Package safe_close 协调长期运行 goroutine 的关闭
package safe_close

import "sync"

// SafeClose broadcasts a single close signal to every attached routine and
// waits for all of them to report done.
type SafeClose struct {
	once    sync.Once
	closeCh chan struct{}
	wg      sync.WaitGroup

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeCh: make(chan struct{})}
}

// Attach starts fn in a goroutine. fn must call done when it returns.
// Attach 启动一个 goroutine，fn 退出前必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeCh)
}

// SendCloseSignal closes the signal channel. The first non-nil err is kept
// and returned by WaitClosed.
// SendCloseSignal 发送关闭信号，只记录第一个非空错误
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if err != nil && s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.once.Do(func() { close(s.closeCh) })
}

// CloseSignal returns the channel closed by SendCloseSignal.
func (s *SafeClose) CloseSignal() <-chan struct{} {
	return s.closeCh
}

// WaitClosed blocks until every attached routine is done.
// WaitClosed 等待所有 goroutine 退出
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

package app

import (
	"sync"

	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// Peer is a live realtime connection as seen by the Hub.
type Peer interface {
	Owner() int64
	IsOpen() bool
	Send(payload []byte) error
}

// BroadcastScope selects which peers receive an owner's updates.
type BroadcastScope string

const (
	// ScopeOwner 只推送给同一用户的连接
	ScopeOwner BroadcastScope = "owner"
	// ScopeGlobal 推送给所有连接
	ScopeGlobal BroadcastScope = "global"
)

// ParseBroadcastScope maps a config value to a scope, defaulting to ScopeOwner.
func ParseBroadcastScope(s string) BroadcastScope {
	if BroadcastScope(s) == ScopeGlobal {
		return ScopeGlobal
	}
	return ScopeOwner
}

// Hub fans out realtime updates to joined peers.
// Hub 维护在线连接集合并负责广播
type Hub struct {
	mu     sync.RWMutex
	peers  map[Peer]struct{}
	scope  BroadcastScope
	logger *zap.Logger
}

func NewHub(scope BroadcastScope, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		peers:  make(map[Peer]struct{}),
		scope:  scope,
		logger: logger,
	}
}

func (h *Hub) Scope() BroadcastScope {
	return h.scope
}

func (h *Hub) Join(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; ok {
		return
	}
	h.peers[p] = struct{}{}
	hubPeers.Inc()
}

func (h *Hub) Leave(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	hubPeers.Dec()
}

// Count returns the number of joined peers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Broadcast serializes msg once and writes it to every open peer in scope
// of owner, the sender included. It returns the number of peers written.
// Closed peers and failed writes are skipped; peers leave only on close.
// Broadcast 只序列化一次，写给范围内所有在线连接（包括发送者），返回成功写入的连接数
func (h *Hub) Broadcast(owner int64, msg any) int {
	payload, err := sonic.Marshal(msg)
	if err != nil {
		h.logger.Error("hub broadcast marshal failed", zap.Int64(logger.FieldUID, owner), zap.Error(err))
		return 0
	}
	hubBroadcasts.Inc()

	h.mu.RLock()
	targets := make([]Peer, 0, len(h.peers))
	for p := range h.peers {
		if h.scope == ScopeOwner && p.Owner() != owner {
			continue
		}
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	sent := 0
	for _, p := range targets {
		if !p.IsOpen() {
			hubDeliveries.WithLabelValues("closed").Inc()
			continue
		}
		if err := p.Send(payload); err != nil {
			hubDeliveries.WithLabelValues("error").Inc()
			h.logger.Warn("hub broadcast send failed", zap.Int64(logger.FieldUID, p.Owner()), zap.Error(err))
			continue
		}
		hubDeliveries.WithLabelValues("ok").Inc()
		sent++
	}
	return sent
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second

	sessionClientKey = "client"
)

var (
	// ErrMalformedMessage 消息不是合法的 {type, payload} JSON
	ErrMalformedMessage = errors.New("malformed realtime message")
	// ErrUnknownMessageType 没有注册对应类型的处理器
	ErrUnknownMessageType = errors.New("unknown realtime message type")
	// ErrConnClosed 连接已关闭
	ErrConnClosed = errors.New("realtime connection closed")
)

// WebSocketMessage is the inbound envelope. Payload is kept raw so each
// handler decodes it exactly once into its own type.
type WebSocketMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeMessage parses the envelope of a text frame.
func DecodeMessage(data []byte) (*WebSocketMessage, error) {
	var msg WebSocketMessage
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}
	return &msg, nil
}

type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebsocketClient is one realtime connection. It implements Peer.
// WebsocketClient 表示一个实时连接
type WebsocketClient struct {
	conn   *gws.Conn
	logger *zap.Logger

	UID     int64
	User    *UserEntity
	TraceID string

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
	done   chan struct{}
}

var _ Peer = (*WebsocketClient)(nil)

func (c *WebsocketClient) Owner() int64 {
	return c.UID
}

func (c *WebsocketClient) IsOpen() bool {
	return c.conn != nil && !c.closed.Load()
}

// Send queues payload as a text frame without blocking the caller.
// Send 异步写入文本帧，不阻塞调用方
func (c *WebsocketClient) Send(payload []byte) error {
	if !c.IsOpen() {
		return ErrConnClosed
	}
	c.conn.WriteAsync(gws.OpcodeText, payload, func(err error) {
		if err != nil && c.logger != nil {
			c.logger.Warn("websocket async write failed", zap.Int64(logger.FieldUID, c.UID), zap.Error(err))
		}
	})
	return nil
}

// Context lives as long as the connection.
func (c *WebsocketClient) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *WebsocketClient) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				c.logger.Warn("websocket ping failed", zap.Int64(logger.FieldUID, c.UID), zap.Error(err))
				return
			}
		}
	}
}

func (c *WebsocketClient) markClosed() {
	if c.closed.Swap(true) {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	close(c.done)
}

// MessageHandler handles one message type.
type MessageHandler func(c *WebsocketClient, msg *WebSocketMessage) error

// UserVerifyFunc confirms that the token owner still exists before upgrade.
type UserVerifyFunc func(ctx context.Context, uid int64) error

// WebsocketServer upgrades authenticated requests, joins them to the Hub and
// routes inbound messages by type.
// WebsocketServer 负责升级连接、加入 Hub，并按类型分发消息
type WebsocketServer struct {
	handlers   map[string]MessageHandler
	userVerify UserVerifyFunc
	hub        *Hub
	logger     *zap.Logger
	config     WebsocketServerConfig
	up         *gws.Upgrader
	sf         singleflight.Group
}

func NewWebsocketServer(c WebsocketServerConfig, hub *Hub, logger *zap.Logger) *WebsocketServer {
	if c.PingInterval <= 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait <= 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WebsocketServer{
		handlers: make(map[string]MessageHandler),
		hub:      hub,
		logger:   logger,
		config:   c,
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

func (w *WebsocketServer) Use(action string, handler MessageHandler) {
	w.handlers[action] = handler
}

func (w *WebsocketServer) UseUserVerify(fn UserVerifyFunc) {
	w.userVerify = fn
}

func (w *WebsocketServer) Hub() *Hub {
	return w.hub
}

// Run returns the gin handler for the realtime endpoint. The auth middleware
// must have resolved the token owner already.
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUserEntity(c)
		if user == nil || user.UID == 0 {
			NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
			return
		}

		if w.userVerify != nil {
			// concurrent tabs of one user share a single lookup
			_, err, _ := w.sf.Do(strconv.FormatInt(user.UID, 10), func() (interface{}, error) {
				return nil, w.userVerify(c.Request.Context(), user.UID)
			})
			if err != nil {
				w.logger.Warn("websocket user verify failed", zap.Int64(logger.FieldUID, user.UID), zap.Error(err))
				NewResponse(c).ToResponse(code.ErrorInvalidUserAuthToken)
				return
			}
		}

		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		client := &WebsocketClient{
			conn:    socket,
			logger:  w.logger,
			UID:     user.UID,
			User:    user,
			TraceID: c.GetString("trace_id"),
			ctx:     ctx,
			cancel:  cancel,
			done:    make(chan struct{}),
		}
		socket.Session().Store(sessionClientKey, client)
		go socket.ReadLoop()
	}
}

func (w *WebsocketServer) client(conn *gws.Conn) *WebsocketClient {
	v, ok := conn.Session().Load(sessionClientKey)
	if !ok {
		return nil
	}
	c, _ := v.(*WebsocketClient)
	return c
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	c := w.client(conn)
	if c == nil {
		return
	}
	w.hub.Join(c)
	go c.pingLoop(w.config.PingInterval)
	w.logger.Info("websocket user enters", zap.Int64(logger.FieldUID, c.UID), zap.Int(logger.FieldPeers, w.hub.Count()))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	c := w.client(conn)
	if c == nil {
		return
	}
	c.markClosed()
	w.hub.Leave(c)
	w.logger.Info("websocket user leaves", zap.Int64(logger.FieldUID, c.UID), zap.Int(logger.FieldPeers, w.hub.Count()), zap.NamedError("reason", err))
}

func (w *WebsocketServer) OnPing(conn *gws.Conn, payload []byte) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = conn.WritePong(nil)
}

func (w *WebsocketServer) OnPong(conn *gws.Conn, payload []byte) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))

	if message.Opcode != gws.OpcodeText {
		return
	}
	c := w.client(conn)
	if c == nil {
		return
	}

	if err := w.Dispatch(c, message.Bytes()); err != nil {
		w.logger.Warn("websocket message dropped",
			zap.Int64(logger.FieldUID, c.UID),
			zap.String(logger.FieldTraceID, c.TraceID),
			zap.Error(err))
	}
}

// Dispatch decodes data and runs the handler registered for its type.
// Errors are returned to the caller; the connection is never closed here.
// Dispatch 解码消息并调用对应处理器，错误只返回不断开连接
func (w *WebsocketServer) Dispatch(c *WebsocketClient, data []byte) error {
	msg, err := DecodeMessage(data)
	if err != nil {
		wsMessages.WithLabelValues("", "malformed").Inc()
		return err
	}

	handler, ok := w.handlers[msg.Type]
	if !ok {
		wsMessages.WithLabelValues("", "unknown").Inc()
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	if err := handler(c, msg); err != nil {
		wsMessages.WithLabelValues(msg.Type, "error").Inc()
		return err
	}
	wsMessages.WithLabelValues(msg.Type, "ok").Inc()
	return nil
}

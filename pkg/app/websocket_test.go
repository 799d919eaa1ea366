package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lxzan/gws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, scope BroadcastScope) (*WebsocketServer, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(scope, nil)
	wss := NewWebsocketServer(WebsocketServerConfig{
		GWSOption: gws.ServerOption{CheckUtf8Enabled: true},
	}, hub, nil)
	wss.Use("ECHO", func(c *WebsocketClient, msg *WebSocketMessage) error {
		hub.Broadcast(c.UID, map[string]any{"type": "ECHO", "payload": msg.Payload})
		return nil
	})

	r := gin.New()
	r.GET("/realtime", func(c *gin.Context) {
		uid, _ := strconv.ParseInt(c.Query("uid"), 10, 64)
		if uid > 0 {
			c.Set(ContextUserKey, &UserEntity{UID: uid})
		}
	}, wss.Run())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return wss, srv
}

func dial(t *testing.T, srv *httptest.Server, uid int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime?uid=" + strconv.Itoa(uid)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebsocketServer_BroadcastReachesOwnerTabs(t *testing.T) {
	wss, srv := newTestServer(t, ScopeOwner)

	a := dial(t, srv, 1)
	b := dial(t, srv, 1)
	other := dial(t, srv, 2)

	require.Eventually(t, func() bool { return wss.Hub().Count() == 3 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"type":"ECHO","payload":{"v":1}}`)))

	for _, conn := range []*websocket.Conn{a, b} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"ECHO","payload":{"v":1}}`, string(data))
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "another owner must not receive the update")
}

func TestWebsocketServer_HandlesFramesInArrivalOrder(t *testing.T) {
	wss, srv := newTestServer(t, ScopeOwner)

	var mu sync.Mutex
	var seen []int
	wss.Use("SET", func(c *WebsocketClient, msg *WebSocketMessage) error {
		v, err := strconv.Atoi(string(msg.Payload))
		if err != nil {
			return err
		}
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
		return nil
	})

	conn := dial(t, srv, 1)
	const frames = 500
	for i := 1; i <= frames; i++ {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"SET","payload":`+strconv.Itoa(i)+`}`)))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == frames
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for i, v := range seen {
		require.Equal(t, i+1, v)
	}
}

func TestWebsocketServer_LeaveOnClose(t *testing.T) {
	wss, srv := newTestServer(t, ScopeOwner)

	conn := dial(t, srv, 1)
	require.Eventually(t, func() bool { return wss.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	_ = conn.Close()
	assert.Eventually(t, func() bool { return wss.Hub().Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebsocketServer_RejectsAnonymous(t *testing.T) {
	_, srv := newTestServer(t, ScopeOwner)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDispatch_Errors(t *testing.T) {
	wss, _ := newTestServer(t, ScopeOwner)
	c := &WebsocketClient{UID: 1}

	err := wss.Dispatch(c, []byte(`not json`))
	assert.True(t, errors.Is(err, ErrMalformedMessage))

	err = wss.Dispatch(c, []byte(`{"payload":{}}`))
	assert.True(t, errors.Is(err, ErrMalformedMessage))

	err = wss.Dispatch(c, []byte(`{"type":"FOO"}`))
	assert.True(t, errors.Is(err, ErrUnknownMessageType))
}

func TestWebsocketClient_SendWhenClosed(t *testing.T) {
	c := &WebsocketClient{UID: 1}
	assert.False(t, c.IsOpen())
	assert.ErrorIs(t, c.Send([]byte("x")), ErrConnClosed)
	assert.NotNil(t, c.Context())
}

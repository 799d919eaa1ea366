package websocket_router

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"
	"github.com/haierkeys/fast-note-board/internal/dto"
	"github.com/haierkeys/fast-note-board/internal/service"
	pkgapp "github.com/haierkeys/fast-note-board/pkg/app"

	"github.com/lxzan/gws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type positionCall struct {
	uid    int64
	noteID string
	order  int
	x, y   float64
}

type fakePositions struct {
	mu      sync.Mutex
	orders  []positionCall
	moves   []positionCall
	failure error
}

func (f *fakePositions) Get(ctx context.Context, uid int64, noteID string) (domain.Position, error) {
	return domain.Position{}, nil
}

func (f *fakePositions) SetCoordinates(ctx context.Context, uid int64, noteID string, x, y float64, then service.OnMoved) (*domain.MoveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return nil, f.failure
	}
	f.moves = append(f.moves, positionCall{uid: uid, noteID: noteID, x: x, y: y})
	result := domain.MoveResult{NoteID: noteID, X: x, Y: y, LastMovedAt: 1700000000}
	if then != nil {
		then(result)
	}
	return &result, nil
}

func (f *fakePositions) SetOrder(ctx context.Context, uid int64, noteID string, order int, then service.OnReordered) (*domain.ReorderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return nil, f.failure
	}
	f.orders = append(f.orders, positionCall{uid: uid, noteID: noteID, order: order})
	result := domain.ReorderResult{NoteID: noteID, Order: order, OldOrder: 0}
	if then != nil {
		then(result)
	}
	return &result, nil
}

type recordingHub struct {
	mu   sync.Mutex
	sent []any
}

func (h *recordingHub) Broadcast(owner int64, msg any) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, msg)
	return 1
}

type inlinePool struct{}

func (inlinePool) Submit(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newTestPositionHandler() (*PositionHandler, *fakePositions, *recordingHub) {
	positions := &fakePositions{}
	hub := &recordingHub{}
	return newPositionHandler(positions, hub, inlinePool{}, zap.NewNop()), positions, hub
}

func message(payload string) *pkgapp.WebSocketMessage {
	return &pkgapp.WebSocketMessage{Type: dto.UpdateNotePosition, Payload: json.RawMessage(payload)}
}

func TestUpdatePositionReorderBroadcasts(t *testing.T) {
	h, positions, hub := newTestPositionHandler()
	client := &pkgapp.WebsocketClient{UID: 7}

	require.NoError(t, h.UpdatePosition(client, message(`{"noteId":"n1","order":2}`)))

	require.Len(t, positions.orders, 1)
	assert.Equal(t, positionCall{uid: 7, noteID: "n1", order: 2}, positions.orders[0])
	require.Len(t, hub.sent, 1)
	assert.Equal(t, dto.OutboundMessage{
		Type:    dto.UpdateNotePosition,
		Payload: dto.ReorderPayload{NoteID: "n1", Order: 2, OldOrder: 0},
	}, hub.sent[0])
}

func TestUpdatePositionMoveBroadcasts(t *testing.T) {
	h, positions, hub := newTestPositionHandler()
	client := &pkgapp.WebsocketClient{UID: 7}

	require.NoError(t, h.UpdatePosition(client, message(`{"noteId":"n1","x":12.5,"y":-3}`)))

	require.Len(t, positions.moves, 1)
	assert.Empty(t, positions.orders)
	require.Len(t, hub.sent, 1)
	assert.Equal(t, dto.OutboundMessage{
		Type:    dto.UpdateNotePosition,
		Payload: dto.MovePayload{NoteID: "n1", X: 12.5, Y: -3, LastMovedAt: 1700000000},
	}, hub.sent[0])
}

func TestUpdatePositionInvalidPayloadDropped(t *testing.T) {
	cases := map[string]string{
		"both shapes":   `{"noteId":"n1","x":1,"y":2,"order":0}`,
		"no shape":      `{"noteId":"n1"}`,
		"no note":       `{"order":1}`,
		"negative":      `{"noteId":"n1","order":-1}`,
		"not an object": `[1,2]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			h, positions, hub := newTestPositionHandler()
			err := h.UpdatePosition(&pkgapp.WebsocketClient{UID: 1}, message(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrProtocol), err.Error())
			assert.Empty(t, positions.orders)
			assert.Empty(t, positions.moves)
			assert.Empty(t, hub.sent)
		})
	}
}

func TestUpdatePositionServiceErrorNotBroadcast(t *testing.T) {
	h, positions, hub := newTestPositionHandler()
	positions.failure = domain.Forbidden("SetOrder", "note")

	err := h.UpdatePosition(&pkgapp.WebsocketClient{UID: 1}, message(`{"noteId":"n1","order":0}`))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, hub.sent)
}

func TestDispatchUnknownTypeTouchesNothing(t *testing.T) {
	h, positions, hub := newTestPositionHandler()
	wss := pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{GWSOption: gws.ServerOption{}}, pkgapp.NewHub(pkgapp.ScopeOwner, nil), nil)
	wss.Use(dto.UpdateNotePosition, h.UpdatePosition)

	err := wss.Dispatch(&pkgapp.WebsocketClient{UID: 1}, []byte(`{"type":"FOO"}`))
	assert.ErrorIs(t, err, pkgapp.ErrUnknownMessageType)

	err = wss.Dispatch(&pkgapp.WebsocketClient{UID: 1}, []byte(`{"type":`))
	assert.ErrorIs(t, err, pkgapp.ErrMalformedMessage)

	assert.Empty(t, positions.orders)
	assert.Empty(t, positions.moves)
	assert.Empty(t, hub.sent)
}

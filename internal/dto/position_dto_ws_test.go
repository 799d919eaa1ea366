package dto

import (
	"encoding/json"
	"testing"

	"github.com/haierkeys/fast-note-board/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePositionCommand(t *testing.T) {
	cmd, err := DecodePositionCommand(json.RawMessage(`{"noteId":"n1","x":10.5,"y":-2}`))
	require.NoError(t, err)
	assert.Equal(t, &PositionCommand{Kind: CoordinateMove, NoteID: "n1", X: 10.5, Y: -2}, cmd)

	cmd, err = DecodePositionCommand(json.RawMessage(`{"noteId":"n1","order":3}`))
	require.NoError(t, err)
	assert.Equal(t, &PositionCommand{Kind: ReorderMove, NoteID: "n1", Order: 3}, cmd)

	cmd, err = DecodePositionCommand(json.RawMessage(`{"noteId":"n1","order":0}`))
	require.NoError(t, err)
	assert.Equal(t, ReorderMove, cmd.Kind)
}

func TestDecodePositionCommandRejects(t *testing.T) {
	validation := map[string]string{
		"both shapes":    `{"noteId":"n1","x":1,"y":2,"order":1}`,
		"neither shape":  `{"noteId":"n1"}`,
		"missing noteId": `{"order":1}`,
		"empty noteId":   `{"noteId":"","order":1}`,
		"negative order": `{"noteId":"n1","order":-1}`,
		"fractional":     `{"noteId":"n1","order":1.5}`,
		"x without y":    `{"noteId":"n1","x":1}`,
		"empty payload":  ``,
		"null payload":   `null`,
	}
	for name, raw := range validation {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePositionCommand(json.RawMessage(raw))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	protocol := map[string]string{
		"not an object": `"n1"`,
		"broken json":   `{"noteId":`,
		"wrong type":    `{"noteId":5,"order":1}`,
	}
	for name, raw := range protocol {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePositionCommand(json.RawMessage(raw))
			assert.ErrorIs(t, err, domain.ErrProtocol)
		})
	}
}

func TestOutboundMessages(t *testing.T) {
	b, err := sonic.Marshal(NewReorderMessage(domain.ReorderResult{NoteID: "n1", Order: 2, OldOrder: 5}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"UPDATE_NOTE_POSITION","payload":{"noteId":"n1","order":2,"oldOrder":5}}`, string(b))

	b, err = sonic.Marshal(NewMoveMessage(domain.MoveResult{NoteID: "n1", X: 1.5, Y: 2, LastMovedAt: 1700000000}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"UPDATE_NOTE_POSITION","payload":{"noteId":"n1","x":1.5,"y":2,"lastMovedAt":1700000000}}`, string(b))
}

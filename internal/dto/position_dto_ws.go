package dto

import (
	"encoding/json"
	"math"

	"github.com/haierkeys/fast-note-board/internal/domain"

	"github.com/bytedance/sonic"
)

// PositionKind tells which shape an UPDATE_NOTE_POSITION payload had.
type PositionKind int

const (
	CoordinateMove PositionKind = iota + 1
	ReorderMove
)

func (k PositionKind) String() string {
	switch k {
	case CoordinateMove:
		return "move"
	case ReorderMove:
		return "reorder"
	}
	return "unknown"
}

// PositionCommand is a decoded UPDATE_NOTE_POSITION payload. X and Y are set
// for CoordinateMove, Order for ReorderMove.
// PositionCommand 解码后的位置变更命令
type PositionCommand struct {
	Kind   PositionKind
	NoteID string
	X      float64
	Y      float64
	Order  int
}

// positionPayload keeps absent fields nil so the shape can be told apart.
type positionPayload struct {
	NoteID *string  `json:"noteId"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Order  *float64 `json:"order"`
}

// DecodePositionCommand decodes raw into a command. Undecodable JSON is a
// Protocol error, a decodable payload of the wrong shape is a Validation error.
// DecodePositionCommand 解码位置变更命令
func DecodePositionCommand(raw json.RawMessage) (*PositionCommand, error) {
	const op = "DecodePositionCommand"

	var p positionPayload
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &p); err != nil {
			return nil, domain.Protocol(op, err)
		}
	}

	if p.NoteID == nil || *p.NoteID == "" {
		return nil, domain.Validation(op, "noteId is required")
	}

	hasCoords := p.X != nil || p.Y != nil
	hasOrder := p.Order != nil

	switch {
	case hasCoords && hasOrder:
		return nil, domain.Validation(op, "payload carries both coordinates and order")
	case hasOrder:
		o := *p.Order
		if math.IsNaN(o) || math.IsInf(o, 0) || o != math.Trunc(o) {
			return nil, domain.Validation(op, "order must be an integer")
		}
		if o < 0 || o > math.MaxInt32 {
			return nil, domain.Validation(op, "order %v out of range", o)
		}
		return &PositionCommand{Kind: ReorderMove, NoteID: *p.NoteID, Order: int(o)}, nil
	case hasCoords:
		if p.X == nil || p.Y == nil {
			return nil, domain.Validation(op, "coordinate move needs both x and y")
		}
		if !finite(*p.X) || !finite(*p.Y) {
			return nil, domain.Validation(op, "coordinates must be finite")
		}
		return &PositionCommand{Kind: CoordinateMove, NoteID: *p.NoteID, X: *p.X, Y: *p.Y}, nil
	}
	return nil, domain.Validation(op, "payload carries neither coordinates nor order")
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ReorderPayload 排序变更推送内容
type ReorderPayload struct {
	NoteID   string `json:"noteId"`
	Order    int    `json:"order"`
	OldOrder int    `json:"oldOrder"`
}

// MovePayload 坐标变更推送内容
type MovePayload struct {
	NoteID      string  `json:"noteId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	LastMovedAt int64   `json:"lastMovedAt"`
}

func NewReorderMessage(r domain.ReorderResult) OutboundMessage {
	return OutboundMessage{
		Type:    UpdateNotePosition,
		Payload: ReorderPayload{NoteID: r.NoteID, Order: r.Order, OldOrder: r.OldOrder},
	}
}

func NewMoveMessage(r domain.MoveResult) OutboundMessage {
	return OutboundMessage{
		Type:    UpdateNotePosition,
		Payload: MovePayload{NoteID: r.NoteID, X: r.X, Y: r.Y, LastMovedAt: r.LastMovedAt},
	}
}

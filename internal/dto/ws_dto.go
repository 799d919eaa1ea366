package dto

// WebSocketAction WebSocket text message type
// WebSocket 文本消息类型
type WebSocketAction = string

const (
	// UpdateNotePosition carries a coordinate move or a reorder, inbound and outbound.
	// UpdateNotePosition 笔记位置变更（坐标或排序）
	UpdateNotePosition WebSocketAction = "UPDATE_NOTE_POSITION"
)

// OutboundMessage is the envelope every realtime notification is sent in.
// OutboundMessage 服务端推送消息
type OutboundMessage struct {
	Type    WebSocketAction `json:"type"`
	Payload any             `json:"payload"`
}

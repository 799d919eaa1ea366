// Package domain 定义领域模型和接口
package domain

// Position is where a note sits on the board. Order values of one owner
// always form the dense range 0..N-1.
// Position 笔记在看板上的位置，同一用户的 Order 始终为 0..N-1 的连续排列
type Position struct {
	X           float64
	Y           float64
	Order       int
	LastMovedAt int64 // unix seconds of the last coordinate change
}

// Note 笔记领域模型
type Note struct {
	ID        string
	UID       int64
	TagID     string
	Title     string
	Content   string
	Position  Position
	CreatedAt int64
	UpdatedAt int64
}

// OwnedBy 判断笔记是否属于 uid
func (n *Note) OwnedBy(uid int64) bool {
	return n.UID == uid
}

// ReorderResult is the applied outcome of an order change.
type ReorderResult struct {
	NoteID   string
	Order    int
	OldOrder int
}

// MoveResult is the applied outcome of a coordinate change.
type MoveResult struct {
	NoteID      string
	X           float64
	Y           float64
	LastMovedAt int64
}

// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// Create inserts note with the given position. The caller chooses the order.
	Create(ctx context.Context, note *Note) (*Note, error)

	// FindByID 根据ID获取笔记（不校验所有者）
	FindByID(ctx context.Context, noteID string) (*Note, error)

	// CountByOwner 统计用户笔记数量
	CountByOwner(ctx context.Context, uid int64) (int, error)

	// List 按 order 升序分页获取笔记
	List(ctx context.Context, uid int64, page, pageSize int) ([]*Note, error)

	// ListCount 获取笔记数量
	ListCount(ctx context.Context, uid int64) (int64, error)

	// Update writes title, content and tag of note. Position is never touched.
	Update(ctx context.Context, note *Note) (*Note, error)

	// Delete removes the note and closes the order gap it leaves.
	Delete(ctx context.Context, uid int64, noteID string) error

	// DeleteByTag removes every note of uid using tagID and re-densifies the
	// remaining orders. It returns the number of deleted notes.
	DeleteByTag(ctx context.Context, uid int64, tagID string) (int64, error)

	// Densify rewrites the orders of uid to 0..N-1 keeping their relative order.
	Densify(ctx context.Context, uid int64) error

	// UpdateCoordinates sets x, y and lastMovedAt of one note.
	UpdateCoordinates(ctx context.Context, uid int64, noteID string, x, y float64, movedAt int64) error

	// ApplyReorder shifts siblings by plan and writes the moved note in one transaction.
	ApplyReorder(ctx context.Context, uid int64, noteID string, plan ShiftPlan) error
}

// TagRepository 标签仓储接口
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) (*Tag, error)
	FindByID(ctx context.Context, tagID string) (*Tag, error)
	// FindByCode looks the code up among system tags and the tags of uid.
	FindByCode(ctx context.Context, uid int64, code string) (*Tag, error)
	// ListVisible returns system tags followed by the tags of uid.
	ListVisible(ctx context.Context, uid int64) ([]*Tag, error)
	Update(ctx context.Context, tag *Tag) (*Tag, error)
	Delete(ctx context.Context, uid int64, tagID string) error
	// EnsureSystem inserts the system tags that do not exist yet.
	EnsureSystem(ctx context.Context, tags []*Tag) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByUID(ctx context.Context, uid int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdatePassword(ctx context.Context, password string, uid int64) error
	UpdateProfile(ctx context.Context, uid int64, username, avatar string) error
	SetResetToken(ctx context.Context, uid int64, token string, expiresAt int64) error
	// ClearExpiredResetTokens removes reset tokens that expired before now.
	ClearExpiredResetTokens(ctx context.Context, now int64) (int64, error)
}

// SessionStore tracks revoked tokens by their session id.
// SessionStore 记录已注销的 Token
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl int64) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	Close() error
}

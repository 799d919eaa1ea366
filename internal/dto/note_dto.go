// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// NoteCreateRequest Request parameters for creating a note
// 创建笔记请求参数，位置由服务端分配
type NoteCreateRequest struct {
	Title   string `json:"title" form:"title" binding:"required,max=255"`
	Content string `json:"content" form:"content"`
	TagID   string `json:"tagId" form:"tagId" binding:"required"`
}

// NoteUpdateRequest Request parameters for updating a note. Empty fields are kept,
// at least one must be set. Position fields are not accepted.
// 更新笔记请求参数，空字段保持不变，至少提供一项；不接受位置字段
type NoteUpdateRequest struct {
	Title   string `json:"title" form:"title" binding:"omitempty,max=255"`
	Content string `json:"content" form:"content"`
	TagID   string `json:"tagId" form:"tagId"`
}

// Empty reports whether no field is set.
func (r *NoteUpdateRequest) Empty() bool {
	return r.Title == "" && r.Content == "" && r.TagID == ""
}

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID          string  `json:"id"`
	TagID       string  `json:"tagId"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Order       int     `json:"order"`
	LastMovedAt int64   `json:"lastMovedAt"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// TagCreateRequest Request parameters for creating a tag
// 创建标签请求参数
type TagCreateRequest struct {
	Name  string `json:"name" form:"name" binding:"required,max=64"`
	Color string `json:"color" form:"color" binding:"required,tagcolor"`
}

// TagUpdateRequest Request parameters for patching a tag, empty fields are kept
// 更新标签请求参数，空字段保持不变
type TagUpdateRequest struct {
	Name  string `json:"name" form:"name" binding:"omitempty,max=64"`
	Color string `json:"color" form:"color" binding:"omitempty,tagcolor"`
}

// TagDTO Tag data transfer object
// TagDTO 标签数据传输对象
type TagDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Code      string `json:"code"`
	Color     string `json:"color"`
	System    bool   `json:"system"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// TagDeleteDTO reports the notes removed with a tag.
type TagDeleteDTO struct {
	ID           string `json:"id"`
	DeletedNotes int64  `json:"deletedNotes"`
}

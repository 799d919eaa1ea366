package domain

// TagColor 标签颜色
type TagColor string

const (
	TagColorRed    TagColor = "red"
	TagColorYellow TagColor = "yellow"
	TagColorGreen  TagColor = "green"
	TagColorBlue   TagColor = "blue"
)

// Tag 标签领域模型，UID 为 0 表示系统标签
type Tag struct {
	ID        string
	UID       int64
	Label     string
	Code      string
	Color     TagColor
	CreatedAt int64
	UpdatedAt int64
}

// IsSystem reports whether the tag is shared by every user and read-only.
func (t *Tag) IsSystem() bool {
	return t.UID == 0
}

// VisibleTo reports whether uid may attach the tag to a note.
func (t *Tag) VisibleTo(uid int64) bool {
	return t.IsSystem() || t.UID == uid
}

package model

// Note mapped from table <note>
type Note struct {
	ID          string  `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	UID         int64   `gorm:"column:uid;not null;index:idx_note_uid_order,priority:1" json:"uid" form:"uid"`
	TagID       string  `gorm:"column:tag_id;type:varchar(36);not null;default:'';index:idx_note_tag" json:"tagId" form:"tagId"`
	Title       string  `gorm:"column:title;type:varchar(255);not null;default:''" json:"title" form:"title"`
	Content     string  `gorm:"column:content;type:text" json:"content" form:"content"`
	PosX        float64 `gorm:"column:pos_x;not null;default:0" json:"x" form:"x"`
	PosY        float64 `gorm:"column:pos_y;not null;default:0" json:"y" form:"y"`
	SortOrder   int     `gorm:"column:sort_order;not null;default:0;index:idx_note_uid_order,priority:2" json:"order" form:"order"`
	LastMovedAt int64   `gorm:"column:last_moved_at;not null;default:0" json:"lastMovedAt" form:"lastMovedAt"`
	CreatedAt   int64   `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt   int64   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

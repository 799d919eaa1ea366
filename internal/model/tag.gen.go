package model

// Tag mapped from table <tag>
type Tag struct {
	ID        string `gorm:"column:id;type:varchar(36);primaryKey" json:"id" form:"id"`
	UID       int64  `gorm:"column:uid;not null;default:0;uniqueIndex:idx_tag_uid_code,priority:1" json:"uid" form:"uid"`
	Label     string `gorm:"column:label;type:varchar(64);not null" json:"label" form:"label"`
	Code      string `gorm:"column:code;type:varchar(64);not null;uniqueIndex:idx_tag_uid_code,priority:2" json:"code" form:"code"`
	Color     string `gorm:"column:color;type:varchar(16);not null" json:"color" form:"color"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

package upgrade

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/model"

	"gorm.io/gorm"
)

// OrderDensifyMigrate 将每个用户的笔记排序重排为 0..N-1
// 旧数据中的空洞或重复按 (sort_order, created_at, id) 的顺序消除
type OrderDensifyMigrate struct{}

func (m *OrderDensifyMigrate) Version() string {
	return "0.3.0"
}

func (m *OrderDensifyMigrate) Description() string {
	return "Renumber note orders into a dense 0..N-1 sequence per owner"
}

func (m *OrderDensifyMigrate) Up(ctx context.Context, db *gorm.DB) error {
	var uids []int64
	if err := db.WithContext(ctx).Model(&model.Note{}).Distinct("uid").Pluck("uid", &uids).Error; err != nil {
		return err
	}

	for _, uid := range uids {
		var notes []model.Note
		err := db.WithContext(ctx).
			Select("id", "sort_order").
			Where("uid = ?", uid).
			Order("sort_order ASC").Order("created_at ASC").Order("id ASC").
			Find(&notes).Error
		if err != nil {
			return err
		}
		for i, n := range notes {
			if n.SortOrder == i {
				continue
			}
			err := db.WithContext(ctx).Model(&model.Note{}).
				Where("id = ?", n.ID).
				UpdateColumn("sort_order", i).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

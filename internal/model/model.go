package model

import (
	"gorm.io/gorm"
)

// AutoMigrate migrates the table registered under key.
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "Note":
		return db.AutoMigrate(&Note{})
	case "Tag":
		return db.AutoMigrate(&Tag{})
	case "User":
		return db.AutoMigrate(&User{})
	}
	return nil
}

// AutoMigrateAll migrates every table.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Tag{}, &Note{})
}

package model

import "gorm.io/gorm"

// AutoMigrate 创建或更新全部表结构。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &FriendLink{}, &Message{})
}

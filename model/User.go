package model

import "time"

// User 注册用户。注册后进程内不删除。
type User struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement;comment:用户id"`
	Email        string    `gorm:"column:email;type:varchar(120);not null;uniqueIndex:uidx_email;comment:邮箱"`
	Username     string    `gorm:"column:username;type:varchar(80);not null;uniqueIndex:uidx_username;comment:用户名"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(128);not null;comment:bcrypt 密码哈希"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

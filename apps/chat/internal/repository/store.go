package repository

import (
	"DMChat/config"
	"DMChat/model"
	"DMChat/pkg/database"
	"fmt"

	"gorm.io/gorm"
)

// Store 聚合三类存储。同一进程只使用一种实现，启动时按配置选定，不混用。
type Store struct {
	Users    IUserRepository
	Links    ILinkRepository
	Messages IMessageRepository

	db *gorm.DB
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *Store {
	return &Store{
		Users:    NewMemoryUserRepository(),
		Links:    NewMemoryLinkRepository(),
		Messages: NewMemoryMessageRepository(),
	}
}

// NewGormStore 基于已打开的 gorm 连接创建持久化存储
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Links:    NewLinkRepository(db),
		Messages: NewMessageRepository(db),
		db:       db,
	}
}

// OpenStore 按 cfg.Mode 打开存储，sqlite/mysql 模式下按需执行 AutoMigrate
func OpenStore(cfg config.StoreConfig) (*Store, error) {
	if cfg.Mode == config.StoreModeMemory {
		return NewMemoryStore(), nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Mode, err)
	}
	if cfg.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate %s store: %w", cfg.Mode, err)
		}
	}
	return NewGormStore(db), nil
}

// Close 释放数据库连接，内存存储为空操作
func (s *Store) Close() error {
	return database.Close(s.db)
}

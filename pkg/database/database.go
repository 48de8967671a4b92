// Package database 按存储模式打开 gorm 连接。
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"DMChat/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Open 根据 cfg.Mode 返回 *gorm.DB。memory 模式不使用数据库，调用方不应走到这里。
func Open(cfg config.StoreConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         NewGormLogger(cfg.SlowThreshold),
		TranslateError: true,
	}

	switch cfg.Mode {
	case config.StoreModeSQLite:
		return openSQLite(cfg, gormCfg)
	case config.StoreModeMySQL:
		return openMySQL(cfg, gormCfg)
	default:
		return nil, fmt.Errorf("database: unsupported mode %q", cfg.Mode)
	}
}

func openSQLite(cfg config.StoreConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		return nil, fmt.Errorf("database: sqlite path is empty")
	}
	// 内存库与 file: URI 不需要建目录
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite 单写者，串行化连接避免 database is locked
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func openMySQL(cfg config.StoreConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	if cfg.MySQLDSN == "" {
		return nil, fmt.Errorf("database: mysql dsn is empty")
	}
	db, err := gorm.Open(mysql.Open(cfg.MySQLDSN), gormCfg)
	if err != nil {
		return nil, err
	}

	if len(cfg.MySQLReplicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.MySQLReplicas))
		for _, dsn := range cfg.MySQLReplicas {
			replicas = append(replicas, mysql.Open(dsn))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(cfg.MaxOpenConns).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetConnMaxLifetime(cfg.ConnMaxLife)
		if err := db.Use(resolver); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLife)
	return db, nil
}

// Close 关闭底层连接池。
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package config

import "time"

const (
	// StoreModeMemory 进程内存储，重启即丢失
	StoreModeMemory = "memory"
	// StoreModeSQLite 本地 SQLite 文件
	StoreModeSQLite = "sqlite"
	// StoreModeMySQL MySQL（可配置只读副本）
	StoreModeMySQL = "mysql"
)

// StoreConfig 存储后端配置。
// 进程启动时按 Mode 选择唯一一种实现，运行期不会混用。
type StoreConfig struct {
	Mode          string        `json:"mode" yaml:"mode" mapstructure:"mode"`
	SQLitePath    string        `json:"sqlitePath" yaml:"sqlitePath" mapstructure:"sqlite_path"`
	MySQLDSN      string        `json:"mysqlDsn" yaml:"mysqlDsn" mapstructure:"mysql_dsn"`
	MySQLReplicas []string      `json:"mysqlReplicas" yaml:"mysqlReplicas" mapstructure:"mysql_replicas"` // 只读副本 DSN，历史查询走副本
	MaxOpenConns  int           `json:"maxOpenConns" yaml:"maxOpenConns" mapstructure:"max_open_conns"`
	MaxIdleConns  int           `json:"maxIdleConns" yaml:"maxIdleConns" mapstructure:"max_idle_conns"`
	ConnMaxLife   time.Duration `json:"connMaxLife" yaml:"connMaxLife" mapstructure:"conn_max_life"`
	SlowThreshold time.Duration `json:"slowThreshold" yaml:"slowThreshold" mapstructure:"slow_threshold"`
	AutoMigrate   bool          `json:"autoMigrate" yaml:"autoMigrate" mapstructure:"auto_migrate"`
}

// DefaultStoreConfig 本地开发默认使用 SQLite 文件。
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Mode:          StoreModeSQLite,
		SQLitePath:    "./data/dmchat.db",
		MaxOpenConns:  50,
		MaxIdleConns:  10,
		ConnMaxLife:   time.Hour,
		SlowThreshold: 200 * time.Millisecond,
		AutoMigrate:   true,
	}
}

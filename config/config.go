package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config 聚合进程启动所需的全部配置。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Store    StoreConfig    `mapstructure:"store"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Async    AsyncConfig    `mapstructure:"async"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Delivery DeliveryConfig `mapstructure:"delivery"`
}

// EnvPrefix 环境变量前缀，如 DMCHAT_STORE_MODE=memory
const EnvPrefix = "DMCHAT"

// Default 返回全部默认配置。
func Default() *Config {
	return &Config{
		Server:   DefaultServerConfig(),
		Logger:   DefaultLoggerConfig(),
		Store:    DefaultStoreConfig(),
		Redis:    DefaultRedisConfig(),
		Async:    DefaultAsyncConfig(),
		JWT:      DefaultJWTConfig(),
		Delivery: DefaultDeliveryConfig(),
	}
}

// Load 读取配置：默认值 <- YAML 文件 <- 环境变量。
// path 为空时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults 把默认值逐项注册到 viper。
// AutomaticEnv 只对注册过的 key 生效，因此所有 key 都必须在这里出现。
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.gin_mode", d.Server.GinMode)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.rate_limit_rps", d.Server.RateLimitRPS)
	v.SetDefault("server.rate_limit_burst", d.Server.RateLimitBurst)

	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.encoding", d.Logger.Encoding)
	v.SetDefault("logger.enable_color", d.Logger.EnableColor)
	v.SetDefault("logger.development", d.Logger.Development)
	v.SetDefault("logger.output_paths", d.Logger.OutputPaths)
	v.SetDefault("logger.error_output_paths", d.Logger.ErrorOutputPaths)

	v.SetDefault("store.mode", d.Store.Mode)
	v.SetDefault("store.sqlite_path", d.Store.SQLitePath)
	v.SetDefault("store.mysql_dsn", d.Store.MySQLDSN)
	v.SetDefault("store.mysql_replicas", d.Store.MySQLReplicas)
	v.SetDefault("store.max_open_conns", d.Store.MaxOpenConns)
	v.SetDefault("store.max_idle_conns", d.Store.MaxIdleConns)
	v.SetDefault("store.conn_max_life", d.Store.ConnMaxLife)
	v.SetDefault("store.slow_threshold", d.Store.SlowThreshold)
	v.SetDefault("store.auto_migrate", d.Store.AutoMigrate)

	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", d.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", d.Redis.WriteTimeout)

	v.SetDefault("async.pool_size", d.Async.PoolSize)
	v.SetDefault("async.max_blocking_tasks", d.Async.MaxBlockingTasks)
	v.SetDefault("async.expiry_duration", d.Async.ExpiryDuration)
	v.SetDefault("async.nonblocking", d.Async.Nonblocking)
	v.SetDefault("async.release_timeout", d.Async.ReleaseTimeout)

	v.SetDefault("jwt.secret", d.JWT.Secret)
	v.SetDefault("jwt.issuer", d.JWT.Issuer)
	v.SetDefault("jwt.ttl", d.JWT.TTL)

	v.SetDefault("delivery.require_friendship", d.Delivery.RequireFriendship)
	v.SetDefault("delivery.max_content_length", d.Delivery.MaxContentLength)
	v.SetDefault("delivery.user_cache_size", d.Delivery.UserCacheSize)
	v.SetDefault("delivery.send_rate", d.Delivery.SendRate)
	v.SetDefault("delivery.send_burst", d.Delivery.SendBurst)
	v.SetDefault("delivery.breaker_max_failures", d.Delivery.BreakerMaxFailures)
	v.SetDefault("delivery.breaker_open_timeout", d.Delivery.BreakerOpenTimeout)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
	assert.Equal(t, StoreModeSQLite, cfg.Store.Mode)
	assert.True(t, cfg.Delivery.RequireFriendship)
	assert.Equal(t, 72*time.Hour, cfg.JWT.TTL)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dmchat.yaml")
	content := `
server:
  addr: ":9000"
store:
  mode: memory
delivery:
  require_friendship: false
  breaker_open_timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, StoreModeMemory, cfg.Store.Mode)
	assert.False(t, cfg.Delivery.RequireFriendship)
	assert.Equal(t, 3*time.Second, cfg.Delivery.BreakerOpenTimeout)
	// 未出现在文件里的字段保持默认
	assert.Equal(t, Default().Delivery.MaxContentLength, cfg.Delivery.MaxContentLength)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("DMCHAT_STORE_MODE", "mysql")
	t.Setenv("DMCHAT_REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoreModeMySQL, cfg.Store.Mode)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

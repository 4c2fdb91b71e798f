package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/idgen/snowflake"
	"katydid-backoffice-forms/pkg/store"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, store.DialectSQLite, cfg.Database.Dialect)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backoffice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
database:
  dialect: postgres
  dsn: "host=db user=bo dbname=bo"
redis:
  enabled: true
  addr: "redis:6379"
  ttl: 1m
forms:
  timezone: Asia/Shanghai
idgen:
  worker_id: 3
`), 0o600))
	t.Setenv("BACKOFFICE_SERVER_ADDR", ":7070")
	t.Setenv("BACKOFFICE_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr, "环境变量优先")
	assert.Equal(t, store.DialectPostgres, cfg.Database.Dialect)
	assert.Equal(t, "host=db user=bo dbname=bo", cfg.Database.DSN)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, int64(3), cfg.IDGen.WorkerID)

	loc, err := cfg.Forms.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Mode: "release"},
			Database: store.Config{Dialect: store.DialectSQLite, DSN: "file::memory:"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"合法配置", func(*Config) {}, ""},
		{"未知方言", func(c *Config) { c.Database.Dialect = "oracle" }, "database.dialect"},
		{"缺少DSN", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"未知运行模式", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"启用Redis缺少地址", func(c *Config) { c.Redis.Enabled = true }, "redis.addr"},
		{"未知时区", func(c *Config) { c.Forms.Timezone = "Mars/Base" }, "forms.timezone"},
		{"机器ID越界", func(c *Config) { c.IDGen.WorkerID = snowflake.MaxWorkerID + 1 }, "idgen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

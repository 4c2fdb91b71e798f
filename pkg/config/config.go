// Package config 服务配置：YAML 文件 + BACKOFFICE_ 前缀的环境变量覆盖
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"katydid-backoffice-forms/pkg/cache"
	"katydid-backoffice-forms/pkg/idgen/snowflake"
	"katydid-backoffice-forms/pkg/logger"
	"katydid-backoffice-forms/pkg/store"
)

// EnvPrefix 环境变量前缀，如 BACKOFFICE_DATABASE_DSN
const EnvPrefix = "BACKOFFICE"

// Config 服务配置
type Config struct {
	Server   ServerConfig     `mapstructure:"server"`
	Log      logger.Config    `mapstructure:"log"`
	Database store.Config     `mapstructure:"database"`
	Redis    cache.Config     `mapstructure:"redis"`
	Auth     AuthConfig       `mapstructure:"auth"`
	Forms    FormsConfig      `mapstructure:"forms"`
	IDGen    snowflake.Config `mapstructure:"idgen"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig JWT 校验配置
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// FormsConfig 表单引擎配置
type FormsConfig struct {
	// Timezone 计算"今天"的时区
	Timezone string `mapstructure:"timezone"`
}

// Location 解析时区
func (c FormsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("database.dialect", store.DialectSQLite)
	v.SetDefault("database.dsn", "file:backoffice.db?cache=shared")
	v.SetDefault("database.slow_threshold", 200*time.Millisecond)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "backoffice:")
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	v.SetDefault("forms.timezone", "")

	v.SetDefault("idgen.datacenter_id", 0)
	v.SetDefault("idgen.worker_id", 0)
	v.SetDefault("idgen.clock_backward_strategy", int(snowflake.StrategyError))
	v.SetDefault("idgen.clock_backward_tolerance", 0)
}

// Load 读取配置；path 为空时只使用默认值与环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Dialect {
	case store.DialectSQLite, store.DialectMySQL, store.DialectPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.dialect: unsupported %q", c.Database.Dialect))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn: required"))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode: unsupported %q", c.Server.Mode))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr: required when redis is enabled"))
	}
	if _, err := c.Forms.Location(); err != nil {
		errs = append(errs, fmt.Errorf("forms.timezone: %w", err))
	}
	if err := c.IDGen.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("idgen: %w", err))
	}
	return errors.Join(errs...)
}

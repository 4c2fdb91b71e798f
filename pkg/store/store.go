// Package store 基于 gorm 的门面实现
package store

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/model"
)

// 支持的数据库方言
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// Config 数据库配置
type Config struct {
	Dialect       string        `mapstructure:"dialect"`
	DSN           string        `mapstructure:"dsn"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
	AutoMigrate   bool          `mapstructure:"auto_migrate"`
}

// IDGenerator 主键生成器
type IDGenerator interface {
	NextID() (int64, error)
}

// Open 按方言打开数据库连接
func Open(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Dialect {
	case DialectSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DialectMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DialectPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(logger, cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Dialect, err)
	}
	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Discount{},
		&model.DiscountCategory{},
		&model.StoreDiscount{},
		&model.StoreProduct{},
		&model.CommonCode{},
		&model.Resource{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// translate 把 gorm 错误映射为门面错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return facade.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", facade.ErrConflict, err)
	}
	return err
}

// orderBy 把 "field" / "-field" 排序参数映射为白名单中的列
func orderBy(sort string, columns map[string]string, fallback string) string {
	desc := false
	if len(sort) > 0 && sort[0] == '-' {
		desc = true
		sort = sort[1:]
	}
	col, ok := columns[sort]
	if !ok {
		return fallback
	}
	if desc {
		return col + " DESC"
	}
	return col
}

// filters 把查询过滤条件转换为 gorm scope；prefix 中的键做前缀匹配，其余等值匹配，未知键忽略
func filters(values map[string]string, columns map[string]string, prefix ...string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		for key, value := range values {
			col, ok := columns[key]
			if !ok || value == "" {
				continue
			}
			if slices.Contains(prefix, key) {
				tx = tx.Where(col+" LIKE ?", value+"%")
			} else {
				tx = tx.Where(col+" = ?", value)
			}
		}
		return tx
	}
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Record 实体的原始记录：字段名到值的映射
//
// 设计说明：
// - 表单 RawValue() 与模型之间的交换格式
// - 取值方法按 Kind 的规整规则转换，兼容 JSON 反序列化后的 float64 / string
// - 支持数据库 JSON 存储（批量操作的请求快照）
type Record map[string]any

// NewRecord 创建一个新的记录
func NewRecord() Record {
	return make(Record)
}

// Get 获取指定键的值
func (r Record) Get(key string) (any, bool) {
	value, exists := r[key]
	return value, exists
}

// Has 检查是否存在指定的键
func (r Record) Has(key string) bool {
	_, exists := r[key]
	return exists
}

// GetString 获取字符串
func (r Record) GetString(key string) (string, bool) {
	value, exists := r[key]
	if !exists || IsEmpty(value) {
		return "", false
	}
	return ToString(value)
}

// GetInt64 获取整数
func (r Record) GetInt64(key string) (int64, bool) {
	value, exists := r[key]
	if !exists || IsEmpty(value) {
		return 0, false
	}
	return ToInt(value)
}

// GetDecimal 获取定点小数
func (r Record) GetDecimal(key string) (decimal.Decimal, bool) {
	value, exists := r[key]
	if !exists || IsEmpty(value) {
		return decimal.Decimal{}, false
	}
	return ToDecimal(value)
}

// GetDate 获取日期
func (r Record) GetDate(key string) (time.Time, bool) {
	value, exists := r[key]
	if !exists || IsEmpty(value) {
		return time.Time{}, false
	}
	return ToDate(value)
}

// GetBool 获取布尔
func (r Record) GetBool(key string) (bool, bool) {
	value, exists := r[key]
	if !exists || value == nil {
		return false, false
	}
	return ToBool(value)
}

// GetCode 获取代码引用
func (r Record) GetCode(key string) (Code, bool) {
	value, exists := r[key]
	if !exists || IsEmpty(value) {
		return Code{}, false
	}
	return ToCode(value)
}

// GetRecords 获取子记录列表
func (r Record) GetRecords(key string) []Record {
	value, exists := r[key]
	if !exists {
		return nil
	}
	var out []Record
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, Record(m))
			}
		}
	case []map[string]any:
		for _, m := range v {
			out = append(out, Record(m))
		}
	case []Record:
		out = v
	}
	return out
}

// Clone 创建一个浅副本
func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Merge 合并另一个记录，相同的键会被覆盖
func (r Record) Merge(other Record) {
	for k, v := range other {
		r[k] = v
	}
}

// Value 实现 driver.Valuer 接口，序列化为 JSON 存储
func (r Record) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return json.Marshal(Export(map[string]any(r)))
}

// Scan 实现 sql.Scanner 接口
func (r *Record) Scan(value any) error {
	if value == nil {
		*r = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Record: unsupported type")
	}

	if len(bytes) == 0 {
		*r = nil
		return nil
	}

	result := make(Record)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*r = result
	return nil
}

package types

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind 实体字段的语义类型
type Kind uint8

const (
	KindString  Kind = iota // 字符串
	KindDecimal             // 定点小数（decimal.Decimal）
	KindInteger             // 整数（int64）
	KindDate                // 日历日期（time.Time，忽略时分秒）
	KindBool                // 布尔
	KindCode                // 代码引用（Code）
	KindArray               // 子实体数组
)

var kindNames = [...]string{"string", "decimal", "integer", "date", "boolean", "code", "array"}

// String 字符串表示
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// DateLayout 日期的文本格式
const DateLayout = "2006-01-02"

// Coerce 把原始值（通常来自 JSON 或数据库）规整为 kind 对应的 Go 类型
// 空值规整为 nil；无法识别的值原样返回，交由校验器报告类型错误
func Coerce(kind Kind, v any) any {
	if IsEmpty(v) {
		return nil
	}
	switch kind {
	case KindString:
		if s, ok := ToString(v); ok {
			return s
		}
	case KindDecimal:
		if d, ok := ToDecimal(v); ok {
			return d
		}
	case KindInteger:
		if i, ok := ToInt(v); ok {
			return i
		}
	case KindDate:
		if t, ok := ToDate(v); ok {
			return t
		}
	case KindBool:
		if b, ok := ToBool(v); ok {
			return b
		}
	case KindCode:
		if c, ok := ToCode(v); ok {
			if c.IsZero() {
				return nil
			}
			return c
		}
	}
	return v
}

// IsEmpty 值是否为空：nil、空白字符串、空代码、零时间、空切片/map、nil 指针
// 注意：false 与 0 不是空值
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case Code:
		return val.IsZero()
	case *Code:
		return val == nil || val.IsZero()
	case time.Time:
		return val.IsZero()
	case Date:
		return val.IsZero()
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case bool, int, int64, float64, decimal.Decimal:
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// ToString 转换为字符串
func ToString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case Code:
		return val.Code, true
	case json.Number:
		return val.String(), true
	case []byte:
		return string(val), true
	}
	return "", false
}

// ToDecimal 转换为定点小数
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Decimal{}, false
		}
		return *val, true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat32(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int32:
		return decimal.NewFromInt32(val), true
	case int64:
		return decimal.NewFromInt(val), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// ToInt 转换为整数；带小数部分的数值不是整数
func ToInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return int64(val), true
	case json.Number:
		i, err := val.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return i, err == nil
	case decimal.Decimal:
		if !val.IsInteger() {
			return 0, false
		}
		return val.IntPart(), true
	}
	return 0, false
}

// ToDate 转换为日历日期，接受 time.Time、2006-01-02 与 RFC3339 文本
func ToDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case Date:
		return val.Time, !val.IsZero()
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, !val.IsZero()
	case string:
		s := strings.TrimSpace(val)
		if t, err := time.Parse(DateLayout, s); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToBool 转换为布尔
func ToBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case *bool:
		if val == nil {
			return false, false
		}
		return *val, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return b, err == nil
	}
	return false, false
}

// ToCode 转换为代码引用，接受 Code、字符串与 {"code": "..."} 形式的 map
func ToCode(v any) (Code, bool) {
	switch val := v.(type) {
	case Code:
		return val, true
	case *Code:
		if val == nil {
			return Code{}, false
		}
		return *val, true
	case string:
		return Code{Code: val}, true
	case map[string]any:
		code, ok := val["code"].(string)
		if !ok {
			return Code{}, false
		}
		desc, _ := val["description"].(string)
		return Code{Code: code, Description: desc}, true
	}
	return Code{}, false
}

// CodeOf 取值的代码，无法识别时返回空串
func CodeOf(v any) string {
	c, _ := ToCode(v)
	return c.Code
}

// Truthy 是否为已勾选的布尔值
func Truthy(v any) bool {
	b, ok := ToBool(v)
	return ok && b
}

// DateOf 截断为 UTC 零点的日历日期（按原时区取年月日）
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Export 把规整后的值转换为 JSON 友好的形式（decimal 与日期输出为字符串）
func Export(v any) any {
	switch val := v.(type) {
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format(DateLayout)
	case Date:
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Export(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Export(item)
		}
		return out
	}
	return v
}

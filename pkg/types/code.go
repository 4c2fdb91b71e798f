package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// Code 带描述的代码引用（下拉框选项），如折扣类型 {LINEITEM, 行项目折扣}
// 两个 Code 只按 Code 字段比较，Description 仅用于展示
type Code struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// NewCode 创建代码引用
func NewCode(code string, description ...string) Code {
	c := Code{Code: code}
	if len(description) > 0 {
		c.Description = description[0]
	}
	return c
}

// IsZero 是否为空代码
func (c Code) IsZero() bool {
	return strings.TrimSpace(c.Code) == ""
}

// Is 是否为指定代码
func (c Code) Is(code string) bool {
	return c.Code == code
}

// String 字符串表示
func (c Code) String() string {
	if c.Description == "" {
		return c.Code
	}
	return c.Code + " - " + c.Description
}

// Value 实现 driver.Valuer 接口：数据库中只存储代码
func (c Code) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.Code, nil
}

// Scan 实现 sql.Scanner 接口
func (c *Code) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*c = Code{}
	case string:
		*c = Code{Code: v}
	case []byte:
		*c = Code{Code: string(v)}
	default:
		return errors.New("failed to scan Code: unsupported type")
	}
	return nil
}

// UnmarshalJSON 同时接受对象形式 {"code":"X"} 与字符串形式 "X"
func (c *Code) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Code{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Code{Code: s}
		return nil
	}
	type plain Code
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Code(p)
	return nil
}

// GormDataType 数据库列类型
func (Code) GormDataType() string {
	return "string"
}

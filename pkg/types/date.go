package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Date 日历日期：JSON 为 2006-01-02，数据库存储 UTC 零点
type Date struct {
	time.Time
}

// NewDate 截断为日历日期
func NewDate(t time.Time) Date {
	return Date{DateOf(t)}
}

// String 字符串表示
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON 输出 "2006-01-02"，零值输出 null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON 接受 2006-01-02 与 RFC3339
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, ok := ToDate(s)
	if !ok {
		return errors.New("invalid date: " + s)
	}
	*d = NewDate(t)
	return nil
}

// Value 实现 driver.Valuer 接口
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return DateOf(d.Time), nil
}

// Scan 实现 sql.Scanner 接口
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	}
	return errors.New("failed to scan Date: unsupported type")
}

func (d *Date) scanText(s string) error {
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return errors.New("failed to scan Date: " + s)
}

// GormDataType 数据库列类型
func (Date) GormDataType() string {
	return "date"
}

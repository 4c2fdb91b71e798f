package access

import (
	"fmt"
	"strings"
)

// Scope 作用域：表单所在的界面形态
type Scope uint8

const (
	ScopeNormal     Scope = iota // 普通详情页（零值）
	ScopeGrid                    // 表格行内编辑
	ScopeMassUpdate              // 批量更新补丁
)

// String 字符串表示
func (s Scope) String() string {
	switch s {
	case ScopeNormal:
		return "normal"
	case ScopeGrid:
		return "grid"
	case ScopeMassUpdate:
		return "mass-update"
	}
	return fmt.Sprintf("Scope(%d)", uint8(s))
}

// ParseScope 解析作用域，空串解析为 ScopeNormal
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ScopeNormal, nil
	case "grid":
		return ScopeGrid, nil
	case "mass-update", "massupdate", "mass_update":
		return ScopeMassUpdate, nil
	}
	return ScopeNormal, &UnhandledScopeError{Value: s}
}

// MarshalText 实现 encoding.TextMarshaler
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RequiredCondition 必填条件
type RequiredCondition uint8

const (
	Always  RequiredCondition = iota // 始终必填
	IfDirty                          // 仅在控件被修改过时必填
)

// String 字符串表示
func (c RequiredCondition) String() string {
	if c == IfDirty {
		return "if-dirty"
	}
	return "always"
}

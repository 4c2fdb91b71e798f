package access

import "fmt"

// MissingAccessModeError 需要访问模式的实体在构建时未提供访问模式
type MissingAccessModeError struct {
	Entity string
}

func (e *MissingAccessModeError) Error() string {
	if e.Entity == "" {
		return "access mode is required"
	}
	return fmt.Sprintf("access mode is required to build %q", e.Entity)
}

// UnhandledAccessModeError 无法识别的访问模式取值
type UnhandledAccessModeError struct {
	Value string
}

func (e *UnhandledAccessModeError) Error() string {
	return fmt.Sprintf("unhandled access mode %q", e.Value)
}

// UnhandledScopeError 无法识别的作用域取值
type UnhandledScopeError struct {
	Value string
}

func (e *UnhandledScopeError) Error() string {
	return fmt.Sprintf("unhandled scope %q", e.Value)
}

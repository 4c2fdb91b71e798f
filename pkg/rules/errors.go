package rules

import "fmt"

// UnknownPathError 依赖边引用了实体中不存在的控件
type UnknownPathError struct {
	Entity string
	Path   string
}

func (e *UnknownPathError) Error() string {
	return fmt.Sprintf("entity %q has no control at path %q", e.Entity, e.Path)
}

// InvalidEdgeError 依赖边声明不合法
type InvalidEdgeError struct {
	Entity string
	Edge   string
	Reason string
}

func (e *InvalidEdgeError) Error() string {
	return fmt.Sprintf("invalid edge %q of entity %q: %s", e.Edge, e.Entity, e.Reason)
}

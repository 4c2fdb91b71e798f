// Package rules 声明式的跨字段依赖边与通用连线引擎
//
// 依赖边是数据而不是闭包：每条 Edge 描述"触发字段 → 受影响字段 + 行为"，
// 由 Wire 统一解释并挂到表单上，因此规则可以脱离界面单独检查、导出与测试
package rules

import (
	"fmt"

	"katydid-backoffice-forms/pkg/access"
)

// Kind 依赖边的行为类型
type Kind string

const (
	// RequiredIfPresent 触发字段非空时目标必填
	RequiredIfPresent Kind = "required-if-present"
	// RequiredIfChecked 触发字段勾选时目标必填
	RequiredIfChecked Kind = "required-if-checked"
	// ClearOnClear 触发字段被清空时清空目标
	ClearOnClear Kind = "clear-on-clear"
	// DefaultWhenSet 触发字段被赋值且目标为空时，目标写入默认值
	DefaultWhenSet Kind = "default-when-set"
	// GroupRevalidate 触发字段变化时重新校验目标
	GroupRevalidate Kind = "group-revalidate"
	// RequiredWhen 触发字段的代码等于 Equals 时目标必填（数组目标要求至少一项）
	RequiredWhen Kind = "required-when"
	// ClearUnless 触发字段的代码不等于 Equals 时清空目标
	ClearUnless Kind = "clear-unless"
	// EnableWhenChecked 触发字段勾选时启用目标，否则禁用（保留值）
	EnableWhenChecked Kind = "enable-when-checked"
	// RequiredOrDefaulted 目标与触发勾选框二选一，互斥
	RequiredOrDefaulted Kind = "required-or-defaulted"
	// RequiredRelated 触发字段有值时目标都必须有值，错误挂在触发字段上
	RequiredRelated Kind = "required-related"
	// NumberGreaterThan 目标须大于触发字段
	NumberGreaterThan Kind = "number-greater-than"
	// MultipleOf 目标须为触发字段的整数倍
	MultipleOf Kind = "multiple-of"
	// DateAfter 目标日期须晚于触发字段（Inclusive 时允许相等）
	DateAfter Kind = "date-after"
)

var kinds = map[Kind]struct{}{
	RequiredIfPresent: {}, RequiredIfChecked: {}, ClearOnClear: {}, DefaultWhenSet: {},
	GroupRevalidate: {}, RequiredWhen: {}, ClearUnless: {}, EnableWhenChecked: {},
	RequiredOrDefaulted: {}, RequiredRelated: {}, NumberGreaterThan: {}, MultipleOf: {}, DateAfter: {},
}

// Edge 一条依赖边
// 路径相对于实体根分组，目标路径支持 arr[*].f 通配数组的每个子项（含之后新增的子项）
type Edge struct {
	Name         string         `yaml:"name" json:"name"`
	Kind         Kind           `yaml:"kind" json:"kind"`
	Trigger      string         `yaml:"trigger" json:"trigger"`
	Targets      []string       `yaml:"targets" json:"targets"`
	Equals       string         `yaml:"equals,omitempty" json:"equals,omitempty"`
	Default      any            `yaml:"default,omitempty" json:"default,omitempty"`
	Inclusive    bool           `yaml:"inclusive,omitempty" json:"inclusive,omitempty"`
	ExceptScopes []access.Scope `yaml:"exceptScopes,omitempty" json:"exceptScopes,omitempty"`
}

// ActiveIn 边在给定作用域下是否生效
func (e Edge) ActiveIn(scope access.Scope) bool {
	for _, s := range e.ExceptScopes {
		if s == scope {
			return false
		}
	}
	return true
}

// Check 静态检查一组边：名称唯一、类型已知、必要参数齐全
func Check(entity string, edges []Edge) error {
	seen := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		if e.Name == "" {
			return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: "name is empty"}
		}
		if _, dup := seen[e.Name]; dup {
			return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: "duplicate name"}
		}
		seen[e.Name] = struct{}{}

		if _, ok := kinds[e.Kind]; !ok {
			return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: fmt.Sprintf("unknown kind %q", e.Kind)}
		}
		if e.Trigger == "" || len(e.Targets) == 0 {
			return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: "trigger and targets are required"}
		}
		if (e.Kind == RequiredWhen || e.Kind == ClearUnless) && e.Equals == "" {
			return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: "equals is required"}
		}
		if e.Kind == DefaultWhenSet && e.Default == nil {
			return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: "default is required"}
		}
	}
	return nil
}

// Symmetric 生成一对互为触发的同类边，如 A↔B 的 required-if-present
func Symmetric(name string, kind Kind, a, b string, exceptScopes ...access.Scope) []Edge {
	return []Edge{
		{Name: name + ":" + a + "->" + b, Kind: kind, Trigger: a, Targets: []string{b}, ExceptScopes: exceptScopes},
		{Name: name + ":" + b + "->" + a, Kind: kind, Trigger: b, Targets: []string{a}, ExceptScopes: exceptScopes},
	}
}

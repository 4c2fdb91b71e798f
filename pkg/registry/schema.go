package registry

import (
	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
)

// Schema 实体的声明：有序字段、依赖边与模式/作用域策略
type Schema struct {
	Entity string
	Fields []Field
	Edges  []rules.Edge
	Policy Policy

	// RequiresMode 构建时必须提供访问模式
	RequiresMode bool
}

// Field 字段声明
type Field struct {
	Name string
	Kind types.Kind
	// Entity 数组字段的子实体名
	Entity string
	// Required 必填；批量更新作用域下自动变为仅修改后必填
	Required bool
	// MinItems 数组最少子项数
	MinItems int
	Rules    []Rule
}

// Policy 模式与作用域条件化策略
type Policy struct {
	// Key 主键字段，参照新增时清空
	Key string
	// Immutable 编辑模式下强制禁用
	Immutable []string
	// Identity 身份字段：编辑模式下禁用，参照新增时清空并必填
	Identity []string
	// ForceActive 参照新增时强制为 true 的字段
	ForceActive string
	// GridDisabled 表格作用域下强制禁用
	GridDisabled []string
	// Defaults 新增模式下的默认值（批量更新作用域跳过）
	Defaults map[string]any
	// AtLeastOneDirty 批量更新作用域下要求至少修改一个字段
	AtLeastOneDirty bool
}

// RuleKind 字段校验规则类型
type RuleKind string

const (
	RuleMaxLength      RuleKind = "maxLength"
	RuleMinLength      RuleKind = "minLength"
	RulePattern        RuleKind = "pattern"
	RuleDecimal        RuleKind = "decimal"
	RuleInteger        RuleKind = "integer"
	RuleDateAfterToday RuleKind = "dateAfterToday"
)

// Rule 字段校验规则（数据形式，构建时翻译为 form.Validator）
type Rule struct {
	Kind      RuleKind
	N         int
	Places    int32
	Min       string
	Max       string
	Pattern   string
	Inclusive bool
	// Modes 仅在这些访问模式下生效，空表示全部
	Modes []access.Mode
}

// MaxLen 字符串最大长度
func MaxLen(n int) Rule { return Rule{Kind: RuleMaxLength, N: n} }

// MinLen 字符串最小长度
func MinLen(n int) Rule { return Rule{Kind: RuleMinLength, N: n} }

// Matches 正则格式
func Matches(expr string) Rule { return Rule{Kind: RulePattern, Pattern: expr} }

// Decimal 定点小数，lo/hi 为空表示不限
func Decimal(places int32, lo, hi string) Rule {
	return Rule{Kind: RuleDecimal, Places: places, Min: lo, Max: hi}
}

// Integer 整数，lo/hi 为空表示不限
func Integer(lo, hi string) Rule {
	return Rule{Kind: RuleInteger, Min: lo, Max: hi}
}

// AfterToday 日期晚于当天，modes 限定生效的访问模式
func AfterToday(inclusive bool, modes ...access.Mode) Rule {
	return Rule{Kind: RuleDateAfterToday, Inclusive: inclusive, Modes: modes}
}

func (r Rule) activeIn(mode access.Mode) bool {
	if len(r.Modes) == 0 {
		return true
	}
	for _, m := range r.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// field 按名称查找字段声明
func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

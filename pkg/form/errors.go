package form

import (
	"errors"
	"sort"
)

var (
	// ErrDisposed 表单实例已被释放，不再处理写入
	ErrDisposed = errors.New("form instance disposed")

	// ErrReadOnly 表单实例只读（查看模式），拒绝写入
	ErrReadOnly = errors.New("form instance is read-only")

	// ErrInvalidValue 写入值的形状与控件不匹配（如向 Group 写入非 map）
	ErrInvalidValue = errors.New("value does not match control shape")
)

// Errors 控件的校验错误集合
// key 为错误标签（如 required、invalidDecimal），value 为错误详情（参数、实际值等）
// 约定：nil 或空 map 表示校验通过
type Errors map[string]any

// Has 检查是否包含指定标签的错误
func (e Errors) Has(tag string) bool {
	if e == nil {
		return false
	}
	_, ok := e[tag]
	return ok
}

// Tags 返回排序后的错误标签列表
func (e Errors) Tags() []string {
	tags := make([]string, 0, len(e))
	for tag := range e {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// merge 合并错误，返回新的集合；两者都为空时返回 nil
func (e Errors) merge(other Errors) Errors {
	if len(other) == 0 {
		return e
	}
	if e == nil {
		e = make(Errors, len(other))
	}
	for k, v := range other {
		e[k] = v
	}
	return e
}

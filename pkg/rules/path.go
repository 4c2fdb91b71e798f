package rules

import (
	"strings"

	"katydid-backoffice-forms/pkg/form"
)

// wildcard 数组通配符
const wildcard = "[*]"

// target 解析后的目标：普通控件，或"数组 + 子项内路径"
type target struct {
	path  string
	ctrl  form.Control
	array *form.Array
	rest  string
}

// resolve 解析路径；通配路径返回数组与子项内的剩余路径
func resolve(entity string, root *form.Group, path string) (target, error) {
	if i := strings.Index(path, wildcard); i >= 0 {
		arr, ok := root.Get(path[:i]).(*form.Array)
		if !ok {
			return target{}, &UnknownPathError{Entity: entity, Path: path}
		}
		rest := strings.TrimPrefix(path[i+len(wildcard):], ".")
		return target{path: path, array: arr, rest: rest}, nil
	}
	c := root.Get(path)
	if c == nil {
		return target{}, &UnknownPathError{Entity: entity, Path: path}
	}
	return target{path: path, ctrl: c}, nil
}

// each 对目标的每个控件执行 fn；通配目标同时覆盖之后加入数组的子项
func (t target) each(fn func(form.Control)) {
	if t.array == nil {
		fn(t.ctrl)
		return
	}
	apply := func(item form.Control) {
		if c := form.Find(item, t.rest); c != nil {
			fn(c)
		}
	}
	for _, item := range t.array.Items() {
		apply(item)
	}
	t.array.OnItemAdded(apply)
}

// current 目标当前对应的全部控件
func (t target) current() []form.Control {
	if t.array == nil {
		return []form.Control{t.ctrl}
	}
	var out []form.Control
	for _, item := range t.array.Items() {
		if c := form.Find(item, t.rest); c != nil {
			out = append(out, c)
		}
	}
	return out
}

package form

import "reflect"

// ItemFactory 根据原始值构建数组子项
type ItemFactory func(v any) (Control, error)

// Array 有序的控件列表，子项通常为 Group
type Array struct {
	node
	items   []Control
	factory ItemFactory
	added   hub[Control]
}

// NewArray 创建数组控件；factory 用于整体写入时按值重建子项，可为 nil
func NewArray(factory ItemFactory) *Array {
	a := &Array{factory: factory}
	a.setup(a, a)
	return a
}

// SetFactory 设置子项工厂
func (a *Array) SetFactory(factory ItemFactory) {
	a.factory = factory
}

// Len 子项数量
func (a *Array) Len() int { return len(a.items) }

// At 获取第 i 个子项，越界返回 nil
func (a *Array) At(i int) Control {
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Items 子项快照
func (a *Array) Items() []Control {
	out := make([]Control, len(a.items))
	copy(out, a.items)
	return out
}

// OnItemAdded 订阅子项新增（包括整体写入时重建的子项）
// 依赖连线借此覆盖构建之后才加入的子项
func (a *Array) OnItemAdded(fn func(item Control)) func() {
	cancel := a.added.add(fn)
	a.tree.life().Track(cancel)
	return cancel
}

// Push 追加子项
func (a *Array) Push(c Control) error {
	return a.Insert(len(a.items), c)
}

// Insert 在位置 i 插入子项
func (a *Array) Insert(i int, c Control) error {
	if err := a.writable(); err != nil {
		return err
	}
	if i < 0 || i > len(a.items) {
		i = len(a.items)
	}
	t := a.tree
	t.begin()
	defer t.end()

	a.attach(i, c)
	a.refresh(structurePass, true)
	return nil
}

// RemoveAt 移除第 i 个子项
func (a *Array) RemoveAt(i int) error {
	if err := a.writable(); err != nil {
		return err
	}
	if i < 0 || i >= len(a.items) {
		return nil
	}
	t := a.tree
	t.begin()
	defer t.end()

	a.items[i].base().detach()
	a.items = append(a.items[:i], a.items[i+1:]...)
	a.refresh(writePass, true)
	return nil
}

// Clear 移除全部子项
func (a *Array) Clear() error {
	if err := a.writable(); err != nil {
		return err
	}
	t := a.tree
	t.begin()
	defer t.end()

	a.clear()
	a.refresh(writePass, true)
	return nil
}

func (a *Array) clear() {
	for _, item := range a.items {
		item.base().detach()
	}
	a.items = nil
}

func (a *Array) attach(i int, c Control) {
	c.base().adopt(a)
	a.items = append(a.items, nil)
	copy(a.items[i+1:], a.items[i:])
	a.items[i] = c
	a.added.emit(c)
}

func (a *Array) indexOf(c Control) int {
	for i, item := range a.items {
		if item == c {
			return i
		}
	}
	return -1
}

func (a *Array) children() []Control { return a.items }

func (a *Array) value() any {
	out := make([]any, 0, len(a.items))
	for _, item := range a.items {
		if item.Enabled() {
			out = append(out, item.Value())
		}
	}
	return out
}

func (a *Array) rawValue() any {
	out := make([]any, 0, len(a.items))
	for _, item := range a.items {
		out = append(out, item.RawValue())
	}
	return out
}

// assign 长度一致时逐项写入；否则借助工厂整体重建（PatchValue 只写入已存在的子项）
func (a *Array) assign(v any, patch bool, p pass) error {
	values, ok := toSlice(v)
	if !ok {
		return ErrInvalidValue
	}
	if patch || len(values) == len(a.items) {
		for i, item := range a.items {
			if i >= len(values) {
				break
			}
			if err := assignChild(item, values[i], patch, p); err != nil {
				return err
			}
		}
		return nil
	}
	if len(values) > 0 && a.factory == nil {
		return ErrInvalidValue
	}

	built := make([]Control, 0, len(values))
	for _, raw := range values {
		item, err := a.factory(raw)
		if err != nil {
			return err
		}
		built = append(built, item)
	}
	a.clear()
	for _, item := range built {
		a.attach(len(a.items), item)
	}
	return nil
}

// toSlice 把任意切片值展开为 []any，nil 视为空切片
func toSlice(v any) ([]any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case []any:
		return val, true
	case []map[string]any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = val[i]
		}
		return out, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

package form

// Group 有序的命名控件集合
// Value() 只聚合启用的子控件，RawValue() 聚合全部子控件
type Group struct {
	node
	names    []string
	controls map[string]Control
}

// NewGroup 创建分组控件，name 仅用于根分组的日志与诊断
func NewGroup(name string) *Group {
	g := &Group{controls: make(map[string]Control)}
	g.setup(g, g)
	g.name = name
	return g
}

// Add 按顺序添加子控件；同名子控件会被替换
func (g *Group) Add(name string, c Control) *Group {
	if old, ok := g.controls[name]; ok {
		old.base().detach()
	} else {
		g.names = append(g.names, name)
	}
	c.base().name = name
	c.base().adopt(g)
	g.controls[name] = c
	g.refresh(revalidatePass, false)
	return g
}

// Contains 是否包含指定名称的子控件
func (g *Group) Contains(name string) bool {
	_, ok := g.controls[name]
	return ok
}

// Control 按名称获取直接子控件
func (g *Group) Control(name string) Control {
	return g.controls[name]
}

// Field 按名称获取字段，不存在或类型不符时返回 nil
func (g *Group) Field(name string) *Field {
	f, _ := g.controls[name].(*Field)
	return f
}

// Group 按名称获取子分组
func (g *Group) Group(name string) *Group {
	sub, _ := g.controls[name].(*Group)
	return sub
}

// Array 按名称获取子数组
func (g *Group) Array(name string) *Array {
	a, _ := g.controls[name].(*Array)
	return a
}

// Get 按路径获取后代控件，如 storeDiscounts[0].active
func (g *Group) Get(path string) Control {
	return Find(g, path)
}

// Names 子控件名称（按添加顺序）
func (g *Group) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// DirtyFieldNames 已标记为脏的直接子控件名称
func (g *Group) DirtyFieldNames() []string {
	var out []string
	for _, name := range g.names {
		if g.controls[name].Dirty() {
			out = append(out, name)
		}
	}
	return out
}

// Values Value() 的强类型版本
func (g *Group) Values() map[string]any {
	return g.value().(map[string]any)
}

// RawValues RawValue() 的强类型版本
func (g *Group) RawValues() map[string]any {
	return g.rawValue().(map[string]any)
}

// Reset 重置值并清除脏标记
func (g *Group) Reset(v map[string]any) {
	g.SetValue(v)
	g.MarkPristine()
}

// SilentReset 静默重置值并清除脏标记
func (g *Group) SilentReset(v map[string]any) {
	g.SilentSetValue(v)
	g.MarkPristine()
}

func (g *Group) children() []Control {
	out := make([]Control, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.controls[name])
	}
	return out
}

func (g *Group) value() any {
	out := make(map[string]any, len(g.names))
	for _, name := range g.names {
		c := g.controls[name]
		if c.Enabled() {
			out[name] = c.Value()
		}
	}
	return out
}

func (g *Group) rawValue() any {
	out := make(map[string]any, len(g.names))
	for _, name := range g.names {
		out[name] = g.controls[name].RawValue()
	}
	return out
}

func (g *Group) assign(v any, patch bool, p pass) error {
	var m map[string]any
	switch val := v.(type) {
	case nil:
		if patch {
			return nil
		}
	case map[string]any:
		m = val
	default:
		return ErrInvalidValue
	}
	for _, name := range g.names {
		cv, ok := m[name]
		if !ok && patch {
			continue
		}
		if err := assignChild(g.controls[name], cv, patch, p); err != nil {
			return err
		}
	}
	return nil
}

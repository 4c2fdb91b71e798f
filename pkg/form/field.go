package form

// Field 叶子控件，持有单个值
type Field struct {
	node
	val any
}

// NewField 创建字段控件
func NewField(v any) *Field {
	f := &Field{val: v}
	f.setup(f, f)
	return f
}

func (f *Field) value() any          { return f.val }
func (f *Field) rawValue() any       { return f.val }
func (f *Field) children() []Control { return nil }

func (f *Field) assign(v any, _ bool, _ pass) error {
	f.val = v
	return nil
}

package form

// Control 表单控件：字段（Field）、分组（Group）与数组（Array）的公共接口
//
// 写入分为三类：
//   - SetValue / PatchValue：普通写入，通知值订阅者并可能触发依赖级联
//   - SilentSetValue / SilentPatchValue：静默写入，只更新值与有效性，不通知值订阅者
//   - Input：模拟用户输入，先标记为脏再普通写入
//
// 所有订阅均登记在表单实例的 Lifetime 上，释放后写入被忽略
type Control interface {
	Name() string
	Path() string
	Parent() Control

	Value() any
	RawValue() any
	SetValue(v any)
	SilentSetValue(v any)
	TrySetValue(v any) error
	PatchValue(v any)
	SilentPatchValue(v any)
	Input(v any)

	Errors() Errors
	HasError(tag string) bool
	Status() Status
	Valid() bool
	Invalid() bool
	UpdateValidity()

	Enabled() bool
	Disabled() bool
	Enable()
	Disable()

	Dirty() bool
	Pristine() bool
	Touched() bool
	MarkDirty()
	MarkTouched()
	MarkPristine()

	AddValidators(vs ...Validator)
	RemoveValidators(keys ...string)
	HasValidator(key string) bool

	OnValueChange(fn func(v any)) (cancel func())
	OnStatusChange(fn func(s Status)) (cancel func())
	OnSettled(fn func()) (cancel func())

	ReadOnly() bool
	Disposed() bool
	Lifetime() *Lifetime

	base() *node
}

// shape 各类控件的差异部分
type shape interface {
	value() any
	rawValue() any
	assign(v any, patch bool, p pass) error
	children() []Control
}

// pass 一次刷新的传播选项
type pass struct {
	valueChanged bool // 值发生变化：通知依赖此控件的校验器
	emitValue    bool // 通知值订阅者
	emitStatus   bool // 通知状态订阅者（仅在状态变化时）
}

var (
	writePass      = pass{valueChanged: true, emitValue: true, emitStatus: true}
	silentPass     = pass{valueChanged: true}
	revalidatePass = pass{emitStatus: true}
	structurePass  = pass{valueChanged: true, emitStatus: true}
)

func passFor(silent bool) pass {
	if silent {
		return silentPass
	}
	return writePass
}

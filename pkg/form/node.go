package form

import (
	"strconv"
)

// node 控件的公共实现，由 Field、Group、Array 内嵌
type node struct {
	self   Control
	shape  shape
	name   string
	parent Control
	tree   *tree

	state  State
	status Status
	errors Errors

	validators []Validator
	refCancels map[string][]func()

	valueHub   hub[any]
	statusHub  hub[Status]
	dependents hub[struct{}]
}

func (n *node) setup(self Control, s shape) {
	n.self = self
	n.shape = s
	n.tree = &tree{}
}

func (n *node) base() *node { return n }

// ---------- 结构 ----------

func (n *node) Name() string    { return n.name }
func (n *node) Parent() Control { return n.parent }

// Path 控件在表单中的路径，如 storeDiscounts[0].active
func (n *node) Path() string {
	if n.parent == nil {
		return ""
	}
	pp := n.parent.Path()
	if arr, ok := n.parent.(*Array); ok {
		return pp + "[" + strconv.Itoa(arr.indexOf(n.self)) + "]"
	}
	if pp == "" {
		return n.name
	}
	return pp + "." + n.name
}

// walk 先序遍历子树
func (n *node) walk(fn func(*node)) {
	fn(n)
	for _, c := range n.shape.children() {
		c.base().walk(fn)
	}
}

// adopt 把子树挂载到父容器所属的树上
func (n *node) adopt(parent Control) {
	pt := parent.base().tree
	pt.merge(n.tree)
	n.parent = parent
	n.walk(func(m *node) { m.tree = pt })
	if parent.Disabled() {
		n.walk(func(m *node) { m.state.Set(StateDisabled) })
	}
}

// detach 把子树从所属树上摘下：取消其校验器对外部控件的订阅
func (n *node) detach() {
	t := &tree{}
	n.walk(func(m *node) {
		for _, cancels := range m.refCancels {
			for _, cancel := range cancels {
				cancel()
			}
		}
		m.refCancels = nil
		m.validators = nil
		m.tree = t
	})
	n.parent = nil
}

// ---------- 值 ----------

func (n *node) Value() any    { return n.shape.value() }
func (n *node) RawValue() any { return n.shape.rawValue() }

func (n *node) SetValue(v any)          { _ = n.write(v, false, false) }
func (n *node) SilentSetValue(v any)    { _ = n.write(v, false, true) }
func (n *node) TrySetValue(v any) error { return n.write(v, false, false) }
func (n *node) PatchValue(v any)        { _ = n.write(v, true, false) }
func (n *node) SilentPatchValue(v any)  { _ = n.write(v, true, true) }

// Input 模拟用户输入：标记为脏后写入
func (n *node) Input(v any) {
	if err := n.writable(); err != nil {
		return
	}
	n.markDirtyUp()
	_ = n.write(v, false, false)
}

// writable 检查表单实例是否接受写入
func (n *node) writable() error {
	if n.tree.disposed() {
		return ErrDisposed
	}
	if n.tree.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (n *node) write(v any, patch, silent bool) error {
	if err := n.writable(); err != nil {
		return err
	}
	t := n.tree
	t.begin()
	defer t.end()

	p := passFor(silent)
	if err := n.shape.assign(v, patch, p); err != nil {
		return err
	}
	n.refresh(p, true)
	return nil
}

// assignChild 容器写入子控件：子控件刷新自身但不向上冒泡
func assignChild(c Control, v any, patch bool, p pass) error {
	n := c.base()
	if err := n.shape.assign(v, patch, p); err != nil {
		return err
	}
	n.refresh(p, false)
	return nil
}

// ---------- 校验 ----------

func (n *node) Errors() Errors           { return n.errors }
func (n *node) HasError(tag string) bool { return n.errors.Has(tag) }
func (n *node) Status() Status           { return n.status }
func (n *node) Valid() bool              { return n.status != StatusInvalid }
func (n *node) Invalid() bool            { return n.status == StatusInvalid }

// UpdateValidity 重新运行校验器并向上刷新
func (n *node) UpdateValidity() {
	if n.tree.disposed() {
		return
	}
	n.refresh(revalidatePass, true)
}

// refresh 重新计算错误与状态，按 p 通知订阅者，bubble 时向上传播
func (n *node) refresh(p pass, bubble bool) {
	prev := n.status
	n.errors = n.runValidators()
	n.status = n.computeStatus()

	if p.valueChanged {
		n.dependents.emit(struct{}{})
	}
	if p.emitValue {
		n.valueHub.emit(n.self.Value())
	}
	if p.emitStatus && prev != n.status {
		n.statusHub.emit(n.status)
	}
	if bubble && n.parent != nil {
		n.parent.base().refresh(p, true)
	}
}

func (n *node) runValidators() Errors {
	var errs Errors
	for _, v := range n.validators {
		errs = errs.merge(v.Fn(n.self))
	}
	return errs
}

func (n *node) computeStatus() Status {
	if n.state.Contain(StateDisabled) {
		return StatusDisabled
	}
	if len(n.errors) > 0 {
		return StatusInvalid
	}
	children := n.shape.children()
	allDisabled := len(children) > 0
	for _, c := range children {
		switch c.Status() {
		case StatusInvalid:
			return StatusInvalid
		case StatusValid:
			allDisabled = false
		}
	}
	if allDisabled {
		return StatusDisabled
	}
	return StatusValid
}

// AddValidators 添加校验器；Key 相同的旧校验器会被替换
func (n *node) AddValidators(vs ...Validator) {
	if n.tree.disposed() || len(vs) == 0 {
		return
	}
	for _, v := range vs {
		n.dropValidator(v.Key)
		n.validators = append(n.validators, v)
		for _, ref := range v.Refs {
			if ref == nil || ref == n.self {
				continue
			}
			cancel := ref.base().dependents.add(func(struct{}) {
				if !n.tree.disposed() {
					n.refresh(revalidatePass, true)
				}
			})
			n.tree.life().Track(cancel)
			if n.refCancels == nil {
				n.refCancels = make(map[string][]func())
			}
			n.refCancels[v.Key] = append(n.refCancels[v.Key], cancel)
		}
	}
	n.refresh(revalidatePass, true)
}

// RemoveValidators 按 Key 移除校验器并重新校验
func (n *node) RemoveValidators(keys ...string) {
	removed := false
	for _, key := range keys {
		if n.dropValidator(key) {
			removed = true
		}
	}
	if removed && !n.tree.disposed() {
		n.refresh(revalidatePass, true)
	}
}

func (n *node) dropValidator(key string) bool {
	for i, v := range n.validators {
		if v.Key != key {
			continue
		}
		n.validators = append(n.validators[:i], n.validators[i+1:]...)
		for _, cancel := range n.refCancels[key] {
			cancel()
		}
		delete(n.refCancels, key)
		return true
	}
	return false
}

// HasValidator 是否挂有指定 Key 的校验器
func (n *node) HasValidator(key string) bool {
	for _, v := range n.validators {
		if v.Key == key {
			return true
		}
	}
	return false
}

// ---------- 启用/禁用 ----------

func (n *node) Enabled() bool  { return !n.state.Contain(StateDisabled) }
func (n *node) Disabled() bool { return n.state.Contain(StateDisabled) }

// Enable 启用控件及其子树（只读实例中无效）
func (n *node) Enable() { n.toggle(false) }

// Disable 禁用控件及其子树；值保留，但不参与父级 Value() 与有效性
func (n *node) Disable() { n.toggle(true) }

func (n *node) toggle(disable bool) {
	if n.writable() != nil {
		return
	}
	t := n.tree
	t.begin()
	defer t.end()
	n.setDisabled(disable)
}

func (n *node) setDisabled(disable bool) {
	n.walk(func(m *node) {
		if disable {
			m.state.Set(StateDisabled)
		} else {
			m.state.Unset(StateDisabled)
		}
	})
	n.refreshSubtree()
	n.refresh(structurePass, true)
}

// refreshSubtree 自底向上刷新后代（不含自身）的状态
func (n *node) refreshSubtree() {
	for _, c := range n.shape.children() {
		cn := c.base()
		cn.refreshSubtree()
		cn.refresh(revalidatePass, false)
	}
}

// ---------- 脏/触碰 ----------

func (n *node) Dirty() bool    { return n.state.Contain(StateDirty) }
func (n *node) Pristine() bool { return !n.state.Contain(StateDirty) }
func (n *node) Touched() bool  { return n.state.Contain(StateTouched) }

// MarkDirty 标记为脏（连同祖先），并重新校验
func (n *node) MarkDirty() {
	if n.tree.disposed() {
		return
	}
	n.markDirtyUp()
	n.refresh(revalidatePass, true)
}

func (n *node) markDirtyUp() {
	for c := n.self; c != nil; c = c.Parent() {
		c.base().state.Set(StateDirty)
	}
}

// MarkTouched 标记为已触碰（连同祖先）
func (n *node) MarkTouched() {
	for c := n.self; c != nil; c = c.Parent() {
		c.base().state.Set(StateTouched)
	}
}

// MarkPristine 清除子树的脏标记；祖先是否为脏由其余子控件决定
func (n *node) MarkPristine() {
	if n.tree.disposed() {
		return
	}
	n.walk(func(m *node) { m.state.Unset(StateDirty) })
	for p := n.parent; p != nil; p = p.Parent() {
		pn := p.base()
		dirty := false
		for _, c := range pn.shape.children() {
			if c.Dirty() {
				dirty = true
				break
			}
		}
		if dirty {
			break
		}
		pn.state.Unset(StateDirty)
	}
	n.refreshSubtree()
	n.refresh(revalidatePass, true)
}

// ---------- 订阅与生命周期 ----------

// OnValueChange 订阅值变化（普通写入触发，静默写入不触发）
func (n *node) OnValueChange(fn func(v any)) func() {
	cancel := n.valueHub.add(fn)
	n.tree.life().Track(cancel)
	return cancel
}

// OnStatusChange 订阅状态变化
func (n *node) OnStatusChange(fn func(s Status)) func() {
	cancel := n.statusHub.add(fn)
	n.tree.life().Track(cancel)
	return cancel
}

// OnSettled 订阅最外层写入结束事件（变更检测钩子）
func (n *node) OnSettled(fn func()) func() {
	cancel := n.tree.settled.add(func(struct{}) { fn() })
	n.tree.life().Track(cancel)
	return cancel
}

func (n *node) ReadOnly() bool      { return n.tree.readOnly }
func (n *node) Disposed() bool      { return n.tree.disposed() }
func (n *node) Lifetime() *Lifetime { return n.tree.life() }

// Bind 把控件所在的整棵树绑定到 lt：lt 释放时，树上登记的全部订阅随之释放
func Bind(c Control, lt *Lifetime) {
	t := c.base().tree
	old := t.lifetime
	t.lifetime = lt
	if old != nil && old != lt {
		lt.Track(old.Dispose)
	}
}

// MakeReadOnly 禁用整棵树并拒绝后续写入（查看模式）
func MakeReadOnly(c Control) {
	root := c
	for root.Parent() != nil {
		root = root.Parent()
	}
	n := root.base()
	if n.tree.disposed() {
		return
	}
	n.setDisabled(true)
	n.tree.readOnly = true
}

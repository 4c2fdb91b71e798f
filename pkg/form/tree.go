package form

// tree 一棵控件树共享的运行时状态
//
// 同一表单实例内的所有控件（包括数组中后续新增的子项）共享同一个 tree：
// 释放信号、只读标记、级联守卫与写入结束后的变更检测回调都挂在这里
type tree struct {
	lifetime *Lifetime
	readOnly bool

	// 级联守卫：depth 为当前外部写入的嵌套深度，fired 记录本次写入中已触发的依赖边
	depth int
	fired map[string]struct{}

	settled hub[struct{}]
}

// life 返回树的释放信号（惰性创建）
func (t *tree) life() *Lifetime {
	if t.lifetime == nil {
		t.lifetime = NewLifetime()
	}
	return t.lifetime
}

func (t *tree) disposed() bool {
	return t.lifetime != nil && t.lifetime.Disposed()
}

// begin 进入一次写入；最外层写入开启新的级联窗口
func (t *tree) begin() {
	t.depth++
	if t.depth == 1 {
		t.fired = nil
	}
}

// end 退出一次写入；最外层写入结束后通知变更检测
func (t *tree) end() {
	t.depth--
	if t.depth > 0 {
		return
	}
	t.depth = 0
	t.fired = nil
	if !t.disposed() {
		t.settled.emit(struct{}{})
	}
}

// once 在当前级联窗口内登记依赖边 key，首次登记返回 true
func (t *tree) once(key string) bool {
	if t.depth == 0 {
		return true
	}
	if t.fired == nil {
		t.fired = make(map[string]struct{})
	}
	if _, ok := t.fired[key]; ok {
		return false
	}
	t.fired[key] = struct{}{}
	return true
}

// merge 把另一棵树并入当前树（子项挂载到容器时调用）
func (t *tree) merge(other *tree) {
	if other == nil || other == t || other.lifetime == nil {
		return
	}
	if other.lifetime != t.lifetime {
		t.life().Track(other.lifetime.Dispose)
	}
}

// FireOnce 在 c 所属表单的当前写入级联中登记依赖边 key
// 同一次外部写入内，同一条边只允许触发一次；不在写入过程中调用时总是返回 true
func FireOnce(c Control, key string) bool {
	return c.base().tree.once(key)
}

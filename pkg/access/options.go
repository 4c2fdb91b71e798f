package access

// Options 表单构建的上下文选项
type Options struct {
	Mode  Mode
	Scope Scope

	// ChangeDetector 每次外部写入（含其级联）结束后调用一次，可为 nil
	ChangeDetector func()
}

// RequiredCondition 当前上下文下必填校验的条件：批量更新为 IfDirty，其余为 Always
func (o Options) RequiredCondition() RequiredCondition {
	if o.Scope == ScopeMassUpdate {
		return IfDirty
	}
	return Always
}

// SkipDefaults 是否跳过默认值初始化（批量更新补丁的值从 null 开始）
func (o Options) SkipDefaults() bool {
	return o.Scope == ScopeMassUpdate
}

// ReadOnly 是否只读
func (o Options) ReadOnly() bool {
	return o.Mode == ModeView
}

// RequireMode 需要访问模式的实体在构建前调用，未设置时返回 MissingAccessModeError
func (o Options) RequireMode(entity string) error {
	if !o.Mode.IsSet() {
		return &MissingAccessModeError{Entity: entity}
	}
	if _, ok := modeNames[o.Mode]; !ok {
		return &UnhandledAccessModeError{Value: o.Mode.String()}
	}
	return nil
}

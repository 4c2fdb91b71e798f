package registry

import (
	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// Form 表单实例：实体根分组加上构建时的访问上下文
type Form struct {
	*form.Group

	ID      string
	Entity  string
	Options access.Options

	registry *Registry
	lifetime *form.Lifetime
}

// Dispose 释放实例上的全部订阅（幂等）
func (f *Form) Dispose() {
	f.lifetime.Dispose()
}

// Record 原始值（含禁用控件）
func (f *Form) Record() types.Record {
	return types.Record(f.RawValues())
}

// Restore 按实体声明规整记录后静默重置表单并清除脏标记
func (f *Form) Restore(rec types.Record) {
	f.SilentReset(f.registry.Coerce(f.Entity, rec))
}

// Report 收集校验错误，表单有效时返回 nil
func (f *Form) Report() *validator.ValidationError {
	return validator.Collect(f.Entity, f.Group)
}

// Package pipeline 通用保存流程：校验闸门、保存前副作用、调用门面、失败回滚
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

var (
	// ErrInvalidForm 表单存在校验错误，随 *validator.ValidationError 一起返回
	ErrInvalidForm = errors.New("form is invalid")
	// ErrInvalidRequest 由表单组装出的门面请求未通过结构体校验，随 *validator.ValidationError 一起返回
	ErrInvalidRequest = errors.New("request is invalid")
	// ErrNilSave 保存流程缺少保存函数
	ErrNilSave = errors.New("pipeline has no save function")
)

// Hook 保存前对表单执行的副作用
type Hook func(root *form.Group)

// Submission 一次提交的内容
type Submission struct {
	Entity string
	Record types.Record
	// Dirty 提交时修改过的顶层字段
	Dirty []string
}

// SaveFunc 把提交写入门面；返回保存后的记录，为 nil 时表单重置为提交的记录
type SaveFunc func(ctx context.Context, sub Submission) (types.Record, error)

// Spec 一个实体的保存流程
type Spec struct {
	Name   string
	Before []Hook
	Save   SaveFunc
}

// Option 流程选项
type Option func(*runner)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type runner struct {
	logger *zap.Logger
}

// Apply 执行保存流程
//
// 查看模式或已释放的表单直接拒绝；表单无效时返回包装 ErrInvalidForm 的 *validator.ValidationError。
// 门面返回错误时表单静默恢复到提交前的快照；成功后静默重置为保存结果并清除脏标记。
func Apply(ctx context.Context, f *registry.Form, spec Spec, opts ...Option) (types.Record, error) {
	r := &runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if spec.Save == nil {
		return nil, ErrNilSave
	}

	switch {
	case f.Disposed():
		return nil, form.ErrDisposed
	case f.ReadOnly() || f.Options.Mode == access.ModeView:
		return nil, form.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.UpdateValidity()
	if report := f.Report(); report != nil {
		r.logger.Warn("save rejected",
			zap.String("pipeline", spec.Name),
			zap.String("entity", f.Entity),
			zap.Int("errors", len(report.Errors)))
		return nil, report.Wrap(ErrInvalidForm)
	}

	snapshot := maps.Clone(f.RawValues())
	dirty := f.DirtyFieldNames()
	for _, hook := range spec.Before {
		hook(f.Group)
	}

	sub := Submission{Entity: f.Entity, Record: f.Record(), Dirty: dirty}
	saved, err := spec.Save(ctx, sub)
	if err != nil {
		f.SilentSetValue(snapshot)
		r.logger.Warn("save failed",
			zap.String("pipeline", spec.Name),
			zap.String("entity", f.Entity),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	if saved == nil {
		saved = sub.Record
	}
	f.Restore(saved)
	r.logger.Debug("form saved",
		zap.String("pipeline", spec.Name),
		zap.String("entity", f.Entity),
		zap.String("form", f.ID))
	return saved, nil
}

// Validate 只做校验，返回报告（有效时为 nil）
func Validate(f *registry.Form) *validator.ValidationError {
	f.UpdateValidity()
	return f.Report()
}

package validator

import (
	"strings"
	"sync"
)

// ============================================================================
// 对象池优化 - 减少内存分配和 GC 压力
// ============================================================================

// maxPooledErrors 归还时错误切片容量的上限，超过则丢弃底层数组
const maxPooledErrors = 1000

var (
	// validationErrorPool ValidationError 对象池
	// 用途：结构体校验过程中收集错误，结束后拷贝结果并归还
	validationErrorPool = sync.Pool{
		New: func() interface{} {
			return &ValidationError{
				Errors: make([]*FieldError, 0, 8),
			}
		},
	}

	// stringBuilderPool strings.Builder 对象池
	stringBuilderPool = sync.Pool{
		New: func() interface{} {
			return &strings.Builder{}
		},
	}
)

// acquireValidationError 从对象池获取 ValidationError，使用后必须调用 releaseValidationError 归还
func acquireValidationError(entity string, scene ValidateScene) *ValidationError {
	ve := validationErrorPool.Get().(*ValidationError)
	ve.Entity = entity
	ve.Scene = scene
	ve.Message = ""
	ve.Errors = ve.Errors[:0]
	return ve
}

// releaseValidationError 将 ValidationError 归还到对象池
func releaseValidationError(ve *ValidationError) {
	if ve == nil {
		return
	}

	// 防止内存泄漏：丢弃大容量的错误列表
	if cap(ve.Errors) > maxPooledErrors {
		ve.Errors = make([]*FieldError, 0, 8)
	} else {
		for i := range ve.Errors {
			ve.Errors[i] = nil
		}
		ve.Errors = ve.Errors[:0]
	}
	ve.Entity = ""
	ve.Message = ""

	validationErrorPool.Put(ve)
}

// detach 拷贝出一个不属于对象池的结果；没有错误时返回 nil
func (ve *ValidationError) detach() *ValidationError {
	if len(ve.Errors) == 0 {
		return nil
	}
	out := &ValidationError{
		Entity:  ve.Entity,
		Scene:   ve.Scene,
		Message: ve.Message,
		Errors:  make([]*FieldError, len(ve.Errors)),
	}
	copy(out.Errors, ve.Errors)
	return out
}

// acquireBuilder 从对象池获取 strings.Builder
func acquireBuilder() *strings.Builder {
	b := stringBuilderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

// releaseBuilder 归还 strings.Builder
func releaseBuilder(b *strings.Builder) {
	if b == nil || b.Cap() > 64*1024 {
		return
	}
	stringBuilderPool.Put(b)
}

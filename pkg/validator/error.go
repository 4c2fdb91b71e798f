package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// errorMessageEstimateLen 单条错误消息的预估长度，用于预分配
const errorMessageEstimateLen = 48

// ValidationError 一次校验的结果，收集所有失败的字段
// 作为 error 使用时，Error() 拼接全部字段错误
type ValidationError struct {
	// Entity 实体名（可选）
	Entity string `json:"entity,omitempty"`
	// Scene 校验场景（结构体校验时有效）
	Scene ValidateScene `json:"scene,omitempty"`
	// Message 总体错误消息（可选）
	Message string `json:"message,omitempty"`
	// Errors 所有字段错误
	Errors []*FieldError `json:"errors,omitempty"`

	cause error
}

// FieldError 单个字段的校验错误
type FieldError struct {
	// Path 字段在表单/结构体中的路径，如 storeDiscounts[0].active
	Path string `json:"path"`
	// Tag 校验标签（如 required、invalidDecimal）
	Tag string `json:"tag"`
	// Param 校验参数（如 maxlength 的 20）
	Param string `json:"param,omitempty"`
	// Value 字段的实际值
	Value any `json:"value,omitempty"`
	// Message 友好的错误消息
	Message string `json:"message,omitempty"`
}

// NewValidationError 创建校验结果
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{
		Entity: entity,
		Errors: make([]*FieldError, 0),
	}
}

// NewFieldError 创建字段错误
func NewFieldError(path, tag, param string) *FieldError {
	return &FieldError{
		Path:  path,
		Tag:   tag,
		Param: param,
	}
}

// Error 实现 error 接口
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		if len(ve.Message) == 0 {
			return "validation passed: no errors"
		}
		return fmt.Sprintf("validation failed: %s", ve.Message)
	}

	builder := acquireBuilder()
	defer releaseBuilder(builder)
	builder.Grow(len(ve.Errors) * errorMessageEstimateLen)

	if ve.Entity != "" {
		builder.WriteString(ve.Entity)
		builder.WriteString(": ")
	}
	for i, err := range ve.Errors {
		if i > 0 {
			builder.WriteString("; ")
		}
		builder.WriteString(err.String())
	}
	return builder.String()
}

// String 返回友好的错误信息
func (fe *FieldError) String() string {
	path := fe.Path
	if path == "" {
		path = "(form)"
	}
	if fe.Message != "" {
		return fmt.Sprintf("field '%s': %s", path, fe.Message)
	}
	return fmt.Sprintf("field '%s' validation failed on tag '%s'", path, fe.Tag)
}

// WithMessage 设置错误消息
func (fe *FieldError) WithMessage(message string) *FieldError {
	fe.Message = message
	return fe
}

// WithValue 设置实际值
func (fe *FieldError) WithValue(value any) *FieldError {
	fe.Value = value
	return fe
}

// Wrap 附加被包装的错误，供 errors.Is 识别
func (ve *ValidationError) Wrap(err error) *ValidationError {
	ve.cause = err
	return ve
}

// Unwrap 返回被包装的错误
func (ve *ValidationError) Unwrap() error {
	return ve.cause
}

// HasErrors 检查是否有校验错误
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// AddError 添加字段错误
func (ve *ValidationError) AddError(err *FieldError) {
	if err != nil {
		ve.Errors = append(ve.Errors, err)
	}
}

// AddErrorByValidator 通过 validator.FieldError 添加字段错误
func (ve *ValidationError) AddErrorByValidator(err validator.FieldError) {
	ve.Errors = append(ve.Errors, &FieldError{
		Path:    trimRootNamespace(err.Namespace()),
		Tag:     err.Tag(),
		Param:   err.Param(),
		Value:   err.Value(),
		Message: err.Error(),
	})
}

// ByPath 按路径获取错误
func (ve *ValidationError) ByPath(path string) []*FieldError {
	var out []*FieldError
	for _, err := range ve.Errors {
		if err.Path == path {
			out = append(out, err)
		}
	}
	return out
}

// ByTag 按标签获取错误
func (ve *ValidationError) ByTag(tag string) []*FieldError {
	var out []*FieldError
	for _, err := range ve.Errors {
		if err.Tag == tag {
			out = append(out, err)
		}
	}
	return out
}

// ToJSON 转换为 JSON 格式
func (ve *ValidationError) ToJSON() ([]byte, error) {
	return json.Marshal(ve)
}

// Message 标签的默认文案
func Message(tag, param string) string {
	tmpl, ok := messages[tag]
	if !ok {
		return fmt.Sprintf("failed on tag '%s'", tag)
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, param)
	}
	return tmpl
}

// trimRootNamespace 去掉结构体命名空间的根类型名：MassAddRequest.stores[0] -> stores[0]
func trimRootNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

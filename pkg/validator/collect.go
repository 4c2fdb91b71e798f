package validator

import (
	"fmt"

	"katydid-backoffice-forms/pkg/form"
)

// Collect 按控件顺序收集表单中所有启用控件的校验错误；表单有效时返回 nil
func Collect(entity string, root form.Control) *ValidationError {
	ve := acquireValidationError(entity, SceneNone)
	defer releaseValidationError(ve)

	collect(root, ve)
	return ve.detach()
}

func collect(c form.Control, ve *ValidationError) {
	if c.Disabled() {
		return
	}
	var value any
	if f, ok := c.(*form.Field); ok {
		value = f.Value()
	}
	errs := c.Errors()
	for _, tag := range errs.Tags() {
		param := paramOf(errs[tag])
		ve.AddError(&FieldError{
			Path:    c.Path(),
			Tag:     tag,
			Param:   param,
			Value:   value,
			Message: Message(tag, param),
		})
	}

	switch cur := c.(type) {
	case *form.Group:
		for _, name := range cur.Names() {
			collect(cur.Control(name), ve)
		}
	case *form.Array:
		for _, item := range cur.Items() {
			collect(item, ve)
		}
	}
}

// paramOf 从错误详情中提取展示用参数
func paramOf(detail any) string {
	m, ok := detail.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"requiredLength", "decimalPlaces", "min", "max", "date", "other", "multipleOf", "missing", "minLength"} {
		if v, ok := m[key]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

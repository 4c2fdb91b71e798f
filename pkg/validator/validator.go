package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidateScene 校验场景标识符，使用位运算支持场景组合
//
//	SceneMassAdd | SceneMassUpdate 表示规则同时适用于批量新增与批量更新
type ValidateScene int64

// 预定义的校验场景
const (
	SceneNone ValidateScene = 0 // 无场景（表单汇总、仅 struct tag）

	SceneMassAdd    ValidateScene = 1 << 0 // 批量新增
	SceneMassUpdate ValidateScene = 1 << 1 // 批量更新
	SceneSearch     ValidateScene = 1 << 2 // 分页查询
)

// RuleValidator 场景化字段规则
// 返回格式：map[场景][json 字段名]规则字符串（go-playground/validator 标签语法）
//
//	func (r *MassAddRequest) RuleValidation() map[ValidateScene]map[string]string {
//	    return map[ValidateScene]map[string]string{
//	        SceneMassAdd: {"stores": "required,min=1"},
//	    }
//	}
type RuleValidator interface {
	RuleValidation() map[ValidateScene]map[string]string
}

// CustomValidator 跨字段与业务规则校验，通过 report 报告错误
type CustomValidator interface {
	CustomValidation(scene ValidateScene, report FuncReportError)
}

// FuncReportError 错误报告函数
type FuncReportError func(path, tag, param string)

// Validator 结构体校验器
// 说明：表单控件的校验走 form.Validator；这里负责门面请求（批量新增/更新）与查询参数
type Validator struct {
	validate *validator.Validate
	// typeCache key: reflect.Type, value: *typeInfo
	typeCache *sync.Map
}

// typeInfo 类型信息缓存，避免重复的类型断言
type typeInfo struct {
	isRuleValidator   bool
	isCustomValidator bool
}

var (
	defaultValidator *Validator
	once             sync.Once
)

// Default 获取默认校验器实例（单例，并发安全）
func Default() *Validator {
	once.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Struct 使用默认校验器校验结构体
func Struct(obj any, scene ValidateScene) *ValidationError {
	return Default().Struct(obj, scene)
}

// New 创建新的校验器实例
func New() *Validator {
	v := validator.New()

	// 使用 json tag 作为字段名，错误路径与 API 载荷一致
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{
		validate:  v,
		typeCache: &sync.Map{},
	}
}

// Var 使用标签规则校验单个值（如 "max=20"），返回底层校验错误
func (v *Validator) Var(value any, tag string) error {
	return v.validate.Var(value, tag)
}

// Struct 校验结构体
//
// 校验顺序：
//  1. RuleValidator 提供的场景规则；未实现时使用 struct tag
//  2. CustomValidator 的跨字段规则
//
// 收集全部错误后统一返回，nil 表示校验通过
func (v *Validator) Struct(obj any, scene ValidateScene) *ValidationError {
	if obj == nil {
		ve := NewValidationError("")
		ve.AddError(NewFieldError("", TagRequired, "").WithMessage("validation target cannot be nil"))
		return ve
	}

	info := v.typeInfoOf(obj)
	ve := acquireValidationError(typeName(obj), scene)
	defer releaseValidationError(ve)

	if info.isRuleValidator {
		v.validateByRules(obj, obj.(RuleValidator).RuleValidation(), ve)
	} else if err := v.validate.Struct(obj); err != nil {
		v.addErrors(err, ve)
	}

	if info.isCustomValidator {
		obj.(CustomValidator).CustomValidation(scene, func(path, tag, param string) {
			ve.AddError(NewFieldError(path, tag, param).WithMessage(Message(tag, param)))
		})
	}

	return ve.detach()
}

func (v *Validator) typeInfoOf(obj any) *typeInfo {
	typ := reflect.TypeOf(obj)
	if cached, ok := v.typeCache.Load(typ); ok {
		return cached.(*typeInfo)
	}
	_, isRule := obj.(RuleValidator)
	_, isCustom := obj.(CustomValidator)
	info := &typeInfo{isRuleValidator: isRule, isCustomValidator: isCustom}
	v.typeCache.Store(typ, info)
	return info
}

// validateByRules 按场景匹配规则，逐字段调用 Var
func (v *Validator) validateByRules(obj any, rules map[ValidateScene]map[string]string, ve *ValidationError) {
	matched := make(map[string]string)
	for scene, sceneRules := range rules {
		if scene&ve.Scene == 0 {
			continue
		}
		for field, rule := range sceneRules {
			matched[field] = rule
		}
	}
	if len(matched) == 0 {
		return
	}

	val := reflect.Indirect(reflect.ValueOf(obj))
	if val.Kind() != reflect.Struct {
		return
	}
	for field, rule := range matched {
		if rule == "" {
			continue
		}
		fv := fieldByJSONName(val, field)
		if !fv.IsValid() || !fv.CanInterface() {
			continue
		}
		if err := v.validate.Var(fv.Interface(), rule); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				ve.AddError(NewFieldError(field, "invalid", "").WithMessage(err.Error()))
				continue
			}
			for _, fe := range verrs {
				ve.AddError(&FieldError{
					Path:    field,
					Tag:     fe.Tag(),
					Param:   fe.Param(),
					Value:   fe.Value(),
					Message: Message(fe.Tag(), fe.Param()),
				})
			}
		}
	}
}

func (v *Validator) addErrors(err error, ve *ValidationError) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			ve.AddErrorByValidator(fe)
		}
		return
	}
	ve.Message = err.Error()
	ve.AddError(NewFieldError("", "invalid", "").WithMessage(err.Error()))
}

// fieldByJSONName 按 json 名或字段名查找结构体字段
func fieldByJSONName(val reflect.Value, name string) reflect.Value {
	if f := val.FieldByName(name); f.IsValid() {
		return f
	}
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		tag := strings.SplitN(typ.Field(i).Tag.Get("json"), ",", 2)[0]
		if tag == name {
			return val.Field(i)
		}
	}
	return reflect.Value{}
}

func typeName(obj any) string {
	typ := reflect.TypeOf(obj)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Name()
}

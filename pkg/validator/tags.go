package validator

// 校验错误标签，UI 按标签映射为可读文案
const (
	TagRequired                = "required"
	TagMaxLength               = "maxlength"
	TagMinLength               = "minlength"
	TagPattern                 = "pattern"
	TagInvalidDecimal          = "invalidDecimal"
	TagMin                     = "min"
	TagMax                     = "max"
	TagInvalidInteger          = "invalidInteger"
	TagDateAfter               = "dateAfter"
	TagDateBefore              = "dateBefore"
	TagNumberGreaterThan       = "numberGreaterThan"
	TagRequiredRelated         = "requiredRelated"
	TagRequiredOrDefaulted     = "requiredOrDefaulted"
	TagInvalidMinOrderQuantity = "invalidMinOrderQuantity"
	TagAtLeastOneDirty         = "atLeastOneDirty"
)

// messages 标签的默认英文文案（%s 处填入参数）
var messages = map[string]string{
	TagRequired:                "is required",
	TagMaxLength:               "must be at most %s characters",
	TagMinLength:               "must be at least %s characters",
	TagPattern:                 "has an invalid format",
	TagInvalidDecimal:          "must be a number with at most %s decimal places within range",
	TagMin:                     "must be at least %s",
	TagMax:                     "must be at most %s",
	TagInvalidInteger:          "must be a whole number",
	TagDateAfter:               "must be after %s",
	TagDateBefore:              "must be before %s",
	TagNumberGreaterThan:       "must be greater than %s",
	TagRequiredRelated:         "requires %s",
	TagRequiredOrDefaulted:     "is required unless the default is used",
	TagInvalidMinOrderQuantity: "must be a multiple of %s",
	TagAtLeastOneDirty:         "change at least one field",
}

package validator

import (
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/types"
)

// ============================================================================
// 表单校验器库
//
// 每个构造函数返回一个 form.Validator：Fn 为纯函数，Refs 列出读取的其他控件，
// 引用控件的值变化时宿主控件会被重新校验。空值一律交由 Required 处理，其余校验器对空值放行
// ============================================================================

// Clock 当前时间来源
type Clock func() time.Time

// fail 构造单标签错误
func fail(tag string, detail any) form.Errors {
	return form.Errors{tag: detail}
}

// Required 必填；IfDirty 时只有被修改过的控件才必填（批量更新补丁）
func Required(cond access.RequiredCondition) form.Validator {
	return form.Validator{
		Key: TagRequired,
		Fn: func(c form.Control) form.Errors {
			if cond == access.IfDirty && !c.Dirty() {
				return nil
			}
			if types.IsEmpty(c.Value()) {
				return fail(TagRequired, true)
			}
			return nil
		},
	}
}

// MaxLength 字符串最大长度（按字符计）
func MaxLength(n int) form.Validator {
	rule := "max=" + strconv.Itoa(n)
	return form.Validator{
		Key: TagMaxLength,
		Fn: func(c form.Control) form.Errors {
			s, ok := types.ToString(c.Value())
			if !ok || s == "" {
				return nil
			}
			if Default().Var(s, rule) != nil {
				return fail(TagMaxLength, map[string]any{"requiredLength": n, "actualLength": len([]rune(s))})
			}
			return nil
		},
	}
}

// MinLength 字符串最小长度（按字符计）
func MinLength(n int) form.Validator {
	rule := "min=" + strconv.Itoa(n)
	return form.Validator{
		Key: TagMinLength,
		Fn: func(c form.Control) form.Errors {
			s, ok := types.ToString(c.Value())
			if !ok || s == "" {
				return nil
			}
			if Default().Var(s, rule) != nil {
				return fail(TagMinLength, map[string]any{"requiredLength": n, "actualLength": len([]rune(s))})
			}
			return nil
		},
	}
}

// Pattern 字符串须整体匹配正则
func Pattern(expr string) form.Validator {
	re := regexp.MustCompile("^(?:" + expr + ")$")
	return form.Validator{
		Key: TagPattern,
		Fn: func(c form.Control) form.Errors {
			s, ok := types.ToString(c.Value())
			if !ok || s == "" {
				return nil
			}
			if !re.MatchString(s) {
				return fail(TagPattern, map[string]any{"requiredPattern": expr, "actualValue": s})
			}
			return nil
		},
	}
}

// DecimalOptions 定点小数规则
type DecimalOptions struct {
	Places int32
	Min    *decimal.Decimal
	Max    *decimal.Decimal
}

// Dec 便于构造 DecimalOptions 的边界值
func Dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Decimal 小数位数超过 Places 或超出 [Min, Max] 时报告 invalidDecimal
func Decimal(opts DecimalOptions) form.Validator {
	return form.Validator{
		Key: TagInvalidDecimal,
		Fn: func(c form.Control) form.Errors {
			v := c.Value()
			if types.IsEmpty(v) {
				return nil
			}
			d, ok := types.ToDecimal(v)
			if !ok ||
				!d.Truncate(opts.Places).Equal(d) ||
				(opts.Min != nil && d.LessThan(*opts.Min)) ||
				(opts.Max != nil && d.GreaterThan(*opts.Max)) {
				return fail(TagInvalidDecimal, map[string]any{"decimalPlaces": opts.Places})
			}
			return nil
		},
	}
}

// IntegerOptions 整数规则
type IntegerOptions struct {
	Min *int64
	Max *int64
}

// Int 便于构造 IntegerOptions 的边界值
func Int(n int64) *int64 {
	return &n
}

// Integer 非整数报告 invalidInteger，越界报告 min / max
func Integer(opts IntegerOptions) form.Validator {
	return form.Validator{
		Key: TagInvalidInteger,
		Fn: func(c form.Control) form.Errors {
			v := c.Value()
			if types.IsEmpty(v) {
				return nil
			}
			i, ok := types.ToInt(v)
			if !ok {
				return fail(TagInvalidInteger, true)
			}
			if opts.Min != nil && i < *opts.Min {
				return fail(TagMin, map[string]any{"min": *opts.Min, "actual": i})
			}
			if opts.Max != nil && i > *opts.Max {
				return fail(TagMax, map[string]any{"max": *opts.Max, "actual": i})
			}
			return nil
		},
	}
}

// dates 取两个控件的日历日期，任一缺失时 ok 为 false
func dates(c, other form.Control) (own, ref time.Time, ok bool) {
	a, okA := types.ToDate(c.Value())
	b, okB := types.ToDate(other.Value())
	if !okA || !okB {
		return time.Time{}, time.Time{}, false
	}
	return types.DateOf(a), types.DateOf(b), true
}

// DateAfter 日期须晚于 other（inclusive 时允许相等）
func DateAfter(other form.Control, inclusive bool) form.Validator {
	return form.Validator{
		Key:  TagDateAfter + ":" + other.Name(),
		Refs: []form.Control{other},
		Fn: func(c form.Control) form.Errors {
			own, ref, ok := dates(c, other)
			if !ok {
				return nil
			}
			if own.After(ref) || (inclusive && own.Equal(ref)) {
				return nil
			}
			return fail(TagDateAfter, map[string]any{"date": ref.Format(types.DateLayout), "inclusive": inclusive})
		},
	}
}

// DateBefore 日期须早于 other（inclusive 时允许相等）
func DateBefore(other form.Control, inclusive bool) form.Validator {
	return form.Validator{
		Key:  TagDateBefore + ":" + other.Name(),
		Refs: []form.Control{other},
		Fn: func(c form.Control) form.Errors {
			own, ref, ok := dates(c, other)
			if !ok {
				return nil
			}
			if own.Before(ref) || (inclusive && own.Equal(ref)) {
				return nil
			}
			return fail(TagDateBefore, map[string]any{"date": ref.Format(types.DateLayout), "inclusive": inclusive})
		},
	}
}

// DateAfterToday 日期须晚于校验时的当天（inclusive 时允许当天），失败标签为 dateAfter
// loc 决定"当天"的时区，nil 时使用 UTC
func DateAfterToday(now Clock, loc *time.Location, inclusive bool) form.Validator {
	if loc == nil {
		loc = time.UTC
	}
	return form.Validator{
		Key: TagDateAfter + ":today",
		Fn: func(c form.Control) form.Errors {
			t, ok := types.ToDate(c.Value())
			if !ok {
				return nil
			}
			own := types.DateOf(t)
			today := types.DateOf(now().In(loc))
			if own.After(today) || (inclusive && own.Equal(today)) {
				return nil
			}
			return fail(TagDateAfter, map[string]any{"date": today.Format(types.DateLayout), "inclusive": inclusive})
		},
	}
}

// NumberGreaterThan 数值须严格大于 other，两者都有值时才校验
func NumberGreaterThan(other form.Control) form.Validator {
	return form.Validator{
		Key:  TagNumberGreaterThan + ":" + other.Name(),
		Refs: []form.Control{other},
		Fn: func(c form.Control) form.Errors {
			own, okA := types.ToDecimal(c.Value())
			ref, okB := types.ToDecimal(other.Value())
			if types.IsEmpty(c.Value()) || types.IsEmpty(other.Value()) || !okA || !okB {
				return nil
			}
			if own.LessThanOrEqual(ref) {
				return fail(TagNumberGreaterThan, map[string]any{"other": other.Name(), "otherValue": ref.String()})
			}
			return nil
		},
	}
}

// ArrayMinLength 数组子项不少于 n 个，失败标签为 required
func ArrayMinLength(n int) form.Validator {
	return form.Validator{
		Key: TagRequired + ":minLength",
		Fn: func(c form.Control) form.Errors {
			arr, ok := c.(*form.Array)
			if !ok || arr.Len() >= n {
				return nil
			}
			return fail(TagRequired, map[string]any{"minLength": n, "actualLength": arr.Len()})
		},
	}
}

// MultipleOf 数值须为 other 的整数倍，两者都有值且 other 非零时才校验
func MultipleOf(other form.Control) form.Validator {
	return form.Validator{
		Key:  TagInvalidMinOrderQuantity + ":" + other.Name(),
		Refs: []form.Control{other},
		Fn: func(c form.Control) form.Errors {
			if types.IsEmpty(c.Value()) || types.IsEmpty(other.Value()) {
				return nil
			}
			own, okA := types.ToDecimal(c.Value())
			ref, okB := types.ToDecimal(other.Value())
			if !okA || !okB || ref.IsZero() {
				return nil
			}
			if !own.Mod(ref).IsZero() {
				return fail(TagInvalidMinOrderQuantity, map[string]any{"multipleOf": ref.String()})
			}
			return nil
		},
	}
}

// RequiredIfFieldPresent other 非空时本控件必填
func RequiredIfFieldPresent(other form.Control) form.Validator {
	return form.Validator{
		Key:  TagRequired + ":present:" + other.Name(),
		Refs: []form.Control{other},
		Fn: func(c form.Control) form.Errors {
			if !types.IsEmpty(other.Value()) && types.IsEmpty(c.Value()) {
				return fail(TagRequired, map[string]any{"presentField": other.Name()})
			}
			return nil
		},
	}
}

// RequiredIfFieldChecked other 勾选时本控件必填
func RequiredIfFieldChecked(other form.Control) form.Validator {
	return form.Validator{
		Key:  TagRequired + ":checked:" + other.Name(),
		Refs: []form.Control{other},
		Fn: func(c form.Control) form.Errors {
			if types.Truthy(other.Value()) && types.IsEmpty(c.Value()) {
				return fail(TagRequired, map[string]any{"checkedField": other.Name()})
			}
			return nil
		},
	}
}

// RequiredRelated 本控件有值时，related 中每个控件都必须有值；缺失的控件名放在错误详情中
func RequiredRelated(related ...form.Control) form.Validator {
	return form.Validator{
		Key:  TagRequiredRelated,
		Refs: related,
		Fn: func(c form.Control) form.Errors {
			if types.IsEmpty(c.Value()) {
				return nil
			}
			var missing []string
			for _, r := range related {
				if r.Enabled() && types.IsEmpty(r.Value()) {
					missing = append(missing, r.Name())
				}
			}
			if len(missing) > 0 {
				return fail(TagRequiredRelated, map[string]any{"missing": missing})
			}
			return nil
		},
	}
}

// RequiredOrDefaulted 本控件与"使用默认值"勾选框二选一：两者都未提供时报告 requiredOrDefaulted
func RequiredOrDefaulted(useDefault form.Control, cond access.RequiredCondition) form.Validator {
	return form.Validator{
		Key:  TagRequiredOrDefaulted,
		Refs: []form.Control{useDefault},
		Fn: func(c form.Control) form.Errors {
			if cond == access.IfDirty && !c.Dirty() && !useDefault.Dirty() {
				return nil
			}
			if types.IsEmpty(c.Value()) && !types.Truthy(useDefault.Value()) {
				return fail(TagRequiredOrDefaulted, map[string]any{"defaultField": useDefault.Name()})
			}
			return nil
		},
	}
}

// AtLeastOneDirty 分组级校验：没有任何子控件被修改过时无效（批量更新补丁）
func AtLeastOneDirty() form.Validator {
	return form.Validator{
		Key: TagAtLeastOneDirty,
		Fn: func(c form.Control) form.Errors {
			g, ok := c.(*form.Group)
			if !ok {
				return nil
			}
			if len(g.DirtyFieldNames()) == 0 {
				return fail(TagAtLeastOneDirty, true)
			}
			return nil
		},
	}
}

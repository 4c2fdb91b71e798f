package rules

import (
	"fmt"

	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// Wire 把一组依赖边挂到实体根分组上
//
// 所有订阅都登记在表单的 Lifetime 上；监听器内的写入通过 form.FireOnce 去重，
// 同一条边在一次外部写入中最多触发一次
func Wire(entity string, root *form.Group, edges []Edge, opts access.Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, e := range edges {
		if !e.ActiveIn(opts.Scope) {
			logger.Debug("edge skipped in scope",
				zap.String("entity", entity), zap.String("edge", e.Name), zap.Stringer("scope", opts.Scope))
			continue
		}
		if err := wireEdge(entity, root, e, opts); err != nil {
			return err
		}
		logger.Debug("edge wired", zap.String("entity", entity), zap.String("edge", e.Name), zap.String("kind", string(e.Kind)))
	}
	return nil
}

func wireEdge(entity string, root *form.Group, e Edge, opts access.Options) error {
	trig, err := resolve(entity, root, e.Trigger)
	if err != nil {
		return err
	}
	if trig.ctrl == nil {
		return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: "trigger cannot be a wildcard path"}
	}
	trigger := trig.ctrl

	targets := make([]target, 0, len(e.Targets))
	for _, p := range e.Targets {
		t, err := resolve(entity, root, p)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}
	eachTarget := func(fn func(form.Control)) {
		for _, t := range targets {
			t.each(fn)
		}
	}
	currentTargets := func() []form.Control {
		var out []form.Control
		for _, t := range targets {
			out = append(out, t.current()...)
		}
		return out
	}
	key := func(c form.Control) string {
		return fmt.Sprintf("%s|%p|%p", e.Name, trigger, c)
	}
	cond := opts.RequiredCondition()

	switch e.Kind {
	case RequiredIfPresent:
		eachTarget(func(c form.Control) { c.AddValidators(validator.RequiredIfFieldPresent(trigger)) })

	case RequiredIfChecked:
		eachTarget(func(c form.Control) { c.AddValidators(validator.RequiredIfFieldChecked(trigger)) })

	case RequiredRelated:
		trigger.AddValidators(validator.RequiredRelated(currentTargets()...))

	case NumberGreaterThan:
		eachTarget(func(c form.Control) { c.AddValidators(validator.NumberGreaterThan(trigger)) })

	case MultipleOf:
		eachTarget(func(c form.Control) { c.AddValidators(validator.MultipleOf(trigger)) })

	case DateAfter:
		eachTarget(func(c form.Control) { c.AddValidators(validator.DateAfter(trigger, e.Inclusive)) })

	case RequiredWhen:
		when := func() bool { return types.CodeOf(trigger.Value()) == e.Equals }
		eachTarget(func(c form.Control) {
			inner := validator.Required(cond)
			if _, ok := c.(*form.Array); ok {
				inner = validator.ArrayMinLength(1)
			}
			c.AddValidators(conditional(inner, trigger, when))
		})

	case ClearOnClear:
		trigger.OnValueChange(func(v any) {
			if !types.IsEmpty(v) {
				return
			}
			for _, c := range currentTargets() {
				if !types.IsEmpty(c.Value()) && form.FireOnce(c, key(c)) {
					clearControl(c)
				}
			}
		})

	case ClearUnless:
		trigger.OnValueChange(func(v any) {
			if types.CodeOf(v) == e.Equals {
				return
			}
			for _, c := range currentTargets() {
				if !types.IsEmpty(c.Value()) && form.FireOnce(c, key(c)) {
					clearControl(c)
				}
			}
		})

	case DefaultWhenSet:
		trigger.OnValueChange(func(v any) {
			if types.IsEmpty(v) {
				return
			}
			for _, c := range currentTargets() {
				if types.IsEmpty(c.Value()) && form.FireOnce(c, key(c)) {
					c.SetValue(e.Default)
				}
			}
		})

	case GroupRevalidate:
		trigger.OnValueChange(func(any) {
			for _, c := range currentTargets() {
				if form.FireOnce(c, key(c)) {
					c.UpdateValidity()
				}
			}
		})

	case EnableWhenChecked:
		apply := func(v any) {
			on := types.Truthy(v)
			for _, c := range currentTargets() {
				if on && c.Disabled() {
					c.Enable()
				} else if !on && c.Enabled() {
					c.Disable()
				}
			}
		}
		if !opts.ReadOnly() {
			apply(trigger.Value())
			trigger.OnValueChange(apply)
		}

	case RequiredOrDefaulted:
		eachTarget(func(c form.Control) {
			c.AddValidators(validator.RequiredOrDefaulted(trigger, cond))
			c.OnValueChange(func(v any) {
				if !types.IsEmpty(v) && types.Truthy(trigger.Value()) && form.FireOnce(trigger, key(c)+"|flag") {
					trigger.SetValue(false)
				}
			})
		})
		trigger.OnValueChange(func(v any) {
			if !types.Truthy(v) {
				return
			}
			for _, c := range currentTargets() {
				if !types.IsEmpty(c.Value()) && form.FireOnce(c, key(c)) {
					c.SetValue(nil)
				}
			}
		})

	default:
		return &InvalidEdgeError{Entity: entity, Edge: e.Name, Reason: fmt.Sprintf("unknown kind %q", e.Kind)}
	}
	return nil
}

// conditional 仅在 when 成立时运行 inner；trigger 变化时重新校验
func conditional(inner form.Validator, trigger form.Control, when func() bool) form.Validator {
	refs := append([]form.Control{trigger}, inner.Refs...)
	return form.Validator{
		Key:  inner.Key + ":when:" + trigger.Name(),
		Refs: refs,
		Fn: func(c form.Control) form.Errors {
			if !when() {
				return nil
			}
			return inner.Fn(c)
		},
	}
}

// clearControl 清空控件：数组移除全部子项，其余写入 nil
func clearControl(c form.Control) {
	if arr, ok := c.(*form.Array); ok {
		_ = arr.Clear()
		return
	}
	c.SetValue(nil)
}

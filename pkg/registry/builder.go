package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// Builder 一次表单构建的上下文，传递给实体工厂
// 嵌套的数组子实体通过同一个 Builder 递归构建，共享访问上下文与释放信号
type Builder struct {
	registry *Registry

	Options  access.Options
	Lifetime *form.Lifetime
	Logger   *zap.Logger
	Clock    validator.Clock
	Location *time.Location
}

// Build 构建实体的根分组（未注册时返回 UnregisteredEntityError）
func (b *Builder) Build(name string, src types.Record) (*form.Group, error) {
	f, err := b.registry.factory(name)
	if err != nil {
		return nil, err
	}
	g, err := f(b, src)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return g, nil
}

// RequiredCondition 当前上下文下的必填条件
func (b *Builder) RequiredCondition() access.RequiredCondition {
	return b.Options.RequiredCondition()
}

// SchemaFactory 由实体声明驱动的通用工厂
func SchemaFactory(s *Schema) Factory {
	return func(b *Builder, src types.Record) (*form.Group, error) {
		return buildSchema(b, s, src)
	}
}

func buildSchema(b *Builder, s *Schema, src types.Record) (*form.Group, error) {
	opts := b.Options
	if s.RequiresMode {
		if err := opts.RequireMode(s.Entity); err != nil {
			return nil, err
		}
	}

	root := form.NewGroup(s.Entity)
	form.Bind(root, b.Lifetime)

	// 1. 控件与初始值
	for _, fd := range s.Fields {
		c, err := buildField(b, s, fd, src)
		if err != nil {
			return nil, err
		}
		root.Add(fd.Name, c)
	}

	// 2. 字段校验器
	cond := opts.RequiredCondition()
	for _, fd := range s.Fields {
		c := root.Control(fd.Name)
		vs := fieldValidators(b, fd, cond)
		if opts.Mode == access.ModeAddLike && contains(s.Policy.Identity, fd.Name) && !fd.Required {
			vs = append(vs, validator.Required(access.Always))
		}
		c.AddValidators(vs...)
	}
	if opts.Scope == access.ScopeMassUpdate && s.Policy.AtLeastOneDirty {
		root.AddValidators(validator.AtLeastOneDirty())
	}

	// 3. 依赖边
	if err := rules.Wire(s.Entity, root, s.Edges, opts, b.Logger); err != nil {
		return nil, err
	}

	// 4. 模式与作用域条件化
	if err := conditionMode(root, s, opts); err != nil {
		return nil, err
	}
	if opts.Scope == access.ScopeGrid {
		for _, name := range s.Policy.GridDisabled {
			if c := root.Control(name); c != nil {
				c.Disable()
			}
		}
	}
	return root, nil
}

// initialValue 按模式/作用域策略确定字段的初始值
func initialValue(s *Schema, fd Field, src types.Record, opts access.Options) any {
	v := types.Coerce(fd.Kind, src[fd.Name])
	p := s.Policy

	switch opts.Mode {
	case access.ModeAdd:
		if v == nil && !opts.SkipDefaults() {
			if d, ok := p.Defaults[fd.Name]; ok {
				v = d
			}
		}
	case access.ModeAddLike:
		if fd.Name == p.Key || contains(p.Identity, fd.Name) {
			v = nil
		}
		if fd.Name == p.ForceActive {
			v = true
		}
	}
	return v
}

func buildField(b *Builder, s *Schema, fd Field, src types.Record) (form.Control, error) {
	if fd.Kind != types.KindArray {
		return form.NewField(initialValue(s, fd, src, b.Options)), nil
	}

	itemFactory := func(v any) (form.Control, error) {
		m, _ := v.(map[string]any)
		return b.Build(fd.Entity, types.Record(m))
	}
	arr := form.NewArray(itemFactory)
	for _, item := range src.GetRecords(fd.Name) {
		g, err := b.Build(fd.Entity, item)
		if err != nil {
			return nil, err
		}
		if err := arr.Push(g); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

func fieldValidators(b *Builder, fd Field, cond access.RequiredCondition) []form.Validator {
	var vs []form.Validator
	if fd.Required {
		if fd.Kind == types.KindArray {
			vs = append(vs, validator.ArrayMinLength(1))
		} else {
			vs = append(vs, validator.Required(cond))
		}
	}
	if fd.MinItems > 0 {
		vs = append(vs, validator.ArrayMinLength(fd.MinItems))
	}
	for _, r := range fd.Rules {
		if !r.activeIn(b.Options.Mode) {
			continue
		}
		switch r.Kind {
		case RuleMaxLength:
			vs = append(vs, validator.MaxLength(r.N))
		case RuleMinLength:
			vs = append(vs, validator.MinLength(r.N))
		case RulePattern:
			vs = append(vs, validator.Pattern(r.Pattern))
		case RuleDecimal:
			vs = append(vs, validator.Decimal(validator.DecimalOptions{
				Places: r.Places,
				Min:    decimalBound(r.Min),
				Max:    decimalBound(r.Max),
			}))
		case RuleInteger:
			vs = append(vs, validator.Integer(validator.IntegerOptions{
				Min: intBound(r.Min),
				Max: intBound(r.Max),
			}))
		case RuleDateAfterToday:
			vs = append(vs, validator.DateAfterToday(b.Clock, b.Location, r.Inclusive))
		}
	}
	return vs
}

func decimalBound(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	return validator.Dec(s)
}

func intBound(s string) *int64 {
	if s == "" {
		return nil
	}
	i, ok := types.ToInt(s)
	if !ok {
		return nil
	}
	return validator.Int(i)
}

// modeConditioner 访问模式条件化，穷举实现 access.ModeVisitor
type modeConditioner struct {
	root   *form.Group
	schema *Schema
}

func (m modeConditioner) Add() {}

func (m modeConditioner) Edit() {
	m.disable(m.schema.Policy.Immutable)
	m.disable(m.schema.Policy.Identity)
}

func (m modeConditioner) View() {
	form.MakeReadOnly(m.root)
}

// AddLike 身份字段已在初始值阶段清空并追加必填
func (m modeConditioner) AddLike() {}

func (m modeConditioner) disable(names []string) {
	for _, name := range names {
		if c := m.root.Control(name); c != nil {
			c.Disable()
		}
	}
}

func conditionMode(root *form.Group, s *Schema, opts access.Options) error {
	if !opts.Mode.IsSet() && !s.RequiresMode {
		return nil
	}
	return access.Visit(opts.Mode, modeConditioner{root: root, schema: s})
}

// checkSchema 注册前的静态检查
func checkSchema(s *Schema) error {
	if s.Entity == "" {
		return &InvalidSchemaError{Entity: s.Entity, Reason: "entity name is empty"}
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, fd := range s.Fields {
		if _, dup := seen[fd.Name]; dup {
			return &InvalidSchemaError{Entity: s.Entity, Reason: fmt.Sprintf("duplicate field %q", fd.Name)}
		}
		seen[fd.Name] = struct{}{}
		if fd.Kind == types.KindArray && fd.Entity == "" {
			return &InvalidSchemaError{Entity: s.Entity, Reason: fmt.Sprintf("array field %q has no entity", fd.Name)}
		}
	}
	p := s.Policy
	names := append(append(append([]string{}, p.Immutable...), p.Identity...), p.GridDisabled...)
	if p.ForceActive != "" {
		names = append(names, p.ForceActive)
	}
	for name := range p.Defaults {
		names = append(names, name)
	}
	for _, name := range names {
		if _, ok := s.field(name); !ok {
			return &InvalidSchemaError{Entity: s.Entity, Reason: fmt.Sprintf("policy references unknown field %q", name)}
		}
	}
	for _, e := range s.Edges {
		for _, path := range append([]string{e.Trigger}, e.Targets...) {
			if _, ok := s.field(pathHead(path)); !ok {
				return &rules.UnknownPathError{Entity: s.Entity, Path: path}
			}
		}
	}
	return rules.Check(s.Entity, s.Edges)
}

// pathHead 路径的首段字段名，如 storeDiscounts[*].active 的 storeDiscounts
func pathHead(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

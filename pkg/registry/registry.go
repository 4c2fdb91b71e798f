// Package registry 实体表单注册表：按实体名注册工厂，按源数据与访问上下文构建表单实例
package registry

import (
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// entityNameRegex 实体名的合法字符：字母开头，字母与数字
var entityNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// Factory 实体工厂：根据源记录构建实体的根分组
type Factory func(b *Builder, src types.Record) (*form.Group, error)

// Registry 实体表单注册表
// 说明：应用启动时构建一次并注入给所有使用方，不使用全局单例
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	schemas   map[string]*Schema
	order     []string

	logger   *zap.Logger
	clock    validator.Clock
	location *time.Location
}

// Option 注册表选项
type Option func(*Registry)

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock 设置时间来源（日期类校验使用）
func WithClock(clock validator.Clock) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLocation 设置"当天"的时区
func WithLocation(loc *time.Location) Option {
	return func(r *Registry) {
		if loc != nil {
			r.location = loc
		}
	}
}

// New 创建注册表
func New(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		schemas:   make(map[string]*Schema),
		logger:    zap.NewNop(),
		clock:     time.Now,
		location:  time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register 注册实体工厂；重复注册会覆盖旧工厂
func (r *Registry) Register(name string, factory Factory) error {
	if !entityNameRegex.MatchString(name) {
		return ErrInvalidEntityName
	}
	if factory == nil {
		return ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		r.logger.Warn("entity factory replaced", zap.String("entity", name))
	} else {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
	return nil
}

// RegisterSchema 校验实体声明并注册由声明驱动的工厂
func (r *Registry) RegisterSchema(s Schema) error {
	if err := checkSchema(&s); err != nil {
		return err
	}
	if err := r.Register(s.Entity, SchemaFactory(&s)); err != nil {
		return err
	}
	r.mu.Lock()
	r.schemas[s.Entity] = &s
	r.mu.Unlock()
	return nil
}

// Entities 已注册的实体名（按注册顺序）
func (r *Registry) Entities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Schema 获取实体声明（仅声明驱动的实体）
func (r *Registry) Schema(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Coerce 按实体声明规整记录中的值（递归处理数组子实体），未声明的实体原样返回
func (r *Registry) Coerce(name string, rec types.Record) types.Record {
	s, ok := r.Schema(name)
	if !ok || rec == nil {
		return rec
	}
	out := make(types.Record, len(s.Fields))
	for _, fd := range s.Fields {
		v, present := rec[fd.Name]
		if !present {
			continue
		}
		if fd.Kind != types.KindArray {
			out[fd.Name] = types.Coerce(fd.Kind, v)
			continue
		}
		items := rec.GetRecords(fd.Name)
		coerced := make([]any, len(items))
		for i, item := range items {
			coerced[i] = map[string]any(r.Coerce(fd.Entity, item))
		}
		out[fd.Name] = coerced
	}
	return out
}

// Catalogue 所有声明驱动实体的依赖边
func (r *Registry) Catalogue() rules.Catalogue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := make(rules.Catalogue, len(r.schemas))
	for name, s := range r.schemas {
		c[name] = s.Edges
	}
	return c
}

func (r *Registry) factory(name string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnregisteredEntityError{Entity: name}
	}
	return f, nil
}

// Group 构建实体表单实例
// src 可以是 map[string]any、types.Record 或 nil（空白实体）；lt 为释放信号，nil 时由实例自行持有
func (r *Registry) Group(name string, src map[string]any, lt *form.Lifetime, opts access.Options) (*Form, error) {
	if lt == nil {
		lt = form.NewLifetime()
	}
	b := &Builder{registry: r, Options: opts, Lifetime: lt, Logger: r.logger, Clock: r.clock, Location: r.location}
	root, err := b.Build(name, types.Record(src))
	if err != nil {
		return nil, err
	}
	form.Bind(root, lt)

	if opts.ChangeDetector != nil {
		root.OnSettled(opts.ChangeDetector)
	}
	f := &Form{ID: uuid.NewString(), Entity: name, Group: root, Options: opts, registry: r, lifetime: lt}
	r.logger.Debug("form built",
		zap.String("entity", name),
		zap.String("form_id", f.ID),
		zap.Stringer("mode", opts.Mode),
		zap.Stringer("scope", opts.Scope))
	lt.Track(func() {
		r.logger.Debug("form disposed", zap.String("entity", name), zap.String("form_id", f.ID))
	})
	return f, nil
}

// Array 为一组源记录构建表单实例，共享同一个释放信号
func (r *Registry) Array(name string, srcs []map[string]any, lt *form.Lifetime, opts access.Options) ([]*Form, error) {
	if lt == nil {
		lt = form.NewLifetime()
	}
	out := make([]*Form, 0, len(srcs))
	for _, src := range srcs {
		f, err := r.Group(name, src, lt, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

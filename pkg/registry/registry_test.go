package registry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

var today = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func itemSchema() Schema {
	return Schema{
		Entity: "Item",
		Fields: []Field{
			{Name: "store", Kind: types.KindCode, Required: true},
			{Name: "active", Kind: types.KindBool},
		},
		Policy: Policy{GridDisabled: []string{"active"}},
	}
}

func orderSchema() Schema {
	return Schema{
		Entity:       "Order",
		RequiresMode: true,
		Fields: []Field{
			{Name: "id", Kind: types.KindInteger},
			{Name: "code", Kind: types.KindString, Required: true, Rules: []Rule{MaxLen(5)}},
			{Name: "store", Kind: types.KindCode, Required: true},
			{Name: "startDate", Kind: types.KindDate, Rules: []Rule{AfterToday(true, access.ModeAdd)}},
			{Name: "amount", Kind: types.KindDecimal, Rules: []Rule{Decimal(2, "0", "100")}},
			{Name: "qty", Kind: types.KindInteger, Rules: []Rule{Integer("1", "")}},
			{Name: "active", Kind: types.KindBool},
			{Name: "items", Kind: types.KindArray, Entity: "Item"},
		},
		Edges: []rules.Edge{
			{Name: "qty-needs-amount", Kind: rules.RequiredIfPresent, Trigger: "qty", Targets: []string{"amount"}},
		},
		Policy: Policy{
			Key:             "id",
			Immutable:       []string{"code"},
			Identity:        []string{"store"},
			ForceActive:     "active",
			GridDisabled:    []string{"active"},
			Defaults:        map[string]any{"active": false},
			AtLeastOneDirty: true,
		},
	}
}

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(WithClock(func() time.Time { return today }))
	require.NoError(t, r.RegisterSchema(itemSchema()))
	require.NoError(t, r.RegisterSchema(orderSchema()))
	return r
}

func source() map[string]any {
	return map[string]any{
		"id":        int64(7),
		"code":      "A1",
		"store":     types.NewCode("S1"),
		"startDate": "2026-03-10",
		"amount":    "12.5",
		"qty":       int64(3),
		"active":    false,
		"items": []any{
			map[string]any{"store": types.NewCode("S2"), "active": true},
		},
	}
}

func TestRegister(t *testing.T) {
	r := New()

	t.Run("非法实体名", func(t *testing.T) {
		err := r.Register("1bad", func(*Builder, types.Record) (*form.Group, error) { return form.NewGroup(""), nil })
		assert.ErrorIs(t, err, ErrInvalidEntityName)
	})

	t.Run("nil 工厂", func(t *testing.T) {
		assert.ErrorIs(t, r.Register("Thing", nil), ErrNilFactory)
	})

	t.Run("声明引用未知字段", func(t *testing.T) {
		s := itemSchema()
		s.Policy.Immutable = []string{"nope"}
		var invalid *InvalidSchemaError
		assert.ErrorAs(t, r.RegisterSchema(s), &invalid)
	})

	t.Run("依赖边路径未知", func(t *testing.T) {
		s := itemSchema()
		s.Edges = []rules.Edge{{Name: "x", Kind: rules.ClearOnClear, Trigger: "store", Targets: []string{"missing"}}}
		var unknown *rules.UnknownPathError
		assert.ErrorAs(t, r.RegisterSchema(s), &unknown)
	})

	t.Run("注册顺序", func(t *testing.T) {
		reg := newRegistry(t)
		assert.Equal(t, []string{"Item", "Order"}, reg.Entities())
		_, ok := reg.Schema("Order")
		assert.True(t, ok)
		assert.Len(t, reg.Catalogue()["Order"], 1)
	})
}

func TestGroupErrors(t *testing.T) {
	r := newRegistry(t)

	t.Run("未注册实体", func(t *testing.T) {
		_, err := r.Group("Nope", nil, nil, access.Options{Mode: access.ModeAdd})
		var unregistered *UnregisteredEntityError
		require.ErrorAs(t, err, &unregistered)
		assert.Equal(t, "Nope", unregistered.Entity)
	})

	t.Run("缺少访问模式", func(t *testing.T) {
		_, err := r.Group("Order", source(), nil, access.Options{})
		var missing *access.MissingAccessModeError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "Order", missing.Entity)
	})

	t.Run("未知访问模式", func(t *testing.T) {
		_, err := r.Group("Order", source(), nil, access.Options{Mode: access.Mode(42)})
		var unhandled *access.UnhandledAccessModeError
		assert.True(t, errors.As(err, &unhandled))
	})
}

func TestRoundTrip(t *testing.T) {
	r := newRegistry(t)
	src := source()

	f, err := r.Group("Order", src, nil, access.Options{Mode: access.ModeEdit})
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.True(t, f.Valid(), f.Report())

	raw := types.Export(f.RawValue()).(map[string]any)
	assert.Equal(t, int64(7), raw["id"])
	assert.Equal(t, "A1", raw["code"])
	assert.Equal(t, types.NewCode("S1"), raw["store"])
	assert.Equal(t, "2026-03-10", raw["startDate"])
	assert.Equal(t, "12.5", raw["amount"])
	assert.Equal(t, false, raw["active"])
	items := raw["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, types.NewCode("S2"), items[0].(map[string]any)["store"])
}

func TestModeConditioning(t *testing.T) {
	r := newRegistry(t)

	t.Run("新增模式应用默认值", func(t *testing.T) {
		f, err := r.Group("Order", nil, nil, access.Options{Mode: access.ModeAdd})
		require.NoError(t, err)
		assert.Equal(t, false, f.Field("active").Value())
		assert.True(t, f.Field("code").HasError(validator.TagRequired))
	})

	t.Run("新增模式校验开始日期", func(t *testing.T) {
		f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeAdd})
		require.NoError(t, err)
		start := f.Field("startDate")
		assert.False(t, start.HasError(validator.TagDateAfter))
		start.SetValue("2026-03-09")
		assert.True(t, start.HasError(validator.TagDateAfter))
	})

	t.Run("编辑模式不校验开始日期", func(t *testing.T) {
		f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeEdit})
		require.NoError(t, err)
		f.Field("startDate").SetValue("2020-01-01")
		assert.False(t, f.Field("startDate").HasError(validator.TagDateAfter))
	})

	t.Run("编辑模式禁用不可变字段", func(t *testing.T) {
		f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeEdit})
		require.NoError(t, err)
		assert.True(t, f.Field("code").Disabled())
		assert.True(t, f.Field("store").Disabled())
		assert.True(t, f.Field("amount").Enabled())
		_, ok := f.Value().(map[string]any)["code"]
		assert.False(t, ok)
	})

	t.Run("参照新增清空身份并强制启用", func(t *testing.T) {
		f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeAddLike})
		require.NoError(t, err)
		assert.Nil(t, f.Field("id").Value())
		assert.Nil(t, f.Field("store").Value())
		assert.True(t, f.Field("store").HasError(validator.TagRequired))
		assert.Equal(t, true, f.Field("active").Value())
		assert.Equal(t, "A1", f.Field("code").Value())
	})

	t.Run("查看模式只读", func(t *testing.T) {
		f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeView})
		require.NoError(t, err)
		assert.True(t, f.ReadOnly())
		assert.True(t, f.Field("amount").Disabled())
		assert.ErrorIs(t, f.Field("amount").TrySetValue("1"), form.ErrReadOnly)
		assert.Equal(t, "12.5", types.Export(f.Field("amount").Value()))
	})
}

func TestScopeConditioning(t *testing.T) {
	r := newRegistry(t)

	t.Run("表格作用域禁用字段", func(t *testing.T) {
		f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeEdit, Scope: access.ScopeGrid})
		require.NoError(t, err)
		assert.True(t, f.Field("active").Disabled())
		item := f.Array("items").At(0).(*form.Group)
		assert.True(t, item.Field("active").Disabled())
	})

	t.Run("批量更新至少修改一个字段", func(t *testing.T) {
		f, err := r.Group("Order", nil, nil, access.Options{Mode: access.ModeEdit, Scope: access.ScopeMassUpdate})
		require.NoError(t, err)
		assert.Nil(t, f.Field("active").Value())
		assert.True(t, f.HasError(validator.TagAtLeastOneDirty))
		assert.False(t, f.Field("code").HasError(validator.TagRequired))
		assert.True(t, f.Invalid())

		f.Field("amount").Input("5")
		assert.False(t, f.HasError(validator.TagAtLeastOneDirty))
		assert.True(t, f.Valid(), f.Report())
	})
}

func TestNestedArray(t *testing.T) {
	r := newRegistry(t)
	f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeEdit})
	require.NoError(t, err)

	items := f.Array("items")
	require.NoError(t, items.Push(mustItem(t, r)))
	assert.Equal(t, 2, items.Len())
	assert.True(t, f.Invalid())
	assert.Equal(t, "items[1].store", items.At(1).(*form.Group).Control("store").Path())

	items.SetValue([]any{map[string]any{"store": types.NewCode("S9")}})
	assert.Equal(t, 1, items.Len())
	assert.True(t, f.Valid())
}

func mustItem(t *testing.T, r *Registry) *form.Group {
	t.Helper()
	b := &Builder{registry: r, Options: access.Options{Mode: access.ModeEdit}, Lifetime: form.NewLifetime()}
	g, err := b.Build("Item", nil)
	require.NoError(t, err)
	return g
}

func TestDispose(t *testing.T) {
	r := newRegistry(t)
	lt := form.NewLifetime()
	forms, err := r.Array("Order", []map[string]any{source(), source()}, lt, access.Options{Mode: access.ModeEdit})
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.NotEqual(t, forms[0].ID, forms[1].ID)

	qty := forms[0].Field("qty")
	lt.Dispose()
	lt.Dispose()
	assert.True(t, forms[0].Disposed())
	assert.True(t, forms[1].Disposed())
	assert.ErrorIs(t, qty.TrySetValue(int64(4)), form.ErrDisposed)
}

func TestChangeDetector(t *testing.T) {
	r := newRegistry(t)
	calls := 0
	f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeEdit, ChangeDetector: func() { calls++ }})
	require.NoError(t, err)

	f.Field("qty").SetValue(int64(2))
	assert.Equal(t, 1, calls)
	f.Field("amount").SetValue(nil)
	assert.Equal(t, 2, calls)
	assert.True(t, f.Field("amount").HasError(validator.TagRequired))
}

func TestCoerceAndRestore(t *testing.T) {
	r := newRegistry(t)
	rec := types.Record{
		"id":     json.Number("7"),
		"code":   "A1",
		"store":  map[string]any{"code": "S1"},
		"amount": "12.50",
		"qty":    json.Number("4"),
		"extra":  "ignored",
		"items":  []any{map[string]any{"store": map[string]any{"code": "S2"}, "active": true}},
	}

	got := r.Coerce("Order", rec)
	assert.Equal(t, int64(7), got["id"])
	assert.Equal(t, types.NewCode("S1"), got["store"])
	assert.Equal(t, int64(4), got["qty"])
	assert.NotContains(t, got, "extra")
	items, ok := got["items"].([]any)
	require.True(t, ok)
	assert.Equal(t, types.NewCode("S2"), items[0].(map[string]any)["store"])
	assert.Equal(t, rec, r.Coerce("Unknown", rec), "未声明的实体原样返回")

	f, err := r.Group("Order", source(), nil, access.Options{Mode: access.ModeEdit})
	require.NoError(t, err)
	t.Cleanup(f.Dispose)
	f.Field("qty").Input(int64(9))
	require.True(t, f.Dirty())

	f.Restore(rec)
	assert.True(t, f.Pristine())
	assert.Equal(t, int64(4), f.Field("qty").Value())
	assert.Equal(t, types.NewCode("S2"), f.Get("items[0].store").Value())
}

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/entities"
	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(registry.WithClock(func() time.Time { return now }))
	require.NoError(t, entities.Register(r))
	return r
}

func build(t *testing.T, entity string, src map[string]any, opts access.Options) *registry.Form {
	t.Helper()
	f, err := newRegistry(t).Group(entity, src, nil, opts)
	require.NoError(t, err)
	t.Cleanup(f.Dispose)
	return f
}

func discountSource() map[string]any {
	return map[string]any{
		"id":             int64(11),
		"code":           "SPRING",
		"description":    "Spring sale",
		"company":        types.NewCode("C1"),
		"type":           types.NewCode(entities.TypeTransaction),
		"startDate":      "2026-03-10",
		"endDate":        "2026-04-01",
		"expirationDate": "2026-05-01",
		"active":         true,
		"storeDiscounts": []any{
			map[string]any{"store": types.NewCode("S1"), "active": true},
			map[string]any{"store": types.NewCode("S2"), "active": true},
		},
	}
}

type fakeDiscounts struct {
	facade.DiscountFacade
	saved *model.Discount
	err   error
}

func (f *fakeDiscounts) Save(_ context.Context, d *model.Discount) (*model.Discount, error) {
	f.saved = d
	if f.err != nil {
		return nil, f.err
	}
	out := *d
	out.Description = "Saved: " + d.Description
	return &out, nil
}

type fakeStoreProducts struct {
	facade.StoreProductFacade
	massAdd    facade.MassAddRequest
	massUpdate facade.MassUpdateRequest
	dirty      []string
}

func (f *fakeStoreProducts) Add(_ context.Context, req facade.MassAddRequest) (int64, error) {
	f.massAdd = req
	return int64(len(req.Stores) * len(req.Products)), nil
}

func (f *fakeStoreProducts) MassUpdate(_ context.Context, req facade.MassUpdateRequest, dirty []string) (int64, error) {
	f.massUpdate = req
	f.dirty = dirty
	return int64(len(req.IDs)), nil
}

func TestApply_SaveDiscount(t *testing.T) {
	ctx := context.Background()

	t.Run("保存前停用门店折扣", func(t *testing.T) {
		f := build(t, entities.Discount, discountSource(), access.Options{Mode: access.ModeEdit})
		fc := &fakeDiscounts{}
		f.Field("active").Input(false)
		require.True(t, f.Dirty())

		rec, err := Apply(ctx, f, SaveDiscount(fc))
		require.NoError(t, err)
		require.NotNil(t, fc.saved)
		assert.Equal(t, "SPRING", fc.saved.Code)
		assert.False(t, fc.saved.Active)
		require.Len(t, fc.saved.StoreDiscounts, 2)
		for _, sd := range fc.saved.StoreDiscounts {
			assert.False(t, sd.Active)
		}

		assert.Equal(t, "Saved: Spring sale", rec["description"])
		assert.Equal(t, "Saved: Spring sale", f.Field("description").Value())
		assert.True(t, f.Pristine())
	})

	t.Run("门面失败时恢复快照", func(t *testing.T) {
		f := build(t, entities.Discount, discountSource(), access.Options{Mode: access.ModeEdit})
		boom := errors.New("boom")
		fc := &fakeDiscounts{err: boom}
		f.Field("active").Input(false)

		_, err := Apply(ctx, f, SaveDiscount(fc))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, false, f.Field("active").Value())
		assert.Equal(t, true, f.Get("storeDiscounts[0].active").Value(), "副作用被回滚")
		assert.True(t, f.Dirty())
	})

	t.Run("无效表单", func(t *testing.T) {
		f := build(t, entities.Discount, discountSource(), access.Options{Mode: access.ModeEdit})
		fc := &fakeDiscounts{}
		f.Field("description").Input("")

		_, err := Apply(ctx, f, SaveDiscount(fc))
		require.ErrorIs(t, err, ErrInvalidForm)
		var ve *validator.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.NotEmpty(t, ve.ByPath("description"))
		assert.Nil(t, fc.saved, "未调用门面")
	})

	t.Run("查看模式", func(t *testing.T) {
		f := build(t, entities.Discount, discountSource(), access.Options{Mode: access.ModeView})
		_, err := Apply(ctx, f, SaveDiscount(&fakeDiscounts{}))
		assert.ErrorIs(t, err, form.ErrReadOnly)
	})

	t.Run("已释放", func(t *testing.T) {
		f := build(t, entities.Discount, discountSource(), access.Options{Mode: access.ModeEdit})
		f.Dispose()
		_, err := Apply(ctx, f, SaveDiscount(&fakeDiscounts{}))
		assert.ErrorIs(t, err, form.ErrDisposed)
	})

	t.Run("缺少保存函数", func(t *testing.T) {
		f := build(t, entities.Discount, discountSource(), access.Options{Mode: access.ModeEdit})
		_, err := Apply(ctx, f, Spec{Name: "noop"})
		assert.ErrorIs(t, err, ErrNilSave)
	})
}

func TestApply_MassOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("批量更新只提交修改过的字段", func(t *testing.T) {
		f := build(t, entities.StoreProductPatch, nil,
			access.Options{Mode: access.ModeEdit, Scope: access.ScopeMassUpdate})
		fc := &fakeStoreProducts{}

		_, err := Apply(ctx, f, MassUpdate(fc, []int64{1, 2}, nil))
		require.ErrorIs(t, err, ErrInvalidForm, "至少修改一个字段")

		f.Field("price").Input("5.55")
		var n int64
		_, err = Apply(ctx, f, MassUpdate(fc, []int64{1, 2}, &n))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, []string{"price"}, fc.dirty)
		assert.Equal(t, []int64{1, 2}, fc.massUpdate.IDs)
		assert.Equal(t, "5.55", fc.massUpdate.Patch.Price.Decimal.String())
		assert.True(t, f.Pristine())
	})

	t.Run("批量新增", func(t *testing.T) {
		f := build(t, entities.StoreProductMassAdd, nil, access.Options{Mode: access.ModeAdd})
		fc := &fakeStoreProducts{}
		f.PatchValue(map[string]any{"price": "3.00"})
		f.Array("stores").SetValue([]any{map[string]any{"store": types.NewCode("S1")}})
		f.Array("products").SetValue([]any{
			map[string]any{"product": types.NewCode("P1")},
			map[string]any{"product": types.NewCode("P2")},
		})

		var n int64
		_, err := Apply(ctx, f, MassAdd(fc, &n))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, []string{"S1"}, fc.massAdd.Stores)
		assert.Equal(t, []string{"P1", "P2"}, fc.massAdd.Products)
		assert.True(t, fc.massAdd.Template.Active)
		assert.True(t, fc.massAdd.Template.UseDefaultVendor)
		assert.Equal(t, "3", fc.massAdd.Template.Price.Decimal.String())
	})
}

func TestMassRequestValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("批量新增门店为空时不调用门面", func(t *testing.T) {
		fc := &fakeStoreProducts{}
		var n int64
		_, err := MassAdd(fc, &n).Save(ctx, Submission{
			Entity: entities.StoreProductMassAdd,
			Record: types.Record{
				"stores":   []any{},
				"products": []any{map[string]any{"product": map[string]any{"code": "P1"}}},
			},
		})
		require.ErrorIs(t, err, ErrInvalidRequest)
		var ve *validator.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.ByPath("stores"), 1)
		assert.Equal(t, validator.TagRequired, ve.ByPath("stores")[0].Tag)
		assert.Equal(t, validator.SceneMassAdd, ve.Scene)
		assert.Nil(t, fc.massAdd.Products, "门面未被调用")
		assert.Zero(t, n)
	})

	t.Run("批量更新缺少 id 时回滚并报告", func(t *testing.T) {
		f := build(t, entities.StoreProductPatch, nil,
			access.Options{Mode: access.ModeEdit, Scope: access.ScopeMassUpdate})
		fc := &fakeStoreProducts{}
		f.Field("price").Input("5.55")

		_, err := Apply(ctx, f, MassUpdate(fc, nil, nil))
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.NotErrorIs(t, err, ErrInvalidForm)
		var ve *validator.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.ByPath("ids"), 1)
		assert.Nil(t, fc.massUpdate.IDs, "门面未被调用")
		assert.True(t, f.Dirty(), "失败后表单保持未提交状态")
	})
}

package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type massRequest struct {
	Stores   []string `json:"stores"`
	Products []string `json:"products"`
	Price    float64  `json:"price"`
}

func (r *massRequest) RuleValidation() map[ValidateScene]map[string]string {
	return map[ValidateScene]map[string]string{
		SceneMassAdd:                   {"stores": "required,min=1", "products": "required,min=1"},
		SceneMassAdd | SceneMassUpdate: {"price": "gte=0"},
	}
}

func (r *massRequest) CustomValidation(scene ValidateScene, report FuncReportError) {
	if scene == SceneMassAdd && len(r.Stores) > 0 && len(r.Stores)*len(r.Products) > 4 {
		report("stores", "max", "4")
	}
}

type tagged struct {
	Name string `json:"name" validate:"required,max=5"`
}

func TestValidator_Struct(t *testing.T) {
	t.Run("场景规则", func(t *testing.T) {
		ve := Struct(&massRequest{Price: -1}, SceneMassAdd)
		require.NotNil(t, ve)
		assert.Len(t, ve.ByPath("stores"), 1)
		assert.Len(t, ve.ByPath("products"), 1)
		assert.Len(t, ve.ByTag("gte"), 1)
		assert.Equal(t, "massRequest", ve.Entity)
	})

	t.Run("不匹配的场景不校验", func(t *testing.T) {
		assert.Nil(t, Struct(&massRequest{Price: 1}, SceneMassUpdate))
	})

	t.Run("跨字段规则", func(t *testing.T) {
		ve := Struct(&massRequest{Stores: []string{"1", "2", "3"}, Products: []string{"a", "b"}}, SceneMassAdd)
		require.NotNil(t, ve)
		errs := ve.ByTag("max")
		require.Len(t, errs, 1)
		assert.Equal(t, "must be at most 4", errs[0].Message)
	})

	t.Run("struct tag", func(t *testing.T) {
		ve := New().Struct(tagged{Name: "toolong"}, SceneNone)
		require.NotNil(t, ve)
		assert.Equal(t, "name", ve.Errors[0].Path)
		assert.Equal(t, "max", ve.Errors[0].Tag)
		assert.Nil(t, New().Struct(tagged{Name: "ok"}, SceneNone))
	})

	t.Run("nil", func(t *testing.T) {
		ve := Struct(nil, SceneNone)
		require.NotNil(t, ve)
		assert.True(t, ve.HasErrors())
	})
}

func TestValidationError_JSON(t *testing.T) {
	ve := NewValidationError("Discount")
	ve.AddError(NewFieldError("code", TagRequired, "").WithMessage(Message(TagRequired, "")))
	ve.AddError(nil)

	data, err := ve.ToJSON()
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Discount", back["entity"])
	assert.Len(t, back["errors"], 1)

	assert.Equal(t, "validation passed: no errors", NewValidationError("").Error())
	assert.Equal(t, "failed on tag 'custom'", Message("custom", ""))
}

func TestPool_Detach(t *testing.T) {
	ve := acquireValidationError("x", SceneSearch)
	ve.AddError(NewFieldError("a", TagRequired, ""))
	out := ve.detach()
	releaseValidationError(ve)

	require.NotNil(t, out)
	assert.Len(t, out.Errors, 1)
	assert.Equal(t, "a", out.Errors[0].Path)

	again := acquireValidationError("y", SceneNone)
	assert.Empty(t, again.Errors)
	assert.Nil(t, again.detach())
	releaseValidationError(again)
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/pipeline"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// EntityInfo 实体的字段与依赖边
type EntityInfo struct {
	Entity       string       `json:"entity"`
	RequiresMode bool         `json:"requiresMode"`
	Fields       []string     `json:"fields"`
	Edges        []rules.Edge `json:"edges"`
}

// ValidateResponse 表单校验结果
type ValidateResponse struct {
	Valid  bool                       `json:"valid"`
	Value  any                        `json:"value"`
	Errors *validator.ValidationError `json:"errors,omitempty"`
}

// listEntities godoc
//
//	@Summary	List registered entities and their dependency edges
//	@Tags		forms
//	@Produce	json
//	@Success	200	{array}	EntityInfo
//	@Security	BearerAuth
//	@Router		/entities [get]
func (h *handler) listEntities(c *gin.Context) {
	names := h.Registry.Entities()
	out := make([]EntityInfo, 0, len(names))
	for _, name := range names {
		info := EntityInfo{Entity: name, Fields: []string{}, Edges: []rules.Edge{}}
		if s, ok := h.Registry.Schema(name); ok {
			info.RequiresMode = s.RequiresMode
			for _, fd := range s.Fields {
				info.Fields = append(info.Fields, fd.Name)
			}
			if len(s.Edges) > 0 {
				info.Edges = s.Edges
			}
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, out)
}

// validateForm godoc
//
//	@Summary	Build a form from the record and report its validation state
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Param		entity	path		string	true	"entity name"
//	@Param		mode	query		string	false	"access mode"	Enums(add, edit, view, add-like)
//	@Param		scope	query		string	false	"scope"			Enums(normal, grid, mass-update)
//	@Success	200		{object}	ValidateResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/forms/{entity}/validate [post]
func (h *handler) validateForm(c *gin.Context) {
	opts, err := parseOptions(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	entity := c.Param("entity")
	f, err := h.Registry.Group(entity, h.Registry.Coerce(entity, rec), form.LifetimeFromContext(c.Request.Context()), opts)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()

	// 补丁作用域下请求体中出现的字段视为用户修改过
	if opts.Scope == access.ScopeMassUpdate {
		for key := range rec {
			if ctl := f.Control(key); ctl != nil {
				ctl.MarkDirty()
			}
		}
	}
	report := pipeline.Validate(f)
	c.JSON(http.StatusOK, ValidateResponse{
		Valid:  report == nil,
		Value:  types.Export(f.RawValue()),
		Errors: report,
	})
}

// editForm 以已保存的记录构建编辑表单，再把请求体作为用户输入写入启用的字段
func (h *handler) editForm(c *gin.Context, entity string, saved, input types.Record, opts access.Options) (*registry.Form, error) {
	f, err := h.Registry.Group(entity, saved, form.LifetimeFromContext(c.Request.Context()), opts)
	if err != nil {
		return nil, err
	}
	applyInput(f, h.Registry.Coerce(entity, input))
	return f, nil
}

// applyInput 逐字段写入；禁用的字段（不可变、身份字段）保持原值，返回被忽略的字段名
// 先写入的字段可能启用后面的字段（如 overridable），因此重复扫描直到没有新的写入
func applyInput(f *registry.Form, input types.Record) []string {
	var pending []string
	for _, name := range f.Names() {
		if _, ok := input[name]; ok && f.Control(name) != nil {
			pending = append(pending, name)
		}
	}
	for {
		rest := pending[:0:0]
		for _, name := range pending {
			if ctl := f.Control(name); ctl.Enabled() {
				ctl.Input(input[name])
				continue
			}
			rest = append(rest, name)
		}
		if len(rest) == len(pending) {
			return rest
		}
		pending = rest
	}
}

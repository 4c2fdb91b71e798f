package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/entities"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/pipeline"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// MassUpdateBody 批量更新请求
type MassUpdateBody struct {
	IDs   []int64      `json:"ids"`
	Patch types.Record `json:"patch"`
}

// searchStoreProducts godoc
//
//	@Summary	Search store products
//	@Tags		store-products
//	@Produce	json
//	@Success	200	{object}	facade.ResponseEntity[model.StoreProduct]
//	@Security	BearerAuth
//	@Router		/store-products [get]
func (h *handler) searchStoreProducts(c *gin.Context) {
	q, ok := parseQuery(c)
	if !ok {
		return
	}
	res, err := h.StoreProducts.Search(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// getStoreProduct godoc
//
//	@Summary	Get a store product
//	@Tags		store-products
//	@Produce	json
//	@Param		id	path		int	true	"store product id"
//	@Success	200	{object}	model.StoreProduct
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/store-products/{id} [get]
func (h *handler) getStoreProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.StoreProducts.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// createStoreProduct godoc
//
//	@Summary	Create a store product
//	@Tags		store-products
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	model.StoreProduct
//	@Failure	409	{object}	ErrorResponse
//	@Failure	422	{object}	validator.ValidationError
//	@Security	BearerAuth
//	@Router		/store-products [post]
func (h *handler) createStoreProduct(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	delete(rec, "id")
	f, err := h.Registry.Group(entities.StoreProduct, h.Registry.Coerce(entities.StoreProduct, rec),
		form.LifetimeFromContext(c.Request.Context()), access.Options{Mode: access.ModeAdd})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()

	saved, err := pipeline.Apply(c.Request.Context(), f, pipeline.SaveStoreProduct(h.StoreProducts), pipeline.WithLogger(h.Logger))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// updateStoreProduct godoc
//
//	@Summary	Update a store product; immutable and identity fields are ignored
//	@Tags		store-products
//	@Accept		json
//	@Produce	json
//	@Param		id	path		int	true	"store product id"
//	@Success	200	{object}	model.StoreProduct
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	validator.ValidationError
//	@Security	BearerAuth
//	@Router		/store-products/{id} [put]
func (h *handler) updateStoreProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindRecord(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := h.StoreProducts.FindByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	rec, err := model.Encode(existing)
	if err != nil {
		h.fail(c, err)
		return
	}
	f, err := h.editForm(c, entities.StoreProduct, rec, input, access.Options{Mode: access.ModeEdit})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()

	saved, err := pipeline.Apply(ctx, f, pipeline.SaveStoreProduct(h.StoreProducts), pipeline.WithLogger(h.Logger))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// activateStoreProducts godoc
//
//	@Summary	Activate store products
//	@Tags		store-products
//	@Param		ids	body		IDsRequest	true	"store product ids"
//	@Success	200	{object}	CountResponse
//	@Security	BearerAuth
//	@Router		/store-products/activate [post]
func (h *handler) activateStoreProducts(c *gin.Context) {
	h.setActive(c, h.StoreProducts.Activate)
}

// deactivateStoreProducts godoc
//
//	@Summary	Deactivate store products
//	@Tags		store-products
//	@Param		ids	body		IDsRequest	true	"store product ids"
//	@Success	200	{object}	CountResponse
//	@Security	BearerAuth
//	@Router		/store-products/deactivate [post]
func (h *handler) deactivateStoreProducts(c *gin.Context) {
	h.setActive(c, h.StoreProducts.Deactivate)
}

// massAddStoreProducts godoc
//
//	@Summary	Add every store x product combination, skipping existing ones
//	@Tags		store-products
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	CountResponse
//	@Failure	422	{object}	validator.ValidationError
//	@Security	BearerAuth
//	@Router		/store-products/mass-add [post]
func (h *handler) massAddStoreProducts(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	f, err := h.Registry.Group(entities.StoreProductMassAdd, h.Registry.Coerce(entities.StoreProductMassAdd, rec),
		form.LifetimeFromContext(c.Request.Context()), access.Options{Mode: access.ModeAdd})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()

	var added int64
	if _, err := pipeline.Apply(c.Request.Context(), f, pipeline.MassAdd(h.StoreProducts, &added), pipeline.WithLogger(h.Logger)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: added})
}

// massUpdateStoreProducts godoc
//
// 补丁中禁用字段的值被忽略：minOverridePrice/maxOverridePrice 仅在同一请求体勾选 overridable 时启用。
// 校验失败时，被忽略的字段名写入响应的 message。
//
//	@Summary		Write the patch fields to the selected store products
//	@Description	Values for disabled patch fields are ignored and listed in the 422 message. minOverridePrice and maxOverridePrice require overridable=true in the same patch.
//	@Tags			store-products
//	@Accept			json
//	@Produce		json
//	@Param			massUpdate	body		MassUpdateBody	true	"ids and patch"
//	@Success		200			{object}	CountResponse
//	@Failure		422			{object}	validator.ValidationError
//	@Security		BearerAuth
//	@Router			/store-products/mass-update [post]
func (h *handler) massUpdateStoreProducts(c *gin.Context) {
	var body MassUpdateBody
	if err := decodeJSON(c, &body); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	f, err := h.Registry.Group(entities.StoreProductPatch, nil, form.LifetimeFromContext(c.Request.Context()),
		access.Options{Mode: access.ModeEdit, Scope: access.ScopeMassUpdate})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()
	ignored := applyInput(f, h.Registry.Coerce(entities.StoreProductPatch, body.Patch))

	var updated int64
	if _, err := pipeline.Apply(c.Request.Context(), f, pipeline.MassUpdate(h.StoreProducts, body.IDs, &updated), pipeline.WithLogger(h.Logger)); err != nil {
		var ve *validator.ValidationError
		if len(ignored) > 0 && errors.As(err, &ve) {
			ve.Message = "ignored disabled fields: " + strings.Join(ignored, ", ")
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: updated})
}

func (h *handler) setActive(c *gin.Context, fn func(ctx context.Context, ids []int64) (int64, error)) {
	var req IDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	n, err := fn(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/entities"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/pipeline"
)

// searchDiscounts godoc
//
//	@Summary	Search discounts
//	@Tags		discounts
//	@Produce	json
//	@Param		page	query	int		false	"page, zero based"
//	@Param		size	query	int		false	"page size"
//	@Param		sort	query	string	false	"sort field, -field for descending"
//	@Success	200		{object}	facade.ResponseEntity[model.Discount]
//	@Security	BearerAuth
//	@Router		/discounts [get]
func (h *handler) searchDiscounts(c *gin.Context) {
	q, ok := parseQuery(c)
	if !ok {
		return
	}
	res, err := h.Discounts.Search(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// getDiscount godoc
//
//	@Summary	Get a discount
//	@Tags		discounts
//	@Produce	json
//	@Param		id	path		int	true	"discount id"
//	@Success	200	{object}	model.Discount
//	@Failure	404	{object}	ErrorResponse
//	@Security	BearerAuth
//	@Router		/discounts/{id} [get]
func (h *handler) getDiscount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.Discounts.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// createDiscount godoc
//
//	@Summary	Create a discount
//	@Tags		discounts
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	model.Discount
//	@Failure	409	{object}	ErrorResponse
//	@Failure	422	{object}	validator.ValidationError
//	@Security	BearerAuth
//	@Router		/discounts [post]
func (h *handler) createDiscount(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	delete(rec, "id")
	f, err := h.Registry.Group(entities.Discount, h.Registry.Coerce(entities.Discount, rec),
		form.LifetimeFromContext(c.Request.Context()), access.Options{Mode: access.ModeAdd})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()

	saved, err := pipeline.Apply(c.Request.Context(), f, pipeline.SaveDiscount(h.Discounts), pipeline.WithLogger(h.Logger))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// updateDiscount godoc
//
//	@Summary	Update a discount; immutable fields are ignored
//	@Tags		discounts
//	@Accept		json
//	@Produce	json
//	@Param		id	path		int	true	"discount id"
//	@Success	200	{object}	model.Discount
//	@Failure	404	{object}	ErrorResponse
//	@Failure	422	{object}	validator.ValidationError
//	@Security	BearerAuth
//	@Router		/discounts/{id} [put]
func (h *handler) updateDiscount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindRecord(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	existing, err := h.Discounts.FindByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	rec, err := model.Encode(existing)
	if err != nil {
		h.fail(c, err)
		return
	}
	f, err := h.editForm(c, entities.Discount, rec, input, access.Options{Mode: access.ModeEdit})
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Dispose()

	saved, err := pipeline.Apply(ctx, f, pipeline.SaveDiscount(h.Discounts), pipeline.WithLogger(h.Logger))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// activateDiscounts godoc
//
//	@Summary	Activate discounts
//	@Tags		discounts
//	@Accept		json
//	@Produce	json
//	@Param		ids	body		IDsRequest	true	"discount ids"
//	@Success	200	{object}	CountResponse
//	@Security	BearerAuth
//	@Router		/discounts/activate [post]
func (h *handler) activateDiscounts(c *gin.Context) {
	h.setActive(c, h.Discounts.Activate)
}

// deactivateDiscounts godoc
//
//	@Summary	Deactivate discounts and their store discounts
//	@Tags		discounts
//	@Accept		json
//	@Produce	json
//	@Param		ids	body		IDsRequest	true	"discount ids"
//	@Success	200	{object}	CountResponse
//	@Security	BearerAuth
//	@Router		/discounts/deactivate [post]
func (h *handler) deactivateDiscounts(c *gin.Context) {
	h.setActive(c, h.Discounts.Deactivate)
}

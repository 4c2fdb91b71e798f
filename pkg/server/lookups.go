package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"katydid-backoffice-forms/pkg/types"
)

// listCodes godoc
//
//	@Summary	List common codes of a type
//	@Tags		codes
//	@Produce	json
//	@Param		type	path	string	true	"code type"
//	@Success	200		{array}	types.Code
//	@Security	BearerAuth
//	@Router		/codes/{type} [get]
func (h *handler) listCodes(c *gin.Context) {
	codes, err := h.Codes.FindByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(codes))
}

// listResources godoc
//
//	@Summary	List stores, products or markets
//	@Tags		codes
//	@Produce	json
//	@Param		kind	path	string	true	"resource kind"	Enums(stores, products, markets)
//	@Param		company	query	string	false	"company code"
//	@Param		region	query	string	false	"region code, markets only"
//	@Success	200		{array}	types.Code
//	@Security	BearerAuth
//	@Router		/resources/{kind} [get]
func (h *handler) listResources(c *gin.Context) {
	ctx := c.Request.Context()
	company := c.Query("company")

	var (
		codes []types.Code
		err   error
	)
	switch c.Param("kind") {
	case "stores":
		codes, err = h.Resources.Stores(ctx, company)
	case "products":
		codes, err = h.Resources.Products(ctx, company)
	case "markets":
		codes, err = h.Resources.Markets(ctx, company, c.Query("region"))
	default:
		abort(c, http.StatusNotFound, "UNKNOWN_RESOURCE", "unknown resource kind: "+c.Param("kind"))
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(codes))
}

func nonNil(codes []types.Code) []types.Code {
	if codes == nil {
		return []types.Code{}
	}
	return codes
}

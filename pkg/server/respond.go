package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/pipeline"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// CountResponse 批量操作影响的行数
type CountResponse struct {
	Count int64 `json:"count"`
}

// IDsRequest 按主键批量操作
type IDsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Error: msg, RequestID: c.GetString(ctxRequestID)})
}

// fail 把错误映射为 HTTP 响应
func (h *handler) fail(c *gin.Context, err error) {
	var (
		ve          *validator.ValidationError
		unknown     *registry.UnregisteredEntityError
		missingMode *access.MissingAccessModeError
		badMode     *access.UnhandledAccessModeError
		badScope    *access.UnhandledScopeError
	)
	switch {
	case errors.As(err, &ve) && (errors.Is(err, pipeline.ErrInvalidForm) || errors.Is(err, pipeline.ErrInvalidRequest)):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ve)
	case errors.Is(err, facade.ErrNotFound):
		abort(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, facade.ErrConflict):
		abort(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.As(err, &unknown):
		abort(c, http.StatusNotFound, "UNKNOWN_ENTITY", err.Error())
	case errors.As(err, &missingMode), errors.As(err, &badMode), errors.As(err, &badScope):
		abort(c, http.StatusBadRequest, "INVALID_ACCESS", err.Error())
	case errors.Is(err, form.ErrReadOnly), errors.Is(err, form.ErrDisposed):
		abort(c, http.StatusConflict, "NOT_WRITABLE", err.Error())
	default:
		h.Logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.Error(err))
		abort(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

// bindRecord 解码请求体为记录，数值保留为 json.Number
func bindRecord(c *gin.Context) (types.Record, bool) {
	var rec types.Record
	if err := decodeJSON(c, &rec); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return nil, false
	}
	if rec == nil {
		rec = types.Record{}
	}
	return rec, true
}

func decodeJSON(c *gin.Context, out any) error {
	data, err := c.GetRawData()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "INVALID_ID", "invalid id: "+raw)
		return 0, false
	}
	return id, true
}

// parseQuery page/size/sort 之外的查询参数都作为过滤条件
func parseQuery(c *gin.Context) (facade.Query, bool) {
	var q facade.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return q, false
	}
	if ve := validator.Struct(&q, validator.SceneSearch); ve != nil {
		abort(c, http.StatusBadRequest, "INVALID_QUERY", ve.Error())
		return q, false
	}
	q.Filters = make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "page", "size", "sort":
			continue
		}
		if len(values) > 0 && values[0] != "" {
			q.Filters[key] = values[0]
		}
	}
	return q.Normalize(), true
}

func parseOptions(c *gin.Context) (access.Options, error) {
	mode, err := access.ParseMode(c.Query("mode"))
	if err != nil {
		return access.Options{}, err
	}
	scope, err := access.ParseScope(c.Query("scope"))
	if err != nil {
		return access.Options{}, err
	}
	return access.Options{Mode: mode, Scope: scope}, nil
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"katydid-backoffice-forms/pkg/cache"
	"katydid-backoffice-forms/pkg/entities"
	"katydid-backoffice-forms/pkg/idgen/snowflake"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/store"
	"katydid-backoffice-forms/pkg/validator"
)

var (
	now  = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	auth = AuthConfig{Secret: "test-secret", Issuer: "backoffice"}
)

type env struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(store.Config{
		Dialect:     store.DialectSQLite,
		DSN:         "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		AutoMigrate: true,
	}, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ids, err := snowflake.New(snowflake.Config{DatacenterID: 1, WorkerID: 2})
	require.NoError(t, err)

	reg := registry.New(registry.WithClock(func() time.Time { return now }))
	require.NoError(t, entities.Register(reg))

	router := NewRouter(Deps{
		Registry:      reg,
		Discounts:     store.NewDiscountStore(db, ids, nil),
		StoreProducts: store.NewStoreProductStore(db, ids, nil),
		Codes:         cache.NewCodeFacade(store.NewCodeStore(db), cache.NewMemory(), time.Minute, nil),
		Resources:     store.NewResourceStore(db),
		Auth:          auth,
	})
	token, err := SignToken(auth, "tester", []string{RoleRead, RoleWrite}, time.Hour)
	require.NoError(t, err)
	return &env{t: t, db: db, router: router, token: token}
}

func (e *env) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	dec := json.NewDecoder(w.Body)
	dec.UseNumber()
	require.NoError(t, dec.Decode(out), w.Body.String())
}

func discountBody() map[string]any {
	return map[string]any{
		"code":        "SPRING",
		"description": "Spring sale",
		"company":     map[string]any{"code": "C1"},
		"type":        map[string]any{"code": entities.TypeTransaction},
		"startDate":   "2026-03-10",
		"active":      true,
		"storeDiscounts": []any{
			map[string]any{"store": map[string]any{"code": "S1"}, "active": true},
		},
	}
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestAuth(t *testing.T) {
	e := newEnv(t)
	reader, err := SignToken(auth, "reader", []string{RoleRead}, time.Hour)
	require.NoError(t, err)
	expired, err := SignToken(auth, "late", []string{RoleWrite}, -time.Minute)
	require.NoError(t, err)
	foreign, err := SignToken(AuthConfig{Secret: "other", Issuer: auth.Issuer}, "x", []string{RoleWrite}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"缺少令牌", http.MethodGet, "/api/v1/entities", "", http.StatusUnauthorized},
		{"令牌过期", http.MethodGet, "/api/v1/entities", expired, http.StatusUnauthorized},
		{"签名不符", http.MethodGet, "/api/v1/entities", foreign, http.StatusUnauthorized},
		{"只读角色可查询", http.MethodGet, "/api/v1/entities", reader, http.StatusOK},
		{"只读角色不可写入", http.MethodPost, "/api/v1/discounts/activate", reader, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(tt.method, tt.path, map[string]any{"ids": []int64{1}}, tt.token)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestListEntities(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodGet, "/api/v1/entities", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)

	var out []EntityInfo
	decode(t, w, &out)
	byName := make(map[string]EntityInfo, len(out))
	for _, info := range out {
		byName[info.Entity] = info
	}
	require.Contains(t, byName, entities.Discount)
	assert.True(t, byName[entities.Discount].RequiresMode)
	assert.Contains(t, byName[entities.Discount].Fields, "discountCategories")
	assert.NotEmpty(t, byName[entities.Discount].Edges)
}

func TestValidateForm(t *testing.T) {
	e := newEnv(t)

	t.Run("缺少描述", func(t *testing.T) {
		body := discountBody()
		delete(body, "description")
		w := e.do(http.MethodPost, "/api/v1/forms/Discount/validate?mode=add", body, e.token)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			Valid  bool `json:"valid"`
			Errors struct {
				Errors []struct {
					Path string `json:"path"`
					Tag  string `json:"tag"`
				} `json:"errors"`
			} `json:"errors"`
		}
		decode(t, w, &res)
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors.Errors)
		assert.Equal(t, "description", res.Errors.Errors[0].Path)
		assert.Equal(t, "required", res.Errors.Errors[0].Tag)
	})

	t.Run("合法记录", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/v1/forms/Discount/validate?mode=add", discountBody(), e.token)
		require.Equal(t, http.StatusOK, w.Code)
		var res ValidateResponse
		decode(t, w, &res)
		assert.True(t, res.Valid)
	})

	t.Run("补丁作用域", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/v1/forms/StoreProductPatch/validate?mode=edit&scope=mass-update",
			map[string]any{"price": nil}, e.token)
		require.Equal(t, http.StatusOK, w.Code)
		var res ValidateResponse
		decode(t, w, &res)
		assert.False(t, res.Valid, "修改过的必填字段为空")
	})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"未注册实体", "/api/v1/forms/Nope/validate?mode=add", http.StatusNotFound},
		{"缺少访问模式", "/api/v1/forms/Discount/validate", http.StatusBadRequest},
		{"未知访问模式", "/api/v1/forms/Discount/validate?mode=delete", http.StatusBadRequest},
		{"未知作用域", "/api/v1/forms/Discount/validate?mode=add&scope=bulk", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(http.MethodPost, tt.path, discountBody(), e.token)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestDiscountLifecycle(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/v1/discounts", discountBody(), e.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	decode(t, w, &created)
	id := created["id"].(json.Number).String()
	assert.NotEqual(t, "0", id)

	w = e.do(http.MethodPost, "/api/v1/discounts", discountBody(), e.token)
	assert.Equal(t, http.StatusConflict, w.Code, "同公司重复代码")

	invalid := discountBody()
	invalid["description"] = ""
	w = e.do(http.MethodPost, "/api/v1/discounts", invalid, e.token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(http.MethodPut, "/api/v1/discounts/"+id, map[string]any{
		"code":        "CHANGED",
		"description": "Spring sale extended",
		"active":      false,
	}, e.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/discounts/"+id, nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Discount
	decode(t, w, &got)
	assert.Equal(t, "SPRING", got.Code, "不可变字段被忽略")
	assert.Equal(t, "Spring sale extended", got.Description)
	assert.False(t, got.Active)
	require.Len(t, got.StoreDiscounts, 1)
	assert.False(t, got.StoreDiscounts[0].Active, "保存前停用门店折扣")

	w = e.do(http.MethodGet, "/api/v1/discounts?code=SPR", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalElements":1`)

	w = e.do(http.MethodPost, "/api/v1/discounts/activate", map[string]any{"ids": []any{json.Number(id)}}, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = e.do(http.MethodPost, "/api/v1/discounts/activate", map[string]any{"ids": []int64{}}, e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/v1/discounts/424242", nil, e.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(http.MethodGet, "/api/v1/discounts/abc", nil, e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreProductMassOperations(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/v1/store-products/mass-add", map[string]any{
		"stores":   []any{map[string]any{"store": map[string]any{"code": "S1"}}, map[string]any{"store": map[string]any{"code": "S2"}}},
		"products": []any{map[string]any{"product": map[string]any{"code": "P1"}}},
		"price":    "3.00",
	}, e.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	w = e.do(http.MethodPost, "/api/v1/store-products/mass-add", map[string]any{"price": "3.00"}, e.token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "门店与商品至少各一项")

	var ids []int64
	require.NoError(t, e.db.Model(&model.StoreProduct{}).Order("id").Pluck("id", &ids).Error)
	require.Len(t, ids, 2)

	w = e.do(http.MethodPost, "/api/v1/store-products/mass-update", map[string]any{
		"ids":   ids,
		"patch": map[string]any{"price": "4.25"},
	}, e.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	var rows []model.StoreProduct
	require.NoError(t, e.db.Find(&rows).Error)
	for _, row := range rows {
		assert.Equal(t, "4.25", row.Price.Decimal.StringFixed(2))
		assert.True(t, row.Active, "未修改的列保持原值")
	}

	w = e.do(http.MethodPost, "/api/v1/store-products/mass-update", map[string]any{
		"ids":   ids,
		"patch": map[string]any{},
	}, e.token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "至少修改一个字段")

	w = e.do(http.MethodPost, "/api/v1/store-products/mass-update", map[string]any{"patch": map[string]any{"price": "1"}}, e.token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var report validator.ValidationError
	decode(t, w, &report)
	require.Len(t, report.ByPath("ids"), 1)
	assert.Equal(t, validator.TagRequired, report.ByPath("ids")[0].Tag)

	w = e.do(http.MethodPost, "/api/v1/store-products/mass-update", map[string]any{
		"ids":   ids,
		"patch": map[string]any{"minOverridePrice": "1.00"},
	}, e.token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	report = validator.ValidationError{}
	decode(t, w, &report)
	assert.Equal(t, "ignored disabled fields: minOverridePrice", report.Message)
	assert.NotEmpty(t, report.ByTag(validator.TagAtLeastOneDirty))

	w = e.do(http.MethodPost, "/api/v1/store-products/mass-update", map[string]any{
		"ids":   ids,
		"patch": map[string]any{"minOverridePrice": "1.00", "maxOverridePrice": "9.00", "overridable": true},
	}, e.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLookups(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Create(&[]model.CommonCode{
		{Type: "approach", Code: "PERCENTOFF", Description: "Percent off", Sort: 1},
		{Type: "approach", Code: "AMOUNTOFF", Description: "Amount off", Sort: 2},
	}).Error)
	require.NoError(t, e.db.Create(&[]model.Resource{
		{Kind: model.ResourceMarket, Code: "M1", Company: "C1", Region: "R1"},
		{Kind: model.ResourceMarket, Code: "M2", Company: "C2", Region: "R1"},
	}).Error)

	w := e.do(http.MethodGet, "/api/v1/codes/approach", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"code":"PERCENTOFF","description":"Percent off"},{"code":"AMOUNTOFF","description":"Amount off"}]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/codes/none", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/resources/markets?region=R1", nil, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"code":"M1"},{"code":"M2"}]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/resources/markets?company=C2", nil, e.token)
	assert.JSONEq(t, `[{"code":"M2"}]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/resources/planets", nil, e.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

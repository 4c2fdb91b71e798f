package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katydid-backoffice-forms/pkg/types"
)

func TestDecodeRecord(t *testing.T) {
	rec := types.Record{
		"id":                int64(5),
		"code":              "SPRING",
		"company":           types.NewCode("C1"),
		"type":              map[string]any{"code": "LINEITEM"},
		"startDate":         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		"endDate":           nil,
		"overrideMinAmount": decimal.RequireFromString("1.25"),
		"active":            true,
		"discountCategories": []any{
			map[string]any{"category": types.NewCode("FOOD"), "amount": "20", "approach": types.NewCode("PERCENTOFF")},
		},
	}

	var d Discount
	require.NoError(t, Decode(rec, &d))
	assert.Equal(t, int64(5), d.ID)
	assert.Equal(t, "C1", d.Company.Code)
	assert.True(t, d.Type.Is("LINEITEM"))
	assert.Equal(t, "2026-03-10", d.StartDate.String())
	assert.Nil(t, d.EndDate)
	assert.True(t, d.OverrideMinAmount.Valid)
	assert.Equal(t, "1.25", d.OverrideMinAmount.Decimal.String())
	assert.False(t, d.OverrideMaxAmount.Valid)
	require.Len(t, d.DiscountCategories, 1)
	assert.Equal(t, "20", d.DiscountCategories[0].Amount.Decimal.String())
}

func TestEncodeModel(t *testing.T) {
	qty := int64(6)
	p := StoreProduct{
		ID:               9,
		Store:            types.NewCode("S1"),
		Price:            decimal.NewNullDecimal(decimal.RequireFromString("9.99")),
		MinOrderQuantity: &qty,
		StartDate:        &types.Date{Time: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	rec, err := Encode(p)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9"), rec["id"])
	assert.Equal(t, "9.99", rec["price"])
	assert.Equal(t, "2026-03-10", rec["startDate"])
	assert.Nil(t, rec["schedulePriceDate"])
	assert.Nil(t, rec["extraChargeTaxable"])

	assert.Equal(t, types.NewCode("S1"), types.Coerce(types.KindCode, rec["store"]))
	assert.Nil(t, types.Coerce(types.KindCode, rec["vendor"]))
	i, ok := types.ToInt(rec["minOrderQuantity"])
	assert.True(t, ok)
	assert.Equal(t, int64(6), i)
}

func TestDateJSON(t *testing.T) {
	var d types.Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-10T18:00:00Z"`), &d))
	assert.Equal(t, "2026-03-10", d.String())

	out, err := json.Marshal(struct {
		D *types.Date `json:"d"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":null}`, string(out))
}

package model

import (
	"github.com/shopspring/decimal"

	"katydid-backoffice-forms/pkg/types"
)

// StoreProduct 门店商品
type StoreProduct struct {
	ID                     int64               `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Company                types.Code          `json:"company" gorm:"size:32"`
	Store                  types.Code          `json:"store" gorm:"size:32;uniqueIndex:uk_store_product"`
	Product                types.Code          `json:"product" gorm:"size:32;uniqueIndex:uk_store_product"`
	Active                 bool                `json:"active"`
	StartDate              *types.Date         `json:"startDate"`
	Price                  decimal.NullDecimal `json:"price" gorm:"type:decimal(12,2)"`
	SchedulePriceChange    decimal.NullDecimal `json:"schedulePriceChange" gorm:"type:decimal(12,2)"`
	SchedulePriceDate      *types.Date         `json:"schedulePriceDate"`
	ExtraChargeAmount      decimal.NullDecimal `json:"extraChargeAmount" gorm:"type:decimal(12,2)"`
	ExtraChargeDescription *string             `json:"extraChargeDescription" gorm:"size:50"`
	ExtraChargeTaxable     *bool               `json:"extraChargeTaxable"`
	Overridable            bool                `json:"overridable"`
	MinOverridePrice       decimal.NullDecimal `json:"minOverridePrice" gorm:"type:decimal(12,2)"`
	MaxOverridePrice       decimal.NullDecimal `json:"maxOverridePrice" gorm:"type:decimal(12,2)"`
	MinMaxOverridable      bool                `json:"minMaxOverridable"`
	MinOrderQuantity       *int64              `json:"minOrderQuantity"`
	QuantityPerPack        *int64              `json:"quantityPerPack"`
	Vendor                 types.Code          `json:"vendor" gorm:"size:32"`
	UseDefaultVendor       bool                `json:"useDefaultVendor"`
}

// TableName 表名
func (StoreProduct) TableName() string { return "store_products" }

// StoreProductColumns 表单字段名到数据库列名（批量更新只写入修改过的列）
var StoreProductColumns = map[string]string{
	"active":                 "active",
	"price":                  "price",
	"schedulePriceChange":    "schedule_price_change",
	"schedulePriceDate":      "schedule_price_date",
	"extraChargeAmount":      "extra_charge_amount",
	"extraChargeDescription": "extra_charge_description",
	"extraChargeTaxable":     "extra_charge_taxable",
	"overridable":            "overridable",
	"minOverridePrice":       "min_override_price",
	"maxOverridePrice":       "max_override_price",
	"minMaxOverridable":      "min_max_overridable",
	"minOrderQuantity":       "min_order_quantity",
	"quantityPerPack":        "quantity_per_pack",
	"vendor":                 "vendor",
	"useDefaultVendor":       "use_default_vendor",
}

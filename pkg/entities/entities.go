// Package entities 后台维护界面的实体表单声明：折扣与门店商品两组实体
package entities

import (
	"katydid-backoffice-forms/pkg/registry"
)

// 实体名
const (
	Discount            = "Discount"
	DiscountCategory    = "DiscountCategory"
	StoreDiscount       = "StoreDiscount"
	StoreProduct        = "StoreProduct"
	StoreProductPatch   = "StoreProductPatch"
	StoreProductMassAdd = "StoreProductMassAdd"
	StoreSelection      = "StoreSelection"
	ProductSelection    = "ProductSelection"
	MarketSelection     = "MarketSelection"
)

// 代码值
const (
	TypeLineItem    = "LINEITEM"
	TypeTransaction = "TRANSACTION"

	ApproachPercentOff = "PERCENTOFF"
	ApproachAmountOff  = "AMOUNTOFF"
)

// Schemas 全部实体声明，父实体在前、子实体在后
func Schemas() []registry.Schema {
	return []registry.Schema{
		DiscountSchema(),
		DiscountCategorySchema(),
		StoreDiscountSchema(),
		StoreProductSchema(),
		StoreProductPatchSchema(),
		StoreProductMassAddSchema(),
		StoreSelectionSchema(),
		ProductSelectionSchema(),
		MarketSelectionSchema(),
	}
}

// Register 把全部实体注册到注册表
func Register(r *registry.Registry) error {
	for _, s := range Schemas() {
		if err := r.RegisterSchema(s); err != nil {
			return err
		}
	}
	return nil
}

// Package model 门面交换的实体模型，JSON 字段名与表单控件名一致
package model

import (
	"github.com/shopspring/decimal"

	"katydid-backoffice-forms/pkg/types"
)

// Discount 折扣
type Discount struct {
	ID                 int64               `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Code               string              `json:"code" gorm:"size:20;uniqueIndex:uk_discount_code"`
	Description        string              `json:"description" gorm:"size:100"`
	Company            types.Code          `json:"company" gorm:"size:32;uniqueIndex:uk_discount_code"`
	Type               types.Code          `json:"type" gorm:"size:32"`
	StartDate          types.Date          `json:"startDate"`
	EndDate            *types.Date         `json:"endDate"`
	ExpirationDate     *types.Date         `json:"expirationDate"`
	OverrideMinAmount  decimal.NullDecimal `json:"overrideMinAmount" gorm:"type:decimal(10,2)"`
	OverrideMaxAmount  decimal.NullDecimal `json:"overrideMaxAmount" gorm:"type:decimal(10,2)"`
	PercentMaxAmount   decimal.NullDecimal `json:"percentMaxAmount" gorm:"type:decimal(5,2)"`
	Active             bool                `json:"active"`
	DiscountCategories []DiscountCategory  `json:"discountCategories" gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE"`
	StoreDiscounts     []StoreDiscount     `json:"storeDiscounts" gorm:"foreignKey:DiscountID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (Discount) TableName() string { return "discounts" }

// DiscountCategory 折扣的品类明细
type DiscountCategory struct {
	ID         int64               `json:"-" gorm:"primaryKey;autoIncrement:false"`
	DiscountID int64               `json:"-" gorm:"index"`
	Category   types.Code          `json:"category" gorm:"size:32"`
	Amount     decimal.NullDecimal `json:"amount" gorm:"type:decimal(10,2)"`
	Approach   types.Code          `json:"approach" gorm:"size:32"`
}

// TableName 表名
func (DiscountCategory) TableName() string { return "discount_categories" }

// StoreDiscount 折扣适用的门店
type StoreDiscount struct {
	ID         int64      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	DiscountID int64      `json:"-" gorm:"index"`
	Store      types.Code `json:"store" gorm:"size:32"`
	Active     bool       `json:"active"`
}

// TableName 表名
func (StoreDiscount) TableName() string { return "store_discounts" }

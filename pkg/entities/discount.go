package entities

import (
	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
)

const amountMax = "999999.99"

// DiscountSchema 折扣
func DiscountSchema() registry.Schema {
	edges := []rules.Edge{
		{Name: "end-after-start", Kind: rules.DateAfter, Trigger: "startDate", Targets: []string{"endDate"}, Inclusive: true},
		{Name: "expiration-after-end", Kind: rules.DateAfter, Trigger: "endDate", Targets: []string{"expirationDate"}, Inclusive: true},
		{Name: "dates:endDate", Kind: rules.GroupRevalidate, Trigger: "endDate", Targets: []string{"expirationDate"}},
		{Name: "dates:expirationDate", Kind: rules.GroupRevalidate, Trigger: "expirationDate", Targets: []string{"endDate"}},
		{Name: "override-max-greater", Kind: rules.NumberGreaterThan, Trigger: "overrideMinAmount", Targets: []string{"overrideMaxAmount"}},
		{
			Name:    "line-item-categories",
			Kind:    rules.RequiredWhen,
			Trigger: "type",
			Targets: []string{"discountCategories", "discountCategories[*].amount", "discountCategories[*].approach"},
			Equals:  TypeLineItem,
		},
		{Name: "non-line-item-clears-categories", Kind: rules.ClearUnless, Trigger: "type", Targets: []string{"discountCategories"}, Equals: TypeLineItem},
	}
	edges = append(edges, rules.Symmetric("override-amount", rules.RequiredIfPresent, "overrideMinAmount", "overrideMaxAmount")...)

	return registry.Schema{
		Entity:       Discount,
		RequiresMode: true,
		Fields: []registry.Field{
			{Name: "id", Kind: types.KindInteger},
			{Name: "code", Kind: types.KindString, Required: true, Rules: []registry.Rule{registry.MaxLen(20)}},
			{Name: "description", Kind: types.KindString, Required: true, Rules: []registry.Rule{registry.MaxLen(100)}},
			{Name: "company", Kind: types.KindCode, Required: true},
			{Name: "type", Kind: types.KindCode, Required: true},
			{Name: "startDate", Kind: types.KindDate, Required: true, Rules: []registry.Rule{registry.AfterToday(true, access.ModeAdd)}},
			{Name: "endDate", Kind: types.KindDate},
			{Name: "expirationDate", Kind: types.KindDate},
			{Name: "overrideMinAmount", Kind: types.KindDecimal, Rules: []registry.Rule{registry.Decimal(2, "0", amountMax)}},
			{Name: "overrideMaxAmount", Kind: types.KindDecimal, Rules: []registry.Rule{registry.Decimal(2, "0", amountMax)}},
			{Name: "percentMaxAmount", Kind: types.KindDecimal, Rules: []registry.Rule{registry.Decimal(2, "0", "100")}},
			{Name: "active", Kind: types.KindBool},
			{Name: "discountCategories", Kind: types.KindArray, Entity: DiscountCategory},
			{Name: "storeDiscounts", Kind: types.KindArray, Entity: StoreDiscount},
		},
		Edges: edges,
		Policy: registry.Policy{
			Key:          "id",
			Immutable:    []string{"code", "company", "startDate"},
			ForceActive:  "active",
			GridDisabled: []string{"active"},
			Defaults: map[string]any{
				"type":   types.NewCode(TypeTransaction),
				"active": false,
			},
		},
	}
}

// DiscountCategorySchema 折扣的品类明细
func DiscountCategorySchema() registry.Schema {
	return registry.Schema{
		Entity: DiscountCategory,
		Fields: []registry.Field{
			{Name: "category", Kind: types.KindCode, Required: true},
			{Name: "amount", Kind: types.KindDecimal, Rules: []registry.Rule{registry.Decimal(2, "0", amountMax)}},
			{Name: "approach", Kind: types.KindCode},
		},
	}
}

// StoreDiscountSchema 折扣适用的门店
func StoreDiscountSchema() registry.Schema {
	return registry.Schema{
		Entity: StoreDiscount,
		Fields: []registry.Field{
			{Name: "store", Kind: types.KindCode, Required: true},
			{Name: "active", Kind: types.KindBool},
		},
		Policy: registry.Policy{
			GridDisabled: []string{"active"},
			Defaults:     map[string]any{"active": true},
		},
	}
}

// DeactivateStoreDiscounts 保存前的副作用：折扣未启用时，所有门店折扣一并停用
func DeactivateStoreDiscounts(root *form.Group) {
	if types.Truthy(root.Field("active").Value()) {
		return
	}
	stores := root.Array("storeDiscounts")
	if stores == nil {
		return
	}
	for _, item := range stores.Items() {
		if c := form.Find(item, "active"); c != nil && types.Truthy(c.Value()) {
			c.SetValue(false)
		}
	}
}

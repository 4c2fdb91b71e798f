package entities

import (
	"katydid-backoffice-forms/pkg/access"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/rules"
	"katydid-backoffice-forms/pkg/types"
)

const priceMax = "9999999.99"

// 价格与附加费字段
func priceFields() []registry.Field {
	money := []registry.Rule{registry.Decimal(2, "0", priceMax)}
	return []registry.Field{
		{Name: "price", Kind: types.KindDecimal, Rules: money},
		{Name: "schedulePriceChange", Kind: types.KindDecimal, Rules: money},
		{Name: "schedulePriceDate", Kind: types.KindDate, Rules: []registry.Rule{registry.AfterToday(false)}},
		{Name: "extraChargeAmount", Kind: types.KindDecimal, Rules: money},
		{Name: "extraChargeDescription", Kind: types.KindString, Rules: []registry.Rule{registry.MaxLen(50)}},
		{Name: "extraChargeTaxable", Kind: types.KindBool},
		{Name: "overridable", Kind: types.KindBool},
		{Name: "minOverridePrice", Kind: types.KindDecimal, Rules: money},
		{Name: "maxOverridePrice", Kind: types.KindDecimal, Rules: money},
		{Name: "minMaxOverridable", Kind: types.KindBool},
	}
}

// 订货字段
func orderFields() []registry.Field {
	return []registry.Field{
		{Name: "minOrderQuantity", Kind: types.KindInteger, Rules: []registry.Rule{registry.Integer("1", "")}},
		{Name: "quantityPerPack", Kind: types.KindInteger, Rules: []registry.Rule{registry.Integer("1", "")}},
		{Name: "vendor", Kind: types.KindCode},
		{Name: "useDefaultVendor", Kind: types.KindBool},
	}
}

func priceEdges() []rules.Edge {
	var edges []rules.Edge
	edges = append(edges, rules.Symmetric("schedule", rules.RequiredIfPresent, "schedulePriceChange", "schedulePriceDate")...)
	edges = append(edges, rules.Symmetric("schedule-clear", rules.ClearOnClear, "schedulePriceChange", "schedulePriceDate", access.ScopeGrid)...)
	return append(edges,
		rules.Edge{Name: "extra-charge", Kind: rules.RequiredIfPresent, Trigger: "extraChargeAmount",
			Targets: []string{"extraChargeDescription", "extraChargeTaxable"}},
		rules.Edge{Name: "extra-charge-clear", Kind: rules.ClearOnClear, Trigger: "extraChargeAmount",
			Targets: []string{"extraChargeDescription", "extraChargeTaxable"}, ExceptScopes: []access.Scope{access.ScopeGrid}},
		rules.Edge{Name: "extra-charge-taxable", Kind: rules.DefaultWhenSet, Trigger: "extraChargeAmount",
			Targets: []string{"extraChargeTaxable"}, Default: true},
		rules.Edge{Name: "override-enable", Kind: rules.EnableWhenChecked, Trigger: "overridable",
			Targets: []string{"minOverridePrice", "maxOverridePrice", "minMaxOverridable"}},
		rules.Edge{Name: "override-required", Kind: rules.RequiredIfChecked, Trigger: "overridable",
			Targets: []string{"minOverridePrice", "maxOverridePrice"}},
		rules.Edge{Name: "override-max-greater", Kind: rules.NumberGreaterThan, Trigger: "minOverridePrice",
			Targets: []string{"maxOverridePrice"}},
	)
}

func orderEdges() []rules.Edge {
	return []rules.Edge{
		{Name: "pack-multiple", Kind: rules.MultipleOf, Trigger: "quantityPerPack", Targets: []string{"minOrderQuantity"}},
		{Name: "vendor-or-default", Kind: rules.RequiredOrDefaulted, Trigger: "useDefaultVendor", Targets: []string{"vendor"}},
	}
}

var flagDefaults = map[string]any{
	"overridable":       false,
	"minMaxOverridable": false,
	"useDefaultVendor":  false,
}

// StoreProductSchema 门店商品
func StoreProductSchema() registry.Schema {
	fields := []registry.Field{
		{Name: "id", Kind: types.KindInteger},
		{Name: "company", Kind: types.KindCode},
		{Name: "store", Kind: types.KindCode, Required: true},
		{Name: "product", Kind: types.KindCode, Required: true},
		{Name: "active", Kind: types.KindBool},
		{Name: "startDate", Kind: types.KindDate, Rules: []registry.Rule{registry.AfterToday(true, access.ModeAdd)}},
	}
	fields = append(fields, priceFields()...)
	fields = append(fields, orderFields()...)

	defaults := map[string]any{"active": false}
	for k, v := range flagDefaults {
		defaults[k] = v
	}
	return registry.Schema{
		Entity:       StoreProduct,
		RequiresMode: true,
		Fields:       fields,
		Edges:        append(priceEdges(), orderEdges()...),
		Policy: registry.Policy{
			Key:          "id",
			Immutable:    []string{"company", "product", "startDate"},
			Identity:     []string{"store"},
			ForceActive:  "active",
			GridDisabled: []string{"active"},
			Defaults:     defaults,
		},
	}
}

// StoreProductPatchSchema 门店商品批量更新补丁：不含身份字段，只校验修改过的字段
func StoreProductPatchSchema() registry.Schema {
	fields := []registry.Field{{Name: "active", Kind: types.KindBool}}
	fields = append(fields, priceFields()...)
	fields = append(fields, orderFields()...)
	for i := range fields {
		if fields[i].Name == "price" {
			fields[i].Required = true
		}
	}
	return registry.Schema{
		Entity: StoreProductPatch,
		Fields: fields,
		Edges:  append(priceEdges(), orderEdges()...),
		Policy: registry.Policy{AtLeastOneDirty: true},
	}
}

// StoreProductMassAddSchema 门店商品批量新增：门店 × 商品
func StoreProductMassAddSchema() registry.Schema {
	fields := []registry.Field{
		{Name: "stores", Kind: types.KindArray, Entity: StoreSelection, Required: true},
		{Name: "products", Kind: types.KindArray, Entity: ProductSelection, Required: true},
		{Name: "active", Kind: types.KindBool},
		{Name: "price", Kind: types.KindDecimal, Required: true, Rules: []registry.Rule{registry.Decimal(2, "0", priceMax)}},
	}
	fields = append(fields, orderFields()...)
	return registry.Schema{
		Entity: StoreProductMassAdd,
		Fields: fields,
		Edges:  orderEdges(),
		Policy: registry.Policy{
			Defaults: map[string]any{"active": true, "useDefaultVendor": true},
		},
	}
}

// StoreSelectionSchema 批量新增选中的门店
func StoreSelectionSchema() registry.Schema {
	return registry.Schema{
		Entity: StoreSelection,
		Fields: []registry.Field{{Name: "store", Kind: types.KindCode, Required: true}},
	}
}

// ProductSelectionSchema 批量新增选中的商品
func ProductSelectionSchema() registry.Schema {
	return registry.Schema{
		Entity: ProductSelection,
		Fields: []registry.Field{{Name: "product", Kind: types.KindCode, Required: true}},
	}
}

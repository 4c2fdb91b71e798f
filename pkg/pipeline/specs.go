package pipeline

import (
	"context"

	"katydid-backoffice-forms/pkg/entities"
	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

// SaveDiscount 折扣保存：未启用的折扣先停用全部门店折扣
func SaveDiscount(fc facade.DiscountFacade) Spec {
	return Spec{
		Name:   "save-discount",
		Before: []Hook{entities.DeactivateStoreDiscounts},
		Save: func(ctx context.Context, sub Submission) (types.Record, error) {
			var d model.Discount
			if err := model.Decode(sub.Record, &d); err != nil {
				return nil, err
			}
			saved, err := fc.Save(ctx, &d)
			if err != nil {
				return nil, err
			}
			return model.Encode(saved)
		},
	}
}

// SaveStoreProduct 门店商品保存
func SaveStoreProduct(fc facade.StoreProductFacade) Spec {
	return Spec{
		Name: "save-store-product",
		Save: func(ctx context.Context, sub Submission) (types.Record, error) {
			var p model.StoreProduct
			if err := model.Decode(sub.Record, &p); err != nil {
				return nil, err
			}
			saved, err := fc.Save(ctx, &p)
			if err != nil {
				return nil, err
			}
			return model.Encode(saved)
		},
	}
}

type massAddRecord struct {
	model.StoreProduct
	Stores   []struct{ Store types.Code `json:"store"` }     `json:"stores"`
	Products []struct{ Product types.Code `json:"product"` } `json:"products"`
}

// MassAdd 批量新增；added 接收新增数量
func MassAdd(fc facade.StoreProductFacade, added *int64) Spec {
	return Spec{
		Name: "mass-add-store-products",
		Save: func(ctx context.Context, sub Submission) (types.Record, error) {
			var rec massAddRecord
			if err := model.Decode(sub.Record, &rec); err != nil {
				return nil, err
			}
			req := facade.MassAddRequest{Template: rec.StoreProduct}
			for _, s := range rec.Stores {
				req.Stores = append(req.Stores, s.Store.Code)
			}
			for _, p := range rec.Products {
				req.Products = append(req.Products, p.Product.Code)
			}
			if ve := validator.Struct(&req, validator.SceneMassAdd); ve != nil {
				return nil, ve.Wrap(ErrInvalidRequest)
			}
			n, err := fc.Add(ctx, req)
			if err != nil {
				return nil, err
			}
			if added != nil {
				*added = n
			}
			return nil, nil
		},
	}
}

// MassUpdate 批量更新选中的门店商品，只写入修改过的字段；updated 接收更新数量
func MassUpdate(fc facade.StoreProductFacade, ids []int64, updated *int64) Spec {
	return Spec{
		Name: "mass-update-store-products",
		Save: func(ctx context.Context, sub Submission) (types.Record, error) {
			var patch model.StoreProduct
			if err := model.Decode(sub.Record, &patch); err != nil {
				return nil, err
			}
			req := facade.MassUpdateRequest{IDs: ids, Patch: patch}
			if ve := validator.Struct(&req, validator.SceneMassUpdate); ve != nil {
				return nil, ve.Wrap(ErrInvalidRequest)
			}
			n, err := fc.MassUpdate(ctx, req, sub.Dirty)
			if err != nil {
				return nil, err
			}
			if updated != nil {
				*updated = n
			}
			return nil, nil
		},
	}
}

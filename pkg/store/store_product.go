package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/types"
)

var storeProductColumns = map[string]string{
	"id":        "id",
	"company":   "company",
	"store":     "store",
	"product":   "product",
	"vendor":    "vendor",
	"active":    "active",
	"startDate": "start_date",
	"price":     "price",
}

// StoreProductStore 门店商品门面的数据库实现
type StoreProductStore struct {
	db     *gorm.DB
	ids    IDGenerator
	logger *zap.Logger
}

var _ facade.StoreProductFacade = (*StoreProductStore)(nil)

// NewStoreProductStore 创建门店商品门面
func NewStoreProductStore(db *gorm.DB, ids IDGenerator, logger *zap.Logger) *StoreProductStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreProductStore{db: db, ids: ids, logger: logger}
}

// Search 分页查询
func (s *StoreProductStore) Search(ctx context.Context, q facade.Query) (facade.ResponseEntity[model.StoreProduct], error) {
	q = q.Normalize()
	filter := filters(q.Filters, storeProductColumns)

	var out facade.ResponseEntity[model.StoreProduct]
	if err := s.db.WithContext(ctx).Model(&model.StoreProduct{}).Scopes(filter).Count(&out.TotalElements).Error; err != nil {
		return out, err
	}
	err := s.db.WithContext(ctx).Scopes(filter).
		Order(orderBy(q.Sort, storeProductColumns, "id")).
		Offset(q.Offset()).Limit(q.Size).
		Find(&out.Content).Error
	return out, err
}

// FindByID 按主键查询
func (s *StoreProductStore) FindByID(ctx context.Context, id int64) (*model.StoreProduct, error) {
	var p model.StoreProduct
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// FindByStoreAndProduct 按门店与商品查询
func (s *StoreProductStore) FindByStoreAndProduct(ctx context.Context, store, product string) (*model.StoreProduct, error) {
	var p model.StoreProduct
	if err := s.db.WithContext(ctx).First(&p, "store = ? AND product = ?", store, product).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Save 新增（ID 为 0）或整体更新
func (s *StoreProductStore) Save(ctx context.Context, p *model.StoreProduct) (*model.StoreProduct, error) {
	db := s.db.WithContext(ctx)
	if p.ID == 0 {
		id, err := s.ids.NextID()
		if err != nil {
			return nil, err
		}
		p.ID = id
		if err := db.Create(p).Error; err != nil {
			return nil, translate(err)
		}
	} else {
		var n int64
		if err := db.Model(&model.StoreProduct{}).Where("id = ?", p.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, facade.ErrNotFound
		}
		if err := db.Model(&model.StoreProduct{}).Where("id = ?", p.ID).Select("*").Updates(p).Error; err != nil {
			return nil, translate(err)
		}
	}
	s.logger.Debug("store product saved", zap.Int64("id", p.ID),
		zap.String("store", p.Store.Code), zap.String("product", p.Product.Code))
	return s.FindByID(ctx, p.ID)
}

// Activate 启用
func (s *StoreProductStore) Activate(ctx context.Context, ids []int64) (int64, error) {
	return s.setActive(ctx, ids, true)
}

// Deactivate 停用
func (s *StoreProductStore) Deactivate(ctx context.Context, ids []int64) (int64, error) {
	return s.setActive(ctx, ids, false)
}

func (s *StoreProductStore) setActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&model.StoreProduct{}).Where("id IN ?", ids).Update("active", active)
	if res.Error != nil {
		return 0, fmt.Errorf("set store products active=%t: %w", active, res.Error)
	}
	return res.RowsAffected, nil
}

// Add 批量新增门店 × 商品；已存在的组合跳过，返回新增数量
func (s *StoreProductStore) Add(ctx context.Context, req facade.MassAddRequest) (int64, error) {
	rows := make([]model.StoreProduct, 0, len(req.Stores)*len(req.Products))
	for _, store := range req.Stores {
		for _, product := range req.Products {
			id, err := s.ids.NextID()
			if err != nil {
				return 0, err
			}
			row := req.Template
			row.ID = id
			row.Store = types.NewCode(store)
			row.Product = types.NewCode(product)
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "store"}, {Name: "product"}}, DoNothing: true}).
		CreateInBatches(rows, 200)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	s.logger.Info("store products mass added",
		zap.Int("requested", len(rows)), zap.Int64("added", res.RowsAffected))
	return res.RowsAffected, nil
}

// MassUpdate 批量更新，只写入 dirtyFields 对应的列
func (s *StoreProductStore) MassUpdate(ctx context.Context, req facade.MassUpdateRequest, dirtyFields []string) (int64, error) {
	cols := make([]string, 0, len(dirtyFields))
	for _, name := range dirtyFields {
		col, ok := model.StoreProductColumns[name]
		if !ok {
			return 0, fmt.Errorf("field %q cannot be mass updated", name)
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 || len(req.IDs) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Model(&model.StoreProduct{}).
		Where("id IN ?", req.IDs).
		Select(cols).
		Updates(&req.Patch)
	if res.Error != nil {
		return 0, translate(res.Error)
	}
	s.logger.Info("store products mass updated",
		zap.Strings("fields", dirtyFields), zap.Int64("updated", res.RowsAffected))
	return res.RowsAffected, nil
}

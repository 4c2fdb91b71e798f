package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/model"
)

var discountColumns = map[string]string{
	"id":        "id",
	"code":      "code",
	"company":   "company",
	"type":      "type",
	"startDate": "start_date",
	"active":    "active",
}

// DiscountStore 折扣门面的数据库实现
type DiscountStore struct {
	db     *gorm.DB
	ids    IDGenerator
	logger *zap.Logger
}

var _ facade.DiscountFacade = (*DiscountStore)(nil)

// NewDiscountStore 创建折扣门面
func NewDiscountStore(db *gorm.DB, ids IDGenerator, logger *zap.Logger) *DiscountStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscountStore{db: db, ids: ids, logger: logger}
}

func (s *DiscountStore) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("DiscountCategories").Preload("StoreDiscounts")
}

// Search 分页查询；过滤条件 code 为前缀匹配，其余为等值匹配
func (s *DiscountStore) Search(ctx context.Context, q facade.Query) (facade.ResponseEntity[model.Discount], error) {
	q = q.Normalize()
	filter := filters(q.Filters, discountColumns, "code")

	var out facade.ResponseEntity[model.Discount]
	if err := s.db.WithContext(ctx).Model(&model.Discount{}).Scopes(filter).Count(&out.TotalElements).Error; err != nil {
		return out, err
	}
	err := s.preload(ctx).Scopes(filter).
		Order(orderBy(q.Sort, discountColumns, "id")).
		Offset(q.Offset()).Limit(q.Size).
		Find(&out.Content).Error
	return out, err
}

// FindByID 按主键查询
func (s *DiscountStore) FindByID(ctx context.Context, id int64) (*model.Discount, error) {
	var d model.Discount
	if err := s.preload(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// FindByCode 按公司与折扣代码查询
func (s *DiscountStore) FindByCode(ctx context.Context, company, code string) (*model.Discount, error) {
	var d model.Discount
	if err := s.preload(ctx).First(&d, "company = ? AND code = ?", company, code).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// Save 新增（ID 为 0）或整体更新折扣；明细与门店整体替换
func (s *DiscountStore) Save(ctx context.Context, d *model.Discount) (*model.Discount, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := d.ID == 0
		if isNew {
			id, err := s.ids.NextID()
			if err != nil {
				return err
			}
			d.ID = id
		} else {
			var n int64
			if err := tx.Model(&model.Discount{}).Where("id = ?", d.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return facade.ErrNotFound
			}
			if err := tx.Where("discount_id = ?", d.ID).Delete(&model.DiscountCategory{}).Error; err != nil {
				return err
			}
			if err := tx.Where("discount_id = ?", d.ID).Delete(&model.StoreDiscount{}).Error; err != nil {
				return err
			}
		}

		for i := range d.DiscountCategories {
			id, err := s.ids.NextID()
			if err != nil {
				return err
			}
			d.DiscountCategories[i].ID, d.DiscountCategories[i].DiscountID = id, d.ID
		}
		for i := range d.StoreDiscounts {
			id, err := s.ids.NextID()
			if err != nil {
				return err
			}
			d.StoreDiscounts[i].ID, d.StoreDiscounts[i].DiscountID = id, d.ID
		}

		write := tx.Omit(clause.Associations)
		if isNew {
			write = write.Create(d)
		} else {
			write = write.Save(d)
		}
		if write.Error != nil {
			return write.Error
		}
		if len(d.DiscountCategories) > 0 {
			if err := tx.Create(&d.DiscountCategories).Error; err != nil {
				return err
			}
		}
		if len(d.StoreDiscounts) > 0 {
			if err := tx.Create(&d.StoreDiscounts).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	s.logger.Debug("discount saved", zap.Int64("id", d.ID), zap.String("code", d.Code))
	return s.FindByID(ctx, d.ID)
}

// Activate 启用折扣
func (s *DiscountStore) Activate(ctx context.Context, ids []int64) (int64, error) {
	return s.setActive(ctx, ids, true)
}

// Deactivate 停用折扣，同时停用其全部门店折扣
func (s *DiscountStore) Deactivate(ctx context.Context, ids []int64) (int64, error) {
	return s.setActive(ctx, ids, false)
}

func (s *DiscountStore) setActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Discount{}).Where("id IN ?", ids).Update("active", active)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if active {
			return nil
		}
		return tx.Model(&model.StoreDiscount{}).Where("discount_id IN ?", ids).Update("active", false).Error
	})
	if err != nil {
		return 0, fmt.Errorf("set discounts active=%t: %w", active, err)
	}
	return affected, nil
}

package store

import (
	"context"

	"gorm.io/gorm"

	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/types"
)

// CodeStore 通用代码门面的数据库实现
type CodeStore struct {
	db *gorm.DB
}

var _ facade.CommonCodeFacade = (*CodeStore)(nil)

// NewCodeStore 创建通用代码门面
func NewCodeStore(db *gorm.DB) *CodeStore {
	return &CodeStore{db: db}
}

// FindByType 查询某类代码（按 sort 排序）
func (s *CodeStore) FindByType(ctx context.Context, codeType string) ([]types.Code, error) {
	var rows []model.CommonCode
	if err := s.db.WithContext(ctx).Where("type = ?", codeType).Order("sort, code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.Code, len(rows))
	for i, r := range rows {
		out[i] = r.AsCode()
	}
	return out, nil
}

// ResourceStore 主数据门面的数据库实现
type ResourceStore struct {
	db *gorm.DB
}

var _ facade.ResourceFacade = (*ResourceStore)(nil)

// NewResourceStore 创建主数据门面
func NewResourceStore(db *gorm.DB) *ResourceStore {
	return &ResourceStore{db: db}
}

// Stores 公司下的门店，company 为空时返回全部
func (s *ResourceStore) Stores(ctx context.Context, company string) ([]types.Code, error) {
	return s.find(ctx, model.ResourceStore, company, "")
}

// Products 公司下的商品
func (s *ResourceStore) Products(ctx context.Context, company string) ([]types.Code, error) {
	return s.find(ctx, model.ResourceProduct, company, "")
}

// Markets 按公司或区域查询市场
func (s *ResourceStore) Markets(ctx context.Context, company, region string) ([]types.Code, error) {
	return s.find(ctx, model.ResourceMarket, company, region)
}

func (s *ResourceStore) find(ctx context.Context, kind, company, region string) ([]types.Code, error) {
	tx := s.db.WithContext(ctx).Where("kind = ?", kind)
	if company != "" {
		tx = tx.Where("company = ?", company)
	}
	if region != "" {
		tx = tx.Where("region = ?", region)
	}
	var rows []model.Resource
	if err := tx.Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.Code, len(rows))
	for i, r := range rows {
		out[i] = r.AsCode()
	}
	return out, nil
}

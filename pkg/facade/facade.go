// Package facade 维护界面调用的远程门面契约
package facade

import (
	"context"
	"errors"
	"strconv"

	"katydid-backoffice-forms/pkg/model"
	"katydid-backoffice-forms/pkg/types"
	"katydid-backoffice-forms/pkg/validator"
)

var (
	// ErrNotFound 实体不存在
	ErrNotFound = errors.New("entity not found")

	// ErrConflict 唯一键冲突（如同一公司下重复的折扣代码）
	ErrConflict = errors.New("entity already exists")
)

// Query 分页查询条件
type Query struct {
	Filters map[string]string `json:"filters,omitempty" form:"-"`
	Page    int               `json:"page" form:"page"`
	Size    int               `json:"size" form:"size"`
	Sort    string            `json:"sort,omitempty" form:"sort"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

// Normalize 页码从 0 开始，页大小限制在 [1, 500]
func (q Query) Normalize() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = defaultPageSize
	}
	if q.Size > maxPageSize {
		q.Size = maxPageSize
	}
	return q
}

// RuleValidation 查询参数规则
func (q *Query) RuleValidation() map[validator.ValidateScene]map[string]string {
	return map[validator.ValidateScene]map[string]string{
		validator.SceneSearch: {"page": "gte=0", "size": "gte=0", "sort": "omitempty,max=64"},
	}
}

// Offset 分页偏移量
func (q Query) Offset() int {
	return q.Page * q.Size
}

// ResponseEntity 分页结果
type ResponseEntity[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
}

// MassAddRequest 批量新增：门店 × 商品，共享同一组属性
type MassAddRequest struct {
	Stores   []string           `json:"stores"`
	Products []string           `json:"products"`
	Template model.StoreProduct `json:"template"`
}

// MaxMassAddPairs 单次批量新增的门店 × 商品组合上限
const MaxMassAddPairs = 10000

// RuleValidation 门店与商品至少各一项
func (r *MassAddRequest) RuleValidation() map[validator.ValidateScene]map[string]string {
	return map[validator.ValidateScene]map[string]string{
		validator.SceneMassAdd: {
			"stores":   "required,min=1,unique",
			"products": "required,min=1,unique",
		},
	}
}

// CustomValidation 组合数超过上限时报告在 stores 上
func (r *MassAddRequest) CustomValidation(scene validator.ValidateScene, report validator.FuncReportError) {
	if scene&validator.SceneMassAdd == 0 {
		return
	}
	if len(r.Stores)*len(r.Products) > MaxMassAddPairs {
		report("stores", validator.TagMax, strconv.Itoa(MaxMassAddPairs))
	}
}

// MassUpdateRequest 批量更新：对选中的门店商品写入补丁中修改过的字段
type MassUpdateRequest struct {
	IDs   []int64            `json:"ids"`
	Patch model.StoreProduct `json:"patch"`
}

// RuleValidation 至少选中一个门店商品
func (r *MassUpdateRequest) RuleValidation() map[validator.ValidateScene]map[string]string {
	return map[validator.ValidateScene]map[string]string{
		validator.SceneMassUpdate: {"ids": "required,min=1,unique,dive,gt=0"},
	}
}

// DiscountFacade 折扣门面
type DiscountFacade interface {
	Search(ctx context.Context, q Query) (ResponseEntity[model.Discount], error)
	FindByID(ctx context.Context, id int64) (*model.Discount, error)
	FindByCode(ctx context.Context, company, code string) (*model.Discount, error)
	Save(ctx context.Context, d *model.Discount) (*model.Discount, error)
	Activate(ctx context.Context, ids []int64) (int64, error)
	Deactivate(ctx context.Context, ids []int64) (int64, error)
}

// StoreProductFacade 门店商品门面
type StoreProductFacade interface {
	Search(ctx context.Context, q Query) (ResponseEntity[model.StoreProduct], error)
	FindByID(ctx context.Context, id int64) (*model.StoreProduct, error)
	FindByStoreAndProduct(ctx context.Context, store, product string) (*model.StoreProduct, error)
	Save(ctx context.Context, p *model.StoreProduct) (*model.StoreProduct, error)
	Activate(ctx context.Context, ids []int64) (int64, error)
	Deactivate(ctx context.Context, ids []int64) (int64, error)
	Add(ctx context.Context, req MassAddRequest) (int64, error)
	MassUpdate(ctx context.Context, req MassUpdateRequest, dirtyFields []string) (int64, error)
}

// CommonCodeFacade 通用代码门面
type CommonCodeFacade interface {
	FindByType(ctx context.Context, codeType string) ([]types.Code, error)
}

// ResourceFacade 主数据门面
type ResourceFacade interface {
	Stores(ctx context.Context, company string) ([]types.Code, error)
	Products(ctx context.Context, company string) ([]types.Code, error)
	Markets(ctx context.Context, company, region string) ([]types.Code, error)
}

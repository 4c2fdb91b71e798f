package model

import "katydid-backoffice-forms/pkg/types"

// CommonCode 通用代码表（下拉框选项）
type CommonCode struct {
	Type        string `json:"type" gorm:"primaryKey;size:32"`
	Code        string `json:"code" gorm:"primaryKey;size:32"`
	Description string `json:"description" gorm:"size:100"`
	Sort        int    `json:"sort"`
}

// TableName 表名
func (CommonCode) TableName() string { return "common_codes" }

// AsCode 转换为代码引用
func (c CommonCode) AsCode() types.Code {
	return types.NewCode(c.Code, c.Description)
}

// Resource 门店、商品、市场等主数据
type Resource struct {
	Kind        string `json:"kind" gorm:"primaryKey;size:16"`
	Code        string `json:"code" gorm:"primaryKey;size:32"`
	Description string `json:"description" gorm:"size:100"`
	Company     string `json:"company" gorm:"size:32;index"`
	Region      string `json:"region" gorm:"size:32;index"`
}

// TableName 表名
func (Resource) TableName() string { return "resources" }

// 主数据类别
const (
	ResourceStore   = "store"
	ResourceProduct = "product"
	ResourceMarket  = "market"
)

// AsCode 转换为代码引用
func (r Resource) AsCode() types.Code {
	return types.NewCode(r.Code, r.Description)
}

package entities

import (
	"context"

	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/form"
	"katydid-backoffice-forms/pkg/registry"
	"katydid-backoffice-forms/pkg/types"
)

// MsgSelectCompanyOrRegion 既未选公司也未选区域时的提示
const MsgSelectCompanyOrRegion = "select a company or region first"

// MarketSource 市场列表的来源（由资源门面实现）
type MarketSource interface {
	Markets(ctx context.Context, company, region string) ([]types.Code, error)
}

// MarketSelectionSchema 门店选择界面的公司/区域/市场筛选
func MarketSelectionSchema() registry.Schema {
	return registry.Schema{
		Entity: MarketSelection,
		Fields: []registry.Field{
			{Name: "company", Kind: types.KindCode},
			{Name: "region", Kind: types.KindCode},
			{Name: "market", Kind: types.KindCode},
		},
	}
}

// MarketSelector 市场下拉框的加载状态
type MarketSelector struct {
	Form    *form.Group
	Markets []types.Code
	Loading bool
	Message string

	source MarketSource
	logger *zap.Logger
}

// NewMarketSelector 创建市场选择器；公司或区域变化后需要调用 ConfigureMarket 重新加载
func NewMarketSelector(root *form.Group, source MarketSource, logger *zap.Logger) *MarketSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarketSelector{Form: root, source: source, logger: logger}
}

// ConfigureMarket 按已选公司（优先）或区域加载市场列表，market 为到达的市场值
//
// 公司与区域都未选时只设置提示信息，Loading 保持进入时的 true
func (s *MarketSelector) ConfigureMarket(ctx context.Context, market any) error {
	s.Loading = true
	s.Message = ""

	company := types.CodeOf(s.Form.Field("company").Value())
	region := types.CodeOf(s.Form.Field("region").Value())
	if company == "" && region == "" {
		s.Message = MsgSelectCompanyOrRegion
		s.logger.Debug("market requested without company or region", zap.String("market", types.CodeOf(market)))
		return nil
	}
	if company != "" {
		region = ""
	}

	markets, err := s.source.Markets(ctx, company, region)
	s.Loading = false
	if err != nil {
		s.Markets = nil
		return err
	}
	s.Markets = markets

	ctrl := s.Form.Field("market")
	want := types.CodeOf(market)
	for _, m := range markets {
		if m.Code == want {
			ctrl.SilentSetValue(m)
			return nil
		}
	}
	ctrl.SilentSetValue(nil)
	return nil
}

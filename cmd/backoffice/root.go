package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/entities"
	"katydid-backoffice-forms/pkg/registry"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "backoffice",
		Short: "Retail back-office maintenance forms",
		Long: `Back-office maintenance forms for discounts and store products.

Examples:
  backoffice serve --config backoffice.yaml
  backoffice validate Discount -f discount.json --mode add
  backoffice rules StoreProduct`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newValidateCmd(), newRulesCmd())
	return root
}

// newRegistry 注册全部实体
func newRegistry(logger *zap.Logger, loc *time.Location) (*registry.Registry, error) {
	opts := []registry.Option{registry.WithLogger(logger)}
	if loc != nil {
		opts = append(opts, registry.WithLocation(loc))
	}
	r := registry.New(opts...)
	if err := entities.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

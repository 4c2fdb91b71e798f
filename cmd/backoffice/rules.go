package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/rules"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [entity]",
		Short: "Print the cross-field dependency edges as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newRegistry(zap.NewNop(), nil)
			if err != nil {
				return err
			}
			catalogue := reg.Catalogue()
			if len(args) == 1 {
				edges, ok := catalogue[args[0]]
				if !ok {
					return fmt.Errorf("unknown entity %q", args[0])
				}
				catalogue = rules.Catalogue{args[0]: edges}
			}
			data, err := catalogue.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", name, err)
	}
	return loc, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/observability"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List plans and add-ons of the pricing catalog",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := billing.LoadCatalog(cfg.PricingCatalog)
		if err != nil {
			return fmt.Errorf("failed to load pricing catalog: %w", err)
		}
		observability.NewPrinter(os.Stdout).PrintCatalog(catalog)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/autoapply/internal/billing"
	"github.com/jonathan/autoapply/internal/observability"
	"github.com/jonathan/autoapply/internal/types"
	"github.com/spf13/cobra"
)

var (
	quotePlan   string
	quoteCoupon string
	quoteWallet int64
	quoteAddOns []string
	quoteJSON   bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an order from the pricing catalog",
	Long: `Computes the server-side price breakdown for a plan, coupon, wallet deduction and
add-ons. Only the catalog is consulted: per-user coupon reuse and global coupon
caps are checked when an order is created.`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quotePlan, "plan", "", "Plan ID (required)")
	quoteCmd.Flags().StringVar(&quoteCoupon, "coupon", "", "Coupon code")
	quoteCmd.Flags().Int64Var(&quoteWallet, "wallet", 0, "Wallet deduction in paise")
	quoteCmd.Flags().StringSliceVar(&quoteAddOns, "addon", nil, "Add-on as id or id=quantity (repeatable)")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "Print the quote as JSON")
	_ = quoteCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(quoteCmd)
}

// parseAddOns reads "id" or "id=quantity" values. A bare id means quantity 1.
func parseAddOns(values []string) ([]types.SelectedAddOn, error) {
	out := make([]types.SelectedAddOn, 0, len(values))
	for _, v := range values {
		id, qty, found := strings.Cut(strings.TrimSpace(v), "=")
		if id == "" {
			return nil, fmt.Errorf("invalid --addon %q: missing id", v)
		}
		quantity := 1
		if found {
			n, err := strconv.Atoi(qty)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid --addon %q: quantity must be a non-negative integer", v)
			}
			quantity = n
		}
		out = append(out, types.SelectedAddOn{ID: id, Quantity: quantity})
	}
	return out, nil
}

func runQuote(_ *cobra.Command, _ []string) error {
	addOns, err := parseAddOns(quoteAddOns)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := billing.LoadCatalog(cfg.PricingCatalog)
	if err != nil {
		return fmt.Errorf("failed to load pricing catalog: %w", err)
	}

	quote, err := billing.ComputeQuote(catalog, billing.QuoteInput{
		PlanID:          quotePlan,
		CouponCode:      quoteCoupon,
		WalletDeduction: quoteWallet,
		SelectedAddOns:  addOns,
	})
	if err != nil {
		return err
	}

	if quoteJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(quote)
	}
	observability.NewPrinter(os.Stdout).PrintQuote(quote)
	return nil
}

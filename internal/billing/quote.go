package billing

import (
	"math"

	"github.com/jonathan/autoapply/internal/types"
)

// QuoteInput is the client's view of an order.
type QuoteInput struct {
	PlanID          string
	CouponCode      string
	WalletDeduction int64
	// AddOnsTotal is used when SelectedAddOns is empty.
	AddOnsTotal    int64
	SelectedAddOns []types.SelectedAddOn
}

// Quote is the server-computed price breakdown. All amounts are paise.
type Quote struct {
	PlanID          string `json:"plan_id"`
	CouponCode      string `json:"coupon_code,omitempty"`
	BasePrice       int64  `json:"base_price"`
	Discount        int64  `json:"discount"`
	WalletDeduction int64  `json:"wallet_deduction"`
	AddOnsTotal     int64  `json:"addons_total"`
	FinalAmount     int64  `json:"final_amount"`
	Currency        string `json:"currency"`
	CatalogVersion  int    `json:"catalog_version"`

	// CouponCap is the coupon's global cap, zero when uncapped.
	CouponCap int `json:"-"`
}

// ComputeQuote prices an order from the catalog alone. It is deterministic and
// touches no store, so per-user coupon reuse and global caps are checked by
// the Reconciler.
func ComputeQuote(c *Catalog, in QuoteInput) (*Quote, error) {
	q := &Quote{
		PlanID:         in.PlanID,
		Currency:       c.Currency,
		CatalogVersion: c.Version,
	}

	if in.PlanID != AddOnOnlyPlanID {
		plan, ok := c.Plan(in.PlanID)
		if !ok {
			return nil, &InvalidPlanError{PlanID: in.PlanID}
		}
		q.BasePrice = plan.Price
	}

	discounted := q.BasePrice
	if code := NormalizeCoupon(in.CouponCode); code != "" {
		rule, ok := c.Rule(code, in.PlanID)
		if !ok {
			return nil, &InvalidCouponError{Code: code, PlanID: in.PlanID, Reason: "not valid for this plan"}
		}
		q.CouponCode = code
		q.Discount = Discount(rule, q.BasePrice)
		q.CouponCap = rule.GlobalCap
		discounted = q.BasePrice - q.Discount
	}

	wallet := in.WalletDeduction
	if wallet < 0 {
		wallet = 0
	}
	if wallet > discounted {
		wallet = discounted
	}
	q.WalletDeduction = wallet
	afterWallet := discounted - wallet

	q.AddOnsTotal = in.AddOnsTotal
	if len(in.SelectedAddOns) > 0 {
		total, err := AddOnsTotal(c, in.SelectedAddOns)
		if err != nil {
			return nil, err
		}
		q.AddOnsTotal = total
	}

	if q.AddOnsTotal > math.MaxInt64-afterWallet {
		return nil, &InvalidAddOnError{Reason: "add-on total out of range"}
	}
	q.FinalAmount = afterWallet + q.AddOnsTotal
	return q, nil
}

// Discount applies a coupon rule to a base price. Percent discounts round
// down; flat discounts never exceed the base.
func Discount(rule Coupon, base int64) int64 {
	switch rule.Type {
	case DiscountPercent:
		return base * rule.Value / 100
	case DiscountFlat:
		if rule.Value > base {
			return base
		}
		return rule.Value
	}
	return 0
}

// AddOnsTotal sums selected add-ons at catalog prices. A zero quantity counts
// as one; quantities above types.MaxAddOnQuantity are rejected.
func AddOnsTotal(c *Catalog, selected []types.SelectedAddOn) (int64, error) {
	var total int64
	for _, s := range selected {
		addOn, ok := c.AddOn(s.ID)
		if !ok {
			return 0, &InvalidAddOnError{AddOnID: s.ID}
		}
		qty := int64(s.Quantity)
		if qty <= 0 {
			qty = 1
		}
		if qty > types.MaxAddOnQuantity {
			return 0, &InvalidAddOnError{AddOnID: s.ID, Reason: "quantity too large"}
		}
		line := addOn.Price * qty
		if line/qty != addOn.Price || total > math.MaxInt64-line {
			return 0, &InvalidAddOnError{AddOnID: s.ID, Reason: "add-on total out of range"}
		}
		total += line
	}
	return total, nil
}

package billing

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// AddOnOnlyPlanID is the plan id of orders that buy add-ons without a plan.
const AddOnOnlyPlanID = "addon_only"

// DiscountType is how a coupon reduces the plan price.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

// Plan is a purchasable plan.
type Plan struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Price       int64  `yaml:"price" json:"price"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// AddOn is an extra sold with or without a plan.
type AddOn struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Price int64  `yaml:"price" json:"price"`
}

// Coupon is a discount rule valid for a set of plans. A GlobalCap above zero
// limits live uses across all users.
type Coupon struct {
	Code      string       `yaml:"code" json:"code"`
	Plans     []string     `yaml:"plans" json:"plans"`
	Type      DiscountType `yaml:"type" json:"type"`
	Value     int64        `yaml:"value" json:"value"`
	GlobalCap int          `yaml:"global_cap,omitempty" json:"global_cap,omitempty"`
}

// Catalog is the versioned price list.
type Catalog struct {
	Version  int      `yaml:"version" json:"version"`
	Currency string   `yaml:"currency" json:"currency"`
	Plans    []Plan   `yaml:"plans" json:"plans"`
	AddOns   []AddOn  `yaml:"addons" json:"addons"`
	Coupons  []Coupon `yaml:"coupons" json:"-"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file. An empty path returns the embedded catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog. Coupon codes are
// normalized to lowercase.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if c.Currency == "" {
		c.Currency = "INR"
	}
	for i := range c.Coupons {
		c.Coupons[i].Code = NormalizeCoupon(c.Coupons[i].Code)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog for internal consistency.
func (c *Catalog) Validate() error {
	if c.Version <= 0 {
		return fmt.Errorf("catalog version must be positive")
	}

	plans := map[string]bool{}
	for _, p := range c.Plans {
		if p.ID == "" || p.ID == AddOnOnlyPlanID {
			return fmt.Errorf("invalid plan id %q", p.ID)
		}
		if plans[p.ID] {
			return fmt.Errorf("duplicate plan id %q", p.ID)
		}
		if p.Price < 0 {
			return fmt.Errorf("plan %s has a negative price", p.ID)
		}
		plans[p.ID] = true
	}

	addOns := map[string]bool{}
	for _, a := range c.AddOns {
		if a.ID == "" || addOns[a.ID] {
			return fmt.Errorf("invalid or duplicate add-on id %q", a.ID)
		}
		if a.Price < 0 {
			return fmt.Errorf("add-on %s has a negative price", a.ID)
		}
		addOns[a.ID] = true
	}

	rules := map[string]bool{}
	for _, cp := range c.Coupons {
		if cp.Code == "" {
			return fmt.Errorf("coupon code is required")
		}
		switch cp.Type {
		case DiscountPercent:
			if cp.Value < 0 || cp.Value > 100 {
				return fmt.Errorf("coupon %s: percent must be within 0-100", cp.Code)
			}
		case DiscountFlat:
			if cp.Value < 0 {
				return fmt.Errorf("coupon %s: flat value must not be negative", cp.Code)
			}
		default:
			return fmt.Errorf("coupon %s: unknown discount type %q", cp.Code, cp.Type)
		}
		if len(cp.Plans) == 0 {
			return fmt.Errorf("coupon %s applies to no plans", cp.Code)
		}
		for _, planID := range cp.Plans {
			if !plans[planID] {
				return fmt.Errorf("coupon %s references unknown plan %q", cp.Code, planID)
			}
			key := cp.Code + "/" + planID
			if rules[key] {
				return fmt.Errorf("duplicate coupon rule %s", key)
			}
			rules[key] = true
		}
	}
	return nil
}

// Plan finds a plan by id.
func (c *Catalog) Plan(id string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// AddOn finds an add-on by id.
func (c *Catalog) AddOn(id string) (AddOn, bool) {
	for _, a := range c.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}

// Rule finds the coupon rule for a normalized code and plan.
func (c *Catalog) Rule(code, planID string) (Coupon, bool) {
	for _, cp := range c.Coupons {
		if cp.Code != code {
			continue
		}
		for _, p := range cp.Plans {
			if p == planID {
				return cp, true
			}
		}
	}
	return Coupon{}, false
}

// NormalizeCoupon trims and lowercases a coupon code.
func NormalizeCoupon(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

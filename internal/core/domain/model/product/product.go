package product

import (
	"errors"
	"fmt"

	"warehouse/internal/pkg/errs"
)

const (
	// DefaultRate1 is the tier1 conversion rate applied when a product has no
	// explicitly configured rates (base units per tier1 unit).
	DefaultRate1 = 144

	// DefaultRate2 is the tier2 conversion rate applied when a product has no
	// explicitly configured rates (base units per tier2 unit).
	DefaultRate2 = 12
)

var (
	// ErrProductIsNotConstructed is returned when a Product instance was not created
	// through the NewProduct factory method.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")
)

// Product represents a stocked article and its packaging hierarchy.
// Quantities for a product can be expressed in up to three nested packaging
// tiers (for example carton, box, piece). The innermost tier is always the
// base unit; rate1 and rate2 state how many base units one tier1 and one
// tier2 unit contain.
//
// Product follows these invariants:
//   - SKU must be non-empty and is the product's identity
//   - The base unit tier always carries a name
//   - rate1 >= rate2 >= 1 when both tiers are enabled
//   - A rate of 0 disables its tier: converted quantities for that tier are always 0
//
// The canonical stored quantity for any product is always a base-unit integer;
// tiered representations exist for data entry and display only.
type Product struct {
	sku         string
	productType string

	tier1Name string
	tier2Name string
	tier3Name string

	// base units per tier1/tier2 unit; 0 disables the tier
	rate1 int64
	rate2 int64

	isConstructed bool
}

// NewProduct creates a Product with explicit conversion rates.
//
// Parameters:
//   - sku: Unique product identifier (must be non-empty)
//   - productType: Free-form classification of the product
//   - tier1Name, tier2Name: Names of the outer packaging tiers (may be empty when the tier is disabled)
//   - tier3Name: Name of the base unit (must be non-empty)
//   - rate1: Base units per tier1 unit (0 disables tier1)
//   - rate2: Base units per tier2 unit (0 disables tier2)
//
// Returns:
//   - *Product: The created product if all validations pass
//   - error: Validation error if any parameter is invalid
func NewProduct(
	sku string,
	productType string,
	tier1Name string,
	tier2Name string,
	tier3Name string,
	rate1 int64,
	rate2 int64,
) (*Product, error) {
	p := &Product{
		productType:   productType,
		tier1Name:     tier1Name,
		tier2Name:     tier2Name,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setSKU(sku),
		p.setTier3Name(tier3Name),
		p.setRates(rate1, rate2),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// NewProductWithDefaultRates creates a Product using the documented default
// conversion rates (DefaultRate1, DefaultRate2). Used for products that have
// no explicitly configured packaging hierarchy.
func NewProductWithDefaultRates(sku string, productType string, tier1Name string, tier2Name string, tier3Name string) (*Product, error) {
	return NewProduct(sku, productType, tier1Name, tier2Name, tier3Name, DefaultRate1, DefaultRate2)
}

// Validate ensures the Product instance was properly constructed through NewProduct.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}

	return nil
}

// IsEqual compares two products by SKU, their identity.
func (p *Product) IsEqual(other *Product) bool {
	return other != nil && p.sku == other.sku
}

// SKU returns the product's unique identifier.
func (p *Product) SKU() string {
	return p.sku
}

// ProductType returns the product's classification.
func (p *Product) ProductType() string {
	return p.productType
}

// Tier1Name returns the name of the outermost packaging tier.
func (p *Product) Tier1Name() string {
	return p.tier1Name
}

// Tier2Name returns the name of the middle packaging tier.
func (p *Product) Tier2Name() string {
	return p.tier2Name
}

// Tier3Name returns the name of the base unit.
func (p *Product) Tier3Name() string {
	return p.tier3Name
}

// Rate1 returns the number of base units in one tier1 unit (0 if disabled).
func (p *Product) Rate1() int64 {
	return p.rate1
}

// Rate2 returns the number of base units in one tier2 unit (0 if disabled).
func (p *Product) Rate2() int64 {
	return p.rate2
}

// Tier1Enabled reports whether the outermost packaging tier is in use.
func (p *Product) Tier1Enabled() bool {
	return p.rate1 > 0
}

// Tier2Enabled reports whether the middle packaging tier is in use.
func (p *Product) Tier2Enabled() bool {
	return p.rate2 > 0
}

// ToBaseUnits converts a tiered quantity triple into the canonical base-unit count:
//
//	base = qty1*rate1 + qty2*rate2 + qty3
//
// All quantities must be non-negative; a negative quantity is an input
// validation error, never silently clamped. A non-zero quantity on a disabled
// tier is likewise rejected.
//
// Example (rate1=144, rate2=12):
//
//	base, _ := p.ToBaseUnits(2, 3, 5) // base = 2*144 + 3*12 + 5 = 329
func (p *Product) ToBaseUnits(qty1, qty2, qty3 int64) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	if qty1 < 0 || qty2 < 0 || qty3 < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("(%d, %d, %d) contains a negative quantity", qty1, qty2, qty3),
		)
	}

	if qty1 > 0 && !p.Tier1Enabled() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("tier1 is disabled for product %s", p.sku),
		)
	}

	if qty2 > 0 && !p.Tier2Enabled() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("tier2 is disabled for product %s", p.sku),
		)
	}

	return qty1*p.rate1 + qty2*p.rate2 + qty3, nil
}

// FromBaseUnits decomposes a base-unit count into a tiered quantity triple by
// greedy division: tier1 first, the remainder through tier2, the rest as base
// units. Disabled tiers are skipped and always receive 0.
//
// The decomposition is a display convenience only; the canonical stored value
// remains the base-unit integer. Re-converting the result through ToBaseUnits
// always reproduces the input.
func (p *Product) FromBaseUnits(baseQty int64) (qty1, qty2, qty3 int64, err error) {
	if err = p.Validate(); err != nil {
		return 0, 0, 0, err
	}

	if baseQty < 0 {
		return 0, 0, 0, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is negative", baseQty),
		)
	}

	remainder := baseQty
	if p.Tier1Enabled() {
		qty1 = remainder / p.rate1
		remainder -= qty1 * p.rate1
	}
	if p.Tier2Enabled() {
		qty2 = remainder / p.rate2
		remainder -= qty2 * p.rate2
	}
	qty3 = remainder

	return qty1, qty2, qty3, nil
}

func (p *Product) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku is required")
	}

	p.sku = sku
	return nil
}

func (p *Product) setTier3Name(tier3Name string) error {
	if tier3Name == "" {
		return errs.NewValueIsRequiredError("tier3Name is required")
	}

	p.tier3Name = tier3Name
	return nil
}

func (p *Product) setRates(rate1, rate2 int64) error {
	if rate1 < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"rate1 is invalid",
			fmt.Errorf("%d is negative", rate1),
		)
	}

	if rate2 < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"rate2 is invalid",
			fmt.Errorf("%d is negative", rate2),
		)
	}

	if rate1 > 0 && rate2 > 0 && rate1 < rate2 {
		return errs.NewValueIsInvalidErrorWithCause(
			"rate1 is invalid",
			fmt.Errorf("rate1 %d is less than rate2 %d", rate1, rate2),
		)
	}

	p.rate1 = rate1
	p.rate2 = rate2
	return nil
}

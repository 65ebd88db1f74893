package stock

import (
	"errors"
	"fmt"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/product"
	"warehouse/internal/pkg/errs"
)

var (
	// ErrInventoryRecordIsNotConstructed is returned when an InventoryRecord was not
	// created through the NewInventoryRecord factory method.
	ErrInventoryRecordIsNotConstructed = errors.New(
		"InventoryRecord must be created via NewInventoryRecord constructor")
)

// InventoryRecord represents one physical stock record: a quantity of a SKU
// held at a storage slot, optionally distinguished by lot and manufacture
// date. Records sharing a slot and SKU are kept separate per lot; the stock
// ledger aggregates them at read time.
type InventoryRecord struct {
	id       kernel.UUID
	sku      string
	location kernel.Location

	// lot distinguishes sub-batches of the same SKU at the same slot; empty for unlotted stock
	lot             string
	manufactureDate *time.Time

	qty1 int64
	qty2 int64
	qty3 int64

	warehouse string

	isConstructed bool
}

// NewInventoryRecord creates an InventoryRecord with validation.
//
// Parameters:
//   - id: Unique identifier for the record
//   - sku: Product identifier (must be non-empty)
//   - location: Storage slot holding the stock
//   - lot: Optional lot identifier (empty for unlotted stock)
//   - manufactureDate: Optional manufacture date of the lot
//   - qty1, qty2, qty3: Tier quantities (must be non-negative)
//   - warehouse: Owning warehouse name (must be non-empty)
//
// Returns:
//   - *InventoryRecord: The created record if all validations pass
//   - error: Validation error if any parameter is invalid
func NewInventoryRecord(
	id kernel.UUID,
	sku string,
	location kernel.Location,
	lot string,
	manufactureDate *time.Time,
	qty1, qty2, qty3 int64,
	warehouse string,
) (*InventoryRecord, error) {
	record := &InventoryRecord{
		lot:             lot,
		manufactureDate: manufactureDate,
		isConstructed:   true,
	}

	if err := errors.Join(
		record.setID(id),
		record.setSKU(sku),
		record.setLocation(location),
		record.setQuantities(qty1, qty2, qty3),
		record.setWarehouse(warehouse),
	); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate ensures the record was created through NewInventoryRecord.
func (r *InventoryRecord) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrInventoryRecordIsNotConstructed
	}

	return nil
}

// IsEqual compares two records by their unique identifiers.
func (r *InventoryRecord) IsEqual(other *InventoryRecord) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the record's unique identifier.
func (r *InventoryRecord) ID() kernel.UUID {
	return r.id
}

// SKU returns the product identifier of the stocked goods.
func (r *InventoryRecord) SKU() string {
	return r.sku
}

// Location returns the storage slot holding the stock.
func (r *InventoryRecord) Location() kernel.Location {
	return r.location
}

// Lot returns the lot identifier, or the empty string for unlotted stock.
func (r *InventoryRecord) Lot() string {
	return r.lot
}

// ManufactureDate returns the manufacture date of the lot, or nil if unknown.
func (r *InventoryRecord) ManufactureDate() *time.Time {
	return r.manufactureDate
}

// Quantities returns the record's tier quantity triple.
func (r *InventoryRecord) Quantities() (qty1, qty2, qty3 int64) {
	return r.qty1, r.qty2, r.qty3
}

// Warehouse returns the name of the owning warehouse.
func (r *InventoryRecord) Warehouse() string {
	return r.warehouse
}

// ConsumeBaseUnits removes picked stock from the record. The consumed amount
// is netted against the record's total in base units and the remainder is
// re-normalized into tiers through the product's conversion rates.
//
// Business rules:
//   - baseUnits must be positive
//   - baseUnits must not exceed the record's total in base units
func (r *InventoryRecord) ConsumeBaseUnits(p *product.Product, baseUnits int64) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if baseUnits <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"baseUnits is invalid",
			fmt.Errorf("%d is not greater than 0", baseUnits),
		)
	}

	total, err := p.ToBaseUnits(r.qty1, r.qty2, r.qty3)
	if err != nil {
		return err
	}
	if baseUnits > total {
		return errs.NewValueIsOutOfRangeError("baseUnits", baseUnits, 0, total)
	}

	qty1, qty2, qty3, err := p.FromBaseUnits(total - baseUnits)
	if err != nil {
		return err
	}

	return r.setQuantities(qty1, qty2, qty3)
}

func (r *InventoryRecord) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	r.id = id
	return nil
}

func (r *InventoryRecord) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku is required")
	}

	r.sku = sku
	return nil
}

func (r *InventoryRecord) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	r.location = location
	return nil
}

func (r *InventoryRecord) setQuantities(qty1, qty2, qty3 int64) error {
	if qty1 < 0 || qty2 < 0 || qty3 < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("(%d, %d, %d) contains a negative quantity", qty1, qty2, qty3),
		)
	}

	r.qty1 = qty1
	r.qty2 = qty2
	r.qty3 = qty3
	return nil
}

func (r *InventoryRecord) setWarehouse(warehouse string) error {
	if warehouse == "" {
		return errs.NewValueIsRequiredError("warehouse is required")
	}

	r.warehouse = warehouse
	return nil
}

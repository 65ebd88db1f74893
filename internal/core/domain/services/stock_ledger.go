package services

import (
	"sort"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/product"
	"warehouse/internal/core/domain/model/stock"
	"warehouse/internal/pkg/errs"
)

// ProductCatalog provides product lookup for unit conversion math.
type ProductCatalog interface {
	// ProductOf returns the product for the given SKU.
	// Returns an ObjectNotFoundError when the SKU is unknown.
	ProductOf(sku string) (*product.Product, error)
}

// MapProductCatalog is a ProductCatalog backed by an in-memory map,
// typically built from a repository read at the start of an operation.
type MapProductCatalog struct {
	products map[string]*product.Product
}

// NewMapProductCatalog builds a catalog over the given products.
func NewMapProductCatalog(products []*product.Product) *MapProductCatalog {
	bySKU := make(map[string]*product.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU()] = p
	}
	return &MapProductCatalog{products: bySKU}
}

// ProductOf returns the product for the given SKU.
func (c *MapProductCatalog) ProductOf(sku string) (*product.Product, error) {
	p, ok := c.products[sku]
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", sku)
	}
	return p, nil
}

// CommitmentView exposes the commitment state the ledger nets out of
// physical quantities. Implemented by AllocationResolver.
type CommitmentView interface {
	// CommittedBaseUnits returns the base units currently reserved for the
	// SKU at the slot across all lots.
	CommittedBaseUnits(sku string, location kernel.Location) int64
}

// SnapshotFilter narrows a stock snapshot to one slot and/or one SKU.
// Zero-valued fields match everything.
type SnapshotFilter struct {
	Location *kernel.Location
	SKU      string
}

// LocationStock is one aggregated snapshot row: all lots of one SKU at one
// slot summed together, with the slot's capacity utilization.
type LocationStock struct {
	Location       kernel.Location
	SKU            string
	Qty1           int64
	Qty2           int64
	Qty3           int64
	BaseUnits      int64
	UtilizationPct float64
	Warehouse      string
}

// LotStock is the physical availability of one lot of one SKU at one slot,
// the granularity the allocation resolver works at.
type LotStock struct {
	SKU             string
	Location        kernel.Location
	Lot             string
	ManufactureDate *time.Time
	BaseUnits       int64
	Warehouse       string
}

// StockLedger aggregates raw inventory records into read models: per-slot
// snapshots, per-lot availability, and committed-adjusted available counts.
//
// The ledger is strictly read-only: it never mutates records or commitment
// state. Callers load the records from persistence and pass them in, the way
// other domain services receive their aggregates.
type StockLedger struct {
	catalog     ProductCatalog
	commitments CommitmentView
}

// NewStockLedger creates a StockLedger over the given product catalog and
// commitment state.
func NewStockLedger(catalog ProductCatalog, commitments CommitmentView) *StockLedger {
	return &StockLedger{
		catalog:     catalog,
		commitments: commitments,
	}
}

// Snapshot aggregates the given inventory records into one row per
// (slot, SKU) pair, summing tier quantities across lots and deriving the
// base-unit total through the product's conversion rates.
//
// Utilization is computed per slot against its declared capacity: the
// aggregated base units of all SKUs at the slot divided by capacity, clamped
// to [0, 100]. Slots without a declared capacity report 0.
//
// Rows are ordered by slot code, then SKU, so snapshots are deterministic.
func (l *StockLedger) Snapshot(
	records []*stock.InventoryRecord,
	locations []*stock.StorageLocation,
	filter SnapshotFilter,
) ([]LocationStock, error) {
	type rowKey struct {
		code string
		sku  string
	}

	rows := make(map[rowKey]*LocationStock)
	locationTotals := make(map[string]int64)

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, err
		}

		if !l.matches(record, filter) {
			continue
		}

		p, err := l.catalog.ProductOf(record.SKU())
		if err != nil {
			return nil, err
		}

		q1, q2, q3 := record.Quantities()
		base, err := p.ToBaseUnits(q1, q2, q3)
		if err != nil {
			return nil, err
		}

		key := rowKey{code: record.Location().Code(), sku: record.SKU()}
		row, ok := rows[key]
		if !ok {
			row = &LocationStock{
				Location:  record.Location(),
				SKU:       record.SKU(),
				Warehouse: record.Warehouse(),
			}
			rows[key] = row
		}

		row.Qty1 += q1
		row.Qty2 += q2
		row.Qty3 += q3
		row.BaseUnits += base
		locationTotals[key.code] += base
	}

	capacities := make(map[string]*stock.StorageLocation, len(locations))
	for _, loc := range locations {
		capacities[loc.Location().Code()] = loc
	}

	result := make([]LocationStock, 0, len(rows))
	for key, row := range rows {
		if sl, ok := capacities[key.code]; ok {
			row.UtilizationPct = sl.Utilization(locationTotals[key.code])
		}
		result = append(result, *row)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Location.Code() != result[j].Location.Code() {
			return result[i].Location.Code() < result[j].Location.Code()
		}
		return result[i].SKU < result[j].SKU
	})

	return result, nil
}

// AvailableBaseUnits returns the base units of the SKU available at the slot:
// the physical sum across all lots minus units soft-committed by in-flight
// allocations. The result is never negative.
func (l *StockLedger) AvailableBaseUnits(
	records []*stock.InventoryRecord,
	sku string,
	location kernel.Location,
) (int64, error) {
	if sku == "" {
		return 0, errs.NewValueIsRequiredError("sku")
	}
	if err := location.Validate(); err != nil {
		return 0, err
	}

	var physical int64
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return 0, err
		}

		if record.SKU() != sku {
			continue
		}

		equal, err := record.Location().IsEqual(location)
		if err != nil {
			return 0, err
		}
		if !equal {
			continue
		}

		p, prodErr := l.catalog.ProductOf(sku)
		if prodErr != nil {
			return 0, prodErr
		}

		q1, q2, q3 := record.Quantities()
		base, convErr := p.ToBaseUnits(q1, q2, q3)
		if convErr != nil {
			return 0, convErr
		}
		physical += base
	}

	available := physical - l.commitments.CommittedBaseUnits(sku, location)
	if available < 0 {
		return 0, nil
	}
	return available, nil
}

// LotStocks aggregates the given records into per-(slot, lot) physical
// availability for one SKU, the input the allocation resolver ranks.
// Records of the same lot at the same slot are summed; lots are returned in
// slot-code order for determinism (the resolver applies its own ranking).
func (l *StockLedger) LotStocks(records []*stock.InventoryRecord, sku string) ([]LotStock, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	p, err := l.catalog.ProductOf(sku)
	if err != nil {
		return nil, err
	}

	type lotKey struct {
		code string
		lot  string
	}

	lots := make(map[lotKey]*LotStock)
	for _, record := range records {
		if err = record.Validate(); err != nil {
			return nil, err
		}

		if record.SKU() != sku {
			continue
		}

		q1, q2, q3 := record.Quantities()
		base, convErr := p.ToBaseUnits(q1, q2, q3)
		if convErr != nil {
			return nil, convErr
		}

		key := lotKey{code: record.Location().Code(), lot: record.Lot()}
		entry, ok := lots[key]
		if !ok {
			entry = &LotStock{
				SKU:             sku,
				Location:        record.Location(),
				Lot:             record.Lot(),
				ManufactureDate: record.ManufactureDate(),
				Warehouse:       record.Warehouse(),
			}
			lots[key] = entry
		}

		entry.BaseUnits += base
		// records of one lot can disagree on the date; the earliest one
		// drives first-expired-first-out ranking
		if d := record.ManufactureDate(); d != nil {
			if entry.ManufactureDate == nil || d.Before(*entry.ManufactureDate) {
				entry.ManufactureDate = d
			}
		}
	}

	result := make([]LotStock, 0, len(lots))
	for _, entry := range lots {
		result = append(result, *entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Location.Code() != result[j].Location.Code() {
			return result[i].Location.Code() < result[j].Location.Code()
		}
		return result[i].Lot < result[j].Lot
	})

	return result, nil
}

func (l *StockLedger) matches(record *stock.InventoryRecord, filter SnapshotFilter) bool {
	if filter.SKU != "" && record.SKU() != filter.SKU {
		return false
	}

	if filter.Location != nil {
		equal, err := record.Location().IsEqual(*filter.Location)
		if err != nil || !equal {
			return false
		}
	}

	return true
}

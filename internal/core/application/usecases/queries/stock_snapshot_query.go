package queries

import (
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrStockSnapshotQueryIsNotConstructed = errors.New(
	"StockSnapshotQuery must be created via NewStockSnapshotQuery constructor",
)

// StockSnapshotQuery retrieves the aggregated stock picture: one row per
// (slot, SKU) with tier sums, base units and slot utilization. Optional
// filters narrow the snapshot to one slot and/or one SKU.
//
// Example:
//
//	query, err := NewStockSnapshotQuery("A/1/1", "SKU-1")
//	if err != nil {
//	    return fmt.Errorf("invalid filter: %w", err)
//	}
//
//	handler := NewStockSnapshotQueryHandler(db, resolver)
//	snapshot, err := handler.Handle(ctx, query)
type StockSnapshotQuery struct {
	location *kernel.Location
	sku      string

	guard guard.ConstructorGuard
}

// NewStockSnapshotQuery creates a snapshot query. locationCode may be empty
// (all slots) or a "ROW/LEVEL/POSITION" code; sku may be empty (all SKUs).
func NewStockSnapshotQuery(locationCode string, sku string) (StockSnapshotQuery, error) {
	snapshotQuery := StockSnapshotQuery{
		sku:   sku,
		guard: guard.NewConstructorGuard(),
	}

	if locationCode != "" {
		location, err := kernel.ParseLocation(locationCode)
		if err != nil {
			return StockSnapshotQuery{}, err
		}
		snapshotQuery.location = &location
	}

	return snapshotQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrStockSnapshotQueryIsNotConstructed if validation fails.
func (q StockSnapshotQuery) Validate() error {
	return q.guard.Validate(ErrStockSnapshotQueryIsNotConstructed)
}

// Location returns the slot filter; nil means all slots.
func (q StockSnapshotQuery) Location() *kernel.Location {
	return q.location
}

// SKU returns the SKU filter; empty means all SKUs.
func (q StockSnapshotQuery) SKU() string {
	return q.sku
}

// StockSnapshotResponse represents one aggregated snapshot row.
type StockSnapshotResponse struct {
	Location       string
	SKU            string
	Qty1           int64
	Qty2           int64
	Qty3           int64
	BaseUnits      int64
	AvailableBase  int64
	UtilizationPct float64
	Warehouse      string
}

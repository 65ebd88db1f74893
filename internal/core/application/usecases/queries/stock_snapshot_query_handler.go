package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/product"
	"warehouse/internal/core/domain/model/stock"
	"warehouse/internal/core/domain/services"
)

// StockSnapshotQueryHandler builds the aggregated stock read model: raw
// inventory rows are loaded from the database, pushed through the stock
// ledger, and netted against the live commitment registry.
type StockSnapshotQueryHandler struct {
	db       *gorm.DB
	resolver *services.AllocationResolver
}

// NewStockSnapshotQueryHandler creates a handler for snapshot queries.
// Requires a GORM database connection and the process-wide allocation
// resolver for committed-unit accounting.
func NewStockSnapshotQueryHandler(db *gorm.DB, resolver *services.AllocationResolver) StockSnapshotQueryHandler {
	return StockSnapshotQueryHandler{db: db, resolver: resolver}
}

// Handle executes the snapshot query. Rows come back ordered by slot code
// then SKU; AvailableBase nets out soft commitments and is never negative.
func (h StockSnapshotQueryHandler) Handle(
	ctx context.Context,
	query StockSnapshotQuery,
) ([]StockSnapshotResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	products, err := loadProducts(ctx, h.db)
	if err != nil {
		return nil, err
	}

	records, err := loadInventoryRecords(ctx, h.db)
	if err != nil {
		return nil, err
	}

	locations, err := loadStorageLocations(ctx, h.db)
	if err != nil {
		return nil, err
	}

	ledger := services.NewStockLedger(services.NewMapProductCatalog(products), h.resolver)

	rows, err := ledger.Snapshot(records, locations, services.SnapshotFilter{
		Location: query.Location(),
		SKU:      query.SKU(),
	})
	if err != nil {
		return nil, err
	}

	result := make([]StockSnapshotResponse, 0, len(rows))
	for _, row := range rows {
		available := row.BaseUnits - h.resolver.CommittedBaseUnits(row.SKU, row.Location)
		if available < 0 {
			available = 0
		}

		result = append(result, StockSnapshotResponse{
			Location:       row.Location.Code(),
			SKU:            row.SKU,
			Qty1:           row.Qty1,
			Qty2:           row.Qty2,
			Qty3:           row.Qty3,
			BaseUnits:      row.BaseUnits,
			AvailableBase:  available,
			UtilizationPct: row.UtilizationPct,
			Warehouse:      row.Warehouse,
		})
	}

	return result, nil
}

// loadProducts reads the whole product catalog into domain objects.
func loadProducts(ctx context.Context, db *gorm.DB) ([]*product.Product, error) {
	products := make([]*product.Product, 0)

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			sku,
			product_type,
			tier1_name,
			tier2_name,
			tier3_name,
			rate1,
			rate2
		FROM products
		ORDER BY sku
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sku, productType, tier1Name, tier2Name, tier3Name string
		var rate1, rate2 int64

		err = rows.Scan(&sku, &productType, &tier1Name, &tier2Name, &tier3Name, &rate1, &rate2)
		if err != nil {
			return nil, err
		}

		p, prodErr := product.NewProduct(sku, productType, tier1Name, tier2Name, tier3Name, rate1, rate2)
		if prodErr != nil {
			return nil, prodErr
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// loadInventoryRecords reads all physical stock rows into domain objects.
func loadInventoryRecords(ctx context.Context, db *gorm.DB) ([]*stock.InventoryRecord, error) {
	records := make([]*stock.InventoryRecord, 0)

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			sku,
			location,
			lot,
			manufacture_date,
			qty1,
			qty2,
			qty3,
			warehouse
		FROM inventory_records
		ORDER BY location, sku, lot
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var sku, locationCode, lot, warehouse string
		var manufactureDate sql.NullTime
		var qty1, qty2, qty3 int64

		err = rows.Scan(&id, &sku, &locationCode, &lot, &manufactureDate, &qty1, &qty2, &qty3, &warehouse)
		if err != nil {
			return nil, err
		}

		recordID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		location, locErr := kernel.ParseLocation(locationCode)
		if locErr != nil {
			return nil, locErr
		}

		record, recErr := stock.NewInventoryRecord(
			recordID, sku, location, lot, nullTimePtr(manufactureDate),
			qty1, qty2, qty3, warehouse,
		)
		if recErr != nil {
			return nil, recErr
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// loadStorageLocations reads the declared slots with their capacities.
func loadStorageLocations(ctx context.Context, db *gorm.DB) ([]*stock.StorageLocation, error) {
	locations := make([]*stock.StorageLocation, 0)

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			location,
			capacity_base_units,
			warehouse
		FROM storage_locations
		ORDER BY location
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var locationCode, warehouse string
		var capacity int64

		err = rows.Scan(&locationCode, &capacity, &warehouse)
		if err != nil {
			return nil, err
		}

		location, locErr := kernel.ParseLocation(locationCode)
		if locErr != nil {
			return nil, locErr
		}

		storageLocation, slErr := stock.NewStorageLocation(location, capacity, warehouse)
		if slErr != nil {
			return nil, slErr
		}
		locations = append(locations, storageLocation)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

package ports

import (
	"context"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stock"
)

// InventoryRepository defines the persistence contract for physical stock:
// inventory records (quantities of a lot at a slot) and the declared
// storage slots with their capacities.
type InventoryRepository interface {
	// Add persists a new inventory record.
	Add(ctx context.Context, record *stock.InventoryRecord) error

	// Update persists changes to an existing inventory record.
	Update(ctx context.Context, record *stock.InventoryRecord) error

	// Get retrieves an inventory record by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*stock.InventoryRecord, error)

	// GetBySKU retrieves all inventory records holding the given SKU,
	// across slots and lots.
	GetBySKU(ctx context.Context, sku string) ([]*stock.InventoryRecord, error)

	// GetAll retrieves every inventory record. Used by stock snapshots.
	GetAll(ctx context.Context) ([]*stock.InventoryRecord, error)

	// AddStorageLocation persists a new storage slot declaration.
	AddStorageLocation(ctx context.Context, location *stock.StorageLocation) error

	// GetStorageLocations retrieves all declared storage slots with their
	// base-unit capacities.
	GetStorageLocations(ctx context.Context) ([]*stock.StorageLocation, error)
}

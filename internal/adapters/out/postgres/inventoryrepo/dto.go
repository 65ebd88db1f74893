// Package inventoryrepo provides data transfer objects and mapping functions
// for physical stock persistence: inventory records (a lot of a SKU at a slot)
// and the declared storage slots with their capacities.
package inventoryrepo

import (
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// InventoryRecordDTO represents the database structure for persisting one
// physical stock record. Records sharing a slot and SKU stay separate per lot;
// aggregation happens at read time in the stock ledger.
type InventoryRecordDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SKU             string    `gorm:"type:varchar(64);not null;index"`
	Location        string    `gorm:"type:varchar(16);not null;index"`
	Lot             string    `gorm:"type:varchar(64)"`
	ManufactureDate *time.Time
	Qty1            int64
	Qty2            int64
	Qty3            int64
	Warehouse       string `gorm:"type:varchar(255);not null"`
}

// TableName specifies the database table name for inventory records.
// Overrides GORM's default naming convention to use "inventory_records".
func (InventoryRecordDTO) TableName() string {
	return "inventory_records"
}

// StorageLocationDTO represents the database structure for persisting a
// declared storage slot. The normalized slot code is the natural key.
type StorageLocationDTO struct {
	Location          string `gorm:"type:varchar(16);primaryKey"`
	CapacityBaseUnits int64  `gorm:"not null"`
	Warehouse         string `gorm:"type:varchar(255);not null"`
}

// TableName specifies the database table name for storage slot declarations.
func (StorageLocationDTO) TableName() string {
	return "storage_locations"
}

// fromDomain converts an inventory record domain aggregate to its database
// representation. The slot is stored as its normalized code.
func fromDomain(record *stock.InventoryRecord) InventoryRecordDTO {
	qty1, qty2, qty3 := record.Quantities()

	return InventoryRecordDTO{
		ID:              record.ID().Bytes(),
		SKU:             record.SKU(),
		Location:        record.Location().Code(),
		Lot:             record.Lot(),
		ManufactureDate: record.ManufactureDate(),
		Qty1:            qty1,
		Qty2:            qty2,
		Qty3:            qty3,
		Warehouse:       record.Warehouse(),
	}
}

// toDomain converts a database DTO to an inventory record domain aggregate.
func toDomain(dto InventoryRecordDTO) (*stock.InventoryRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.ParseLocation(dto.Location)
	if err != nil {
		return nil, err
	}

	return stock.NewInventoryRecord(
		id,
		dto.SKU,
		location,
		dto.Lot,
		dto.ManufactureDate,
		dto.Qty1, dto.Qty2, dto.Qty3,
		dto.Warehouse,
	)
}

// storageLocationFromDomain converts a storage slot declaration to its
// database representation.
func storageLocationFromDomain(sl *stock.StorageLocation) StorageLocationDTO {
	return StorageLocationDTO{
		Location:          sl.Location().Code(),
		CapacityBaseUnits: sl.CapacityBaseUnits(),
		Warehouse:         sl.Warehouse(),
	}
}

// storageLocationToDomain converts a database DTO to a storage slot
// declaration.
func storageLocationToDomain(dto StorageLocationDTO) (*stock.StorageLocation, error) {
	location, err := kernel.ParseLocation(dto.Location)
	if err != nil {
		return nil, err
	}

	return stock.NewStorageLocation(location, dto.CapacityBaseUnits, dto.Warehouse)
}

package inventoryrepo

import (
	"context"
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/stock"
	"warehouse/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormInventoryRepository implements InventoryRepository using GORM.
type GormInventoryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB, tracker aggregateTracker) *GormInventoryRepository {
	return &GormInventoryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new inventory record to the database.
func (r *GormInventoryRepository) Add(ctx context.Context, aggregate *stock.InventoryRecord) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing inventory record to the database. All columns are
// written so that quantities counted down to zero persist as zero.
func (r *GormInventoryRepository) Update(ctx context.Context, aggregate *stock.InventoryRecord) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&InventoryRecordDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an inventory record by ID.
func (r *GormInventoryRepository) Get(ctx context.Context, id kernel.UUID) (*stock.InventoryRecord, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto InventoryRecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("inventory record", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBySKU retrieves all inventory records holding the given SKU, across
// slots and lots, ordered deterministically for allocation.
func (r *GormInventoryRepository) GetBySKU(ctx context.Context, sku string) ([]*stock.InventoryRecord, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}

	var dtos []InventoryRecordDTO
	if err := r.db.WithContext(ctx).
		Order("location, lot").
		Find(&dtos, "sku = ?", sku).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAll retrieves every inventory record.
func (r *GormInventoryRepository) GetAll(ctx context.Context) ([]*stock.InventoryRecord, error) {
	var dtos []InventoryRecordDTO
	if err := r.db.WithContext(ctx).Order("location, sku, lot").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// AddStorageLocation saves a new storage slot declaration.
func (r *GormInventoryRepository) AddStorageLocation(ctx context.Context, location *stock.StorageLocation) error {
	if err := location.Validate(); err != nil {
		return err
	}

	dto := storageLocationFromDomain(location)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetStorageLocations retrieves all declared storage slots with their
// base-unit capacities.
func (r *GormInventoryRepository) GetStorageLocations(ctx context.Context) ([]*stock.StorageLocation, error) {
	var dtos []StorageLocationDTO
	if err := r.db.WithContext(ctx).Order("location").Find(&dtos).Error; err != nil {
		return nil, err
	}

	locations := make([]*stock.StorageLocation, 0, len(dtos))
	for _, dto := range dtos {
		sl, err := storageLocationToDomain(dto)
		if err != nil {
			return nil, err
		}
		locations = append(locations, sl)
	}

	return locations, nil
}

func toDomainSlice(dtos []InventoryRecordDTO) ([]*stock.InventoryRecord, error) {
	records := make([]*stock.InventoryRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

package stock

import (
	"errors"
	"fmt"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"
)

var (
	// ErrStorageLocationIsNotConstructed is returned when a StorageLocation was not
	// created through the NewStorageLocation factory method.
	ErrStorageLocationIsNotConstructed = errors.New(
		"StorageLocation must be created via NewStorageLocation constructor")
)

// StorageLocation represents a physical storage slot and its declared
// capacity. Its identity is the normalized slot code. Capacity is expressed
// in base units and is used by the stock ledger to derive utilization.
type StorageLocation struct {
	location kernel.Location

	// capacityBaseUnits is the declared capacity of the slot in base units
	capacityBaseUnits int64

	warehouse string

	isConstructed bool
}

// NewStorageLocation creates a StorageLocation with validation.
//
// Parameters:
//   - location: The slot's normalized code (identity)
//   - capacityBaseUnits: Declared capacity in base units (must be positive)
//   - warehouse: Owning warehouse name (must be non-empty)
func NewStorageLocation(location kernel.Location, capacityBaseUnits int64, warehouse string) (*StorageLocation, error) {
	sl := &StorageLocation{
		isConstructed: true,
	}

	if err := errors.Join(
		sl.setLocation(location),
		sl.setCapacity(capacityBaseUnits),
		sl.setWarehouse(warehouse),
	); err != nil {
		return nil, err
	}

	return sl, nil
}

// Validate ensures the storage location was created through NewStorageLocation.
func (s *StorageLocation) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStorageLocationIsNotConstructed
	}

	return nil
}

// IsEqual compares two storage locations by slot code, their identity.
func (s *StorageLocation) IsEqual(other *StorageLocation) bool {
	if other == nil {
		return false
	}

	equal, err := s.location.IsEqual(other.location)
	return err == nil && equal
}

// Location returns the slot's normalized code.
func (s *StorageLocation) Location() kernel.Location {
	return s.location
}

// CapacityBaseUnits returns the declared capacity of the slot in base units.
func (s *StorageLocation) CapacityBaseUnits() int64 {
	return s.capacityBaseUnits
}

// Warehouse returns the name of the owning warehouse.
func (s *StorageLocation) Warehouse() string {
	return s.warehouse
}

// Utilization returns the percentage of the slot's capacity occupied by the
// given base-unit quantity, clamped to [0, 100].
func (s *StorageLocation) Utilization(occupiedBaseUnits int64) float64 {
	if occupiedBaseUnits <= 0 {
		return 0
	}

	pct := float64(occupiedBaseUnits) / float64(s.capacityBaseUnits) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *StorageLocation) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	s.location = location
	return nil
}

func (s *StorageLocation) setCapacity(capacityBaseUnits int64) error {
	if capacityBaseUnits <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"capacityBaseUnits is invalid",
			fmt.Errorf("%d is not greater than 0", capacityBaseUnits),
		)
	}

	s.capacityBaseUnits = capacityBaseUnits
	return nil
}

func (s *StorageLocation) setWarehouse(warehouse string) error {
	if warehouse == "" {
		return errs.NewValueIsRequiredError("warehouse is required")
	}

	s.warehouse = warehouse
	return nil
}

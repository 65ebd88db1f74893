package fulfillment

import (
	"errors"
	"fmt"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"
)

var (
	// ErrItemIsNotConstructed is returned when an Item instance was not created
	// through the NewItem or RestoreItem factory methods.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem constructors")
)

// Item represents one line of a fulfillment task: a requested quantity of a
// single SKU. The requested quantity is captured as entered (per tier) and
// normalized to a canonical base-unit integer; all stock math uses the
// base-unit value.
//
// Item follows these invariants:
//   - Requested base quantity is positive
//   - Fulfilled quantity never exceeds the requested quantity
//   - An item cannot be completed while no slot is allocated
//   - Status transitions follow the ItemStatus state machine
//
// Items are mutated exclusively through state machine operations; the
// fulfillment queue coordinator is the only caller.
type Item struct {
	id     kernel.UUID
	taskID kernel.UUID
	sku    string

	// requested quantity as entered, one value per packaging tier
	requestedQty1 int64
	requestedQty2 int64
	requestedQty3 int64

	// requestedBase is the canonical base-unit total of the request
	requestedBase int64

	// allocatedLocation is the slot stock was committed at; nil until assigned
	allocatedLocation *kernel.Location

	// commitID references the stock commitment held for this item; nil when none
	commitID *kernel.UUID

	fulfilledBase int64
	status        ItemStatus

	isConstructed bool
}

// NewItem creates a pending Item with validation.
//
// Parameters:
//   - id: Unique identifier for the item
//   - taskID: Identifier of the owning task
//   - sku: Product identifier (must be non-empty)
//   - requestedQty1, requestedQty2, requestedQty3: Requested quantity per tier (non-negative)
//   - requestedBase: Canonical base-unit total of the request (must be positive)
//
// Returns:
//   - *Item: The created item in Pending status
//   - error: Validation error if any parameter is invalid
func NewItem(
	id kernel.UUID,
	taskID kernel.UUID,
	sku string,
	requestedQty1, requestedQty2, requestedQty3 int64,
	requestedBase int64,
) (*Item, error) {
	item := &Item{
		status:        ItemStatusPending,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setTaskID(taskID),
		item.setSKU(sku),
		item.setRequested(requestedQty1, requestedQty2, requestedQty3, requestedBase),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem reconstructs an Item from persistent storage, including its
// allocation and progress. The restored item behaves identically to one
// mutated through normal domain operations.
func RestoreItem(
	id kernel.UUID,
	taskID kernel.UUID,
	sku string,
	requestedQty1, requestedQty2, requestedQty3 int64,
	requestedBase int64,
	allocatedLocation *kernel.Location,
	commitID *kernel.UUID,
	fulfilledBase int64,
	status ItemStatus,
) (*Item, error) {
	item := &Item{
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setTaskID(taskID),
		item.setSKU(sku),
		item.setRequested(requestedQty1, requestedQty2, requestedQty3, requestedBase),
		item.setAllocatedLocation(allocatedLocation),
		item.setCommitID(commitID),
		item.setFulfilledBase(fulfilledBase),
		item.setStatus(status),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate ensures the Item was created through a constructor.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}

	return nil
}

// IsEqual compares two items by their unique identifiers.
func (i *Item) IsEqual(other *Item) bool {
	return other != nil && i.id.IsEqual(other.id)
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// TaskID returns the identifier of the owning task.
func (i *Item) TaskID() kernel.UUID {
	return i.taskID
}

// SKU returns the requested product's identifier.
func (i *Item) SKU() string {
	return i.sku
}

// RequestedQuantities returns the requested quantity as entered, per tier.
func (i *Item) RequestedQuantities() (qty1, qty2, qty3 int64) {
	return i.requestedQty1, i.requestedQty2, i.requestedQty3
}

// RequestedBase returns the canonical base-unit total of the request.
func (i *Item) RequestedBase() int64 {
	return i.requestedBase
}

// AllocatedLocation returns the slot stock was committed at, or nil if the
// item has not been assigned.
func (i *Item) AllocatedLocation() *kernel.Location {
	return i.allocatedLocation
}

// CommitID returns the identifier of the stock commitment held for this item,
// or nil when none is held.
func (i *Item) CommitID() *kernel.UUID {
	return i.commitID
}

// FulfilledBase returns the picked base-unit quantity.
func (i *Item) FulfilledBase() int64 {
	return i.fulfilledBase
}

// Status returns the current status of the item.
func (i *Item) Status() ItemStatus {
	return i.status
}

// Assign records a successful stock commitment and moves the item to Assigned.
//
// Business rules:
//   - The item must be Pending (or Assigned, for re-allocation)
//   - Both the slot and the commitment reference must be valid
//
// The caller is responsible for releasing any previously held commitment
// before re-allocating.
func (i *Item) Assign(location kernel.Location, commitID kernel.UUID) error {
	if err := errors.Join(location.Validate(), commitID.Validate()); err != nil {
		return err
	}

	newStatus, err := i.status.Assign()
	if err != nil {
		return err
	}

	i.status = newStatus
	i.allocatedLocation = &location
	i.commitID = &commitID
	return nil
}

// StartPicking moves the item from Assigned to Picking.
// The item must hold an allocated slot.
func (i *Item) StartPicking() error {
	if i.allocatedLocation == nil {
		return NewInvalidTransitionError(i.status, ItemStatusPicking, "item has no allocated location")
	}

	newStatus, err := i.status.StartPicking()
	if err != nil {
		return err
	}

	i.status = newStatus
	return nil
}

// Complete moves the item from Picking to Completed, recording the picked
// base-unit quantity.
//
// Business rules:
//   - The item must be Picking with an allocated slot
//   - fulfilledBase must be non-negative and must not exceed the requested quantity
func (i *Item) Complete(fulfilledBase int64) error {
	if i.allocatedLocation == nil {
		return NewInvalidTransitionError(i.status, ItemStatusCompleted, "item has no allocated location")
	}

	if fulfilledBase < 0 || fulfilledBase > i.requestedBase {
		return errs.NewValueIsOutOfRangeError("fulfilledBase", fulfilledBase, 0, i.requestedBase)
	}

	newStatus, err := i.status.Complete()
	if err != nil {
		return err
	}

	i.status = newStatus
	i.fulfilledBase = fulfilledBase
	return nil
}

// Cancel withdraws the item, zeroing its fulfilled quantity and dropping its
// commitment reference. The caller must release the stock commitment itself
// before cancelling.
//
// Completed items cannot be cancelled.
func (i *Item) Cancel() error {
	newStatus, err := i.status.Cancel()
	if err != nil {
		return err
	}

	i.status = newStatus
	i.fulfilledBase = 0
	i.commitID = nil
	return nil
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}
	i.taskID = taskID
	return nil
}

func (i *Item) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku is required")
	}
	i.sku = sku
	return nil
}

func (i *Item) setRequested(qty1, qty2, qty3, base int64) error {
	if qty1 < 0 || qty2 < 0 || qty3 < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"requested quantity is invalid",
			fmt.Errorf("(%d, %d, %d) contains a negative quantity", qty1, qty2, qty3),
		)
	}

	if base <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"requestedBase is invalid",
			fmt.Errorf("%d is not greater than 0", base),
		)
	}

	i.requestedQty1 = qty1
	i.requestedQty2 = qty2
	i.requestedQty3 = qty3
	i.requestedBase = base
	return nil
}

func (i *Item) setAllocatedLocation(location *kernel.Location) error {
	if location != nil {
		if err := location.Validate(); err != nil {
			return err
		}
	}

	i.allocatedLocation = location
	return nil
}

func (i *Item) setCommitID(commitID *kernel.UUID) error {
	if commitID != nil {
		if err := commitID.Validate(); err != nil {
			return err
		}
	}

	i.commitID = commitID
	return nil
}

func (i *Item) setFulfilledBase(fulfilledBase int64) error {
	if fulfilledBase < 0 || fulfilledBase > i.requestedBase {
		return errs.NewValueIsOutOfRangeError("fulfilledBase", fulfilledBase, 0, i.requestedBase)
	}

	i.fulfilledBase = fulfilledBase
	return nil
}

func (i *Item) setStatus(status ItemStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if status == ItemStatusCompleted && i.allocatedLocation == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("completed item %s has no allocated location", i.id),
		)
	}

	i.status = status
	return nil
}

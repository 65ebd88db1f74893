package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"
)

// ErrInsufficientStock signals that a slot cannot cover the requested base
// units once in-flight commitments are netted out.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError carries the shortage detail of a failed commit.
type InsufficientStockError struct {
	SKU      string
	Location kernel.Location
	Lot      string
	Shortage int64
}

// NewInsufficientStockError creates an InsufficientStockError.
func NewInsufficientStockError(sku string, location kernel.Location, lot string, shortage int64) *InsufficientStockError {
	return &InsufficientStockError{
		SKU:      sku,
		Location: location,
		Lot:      lot,
		Shortage: shortage,
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: short %d base units of %s at %s (lot %q)",
		ErrInsufficientStock, e.Shortage, e.SKU, e.Location.Code(), e.Lot)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// LocationCandidate is one ranked allocation option: a lot at a slot with
// the base units still available there. Candidates that cannot fully cover
// the request are flagged insufficient with the shortage amount.
type LocationCandidate struct {
	Location        kernel.Location
	Lot             string
	ManufactureDate *time.Time
	AvailableBase   int64
	Insufficient    bool
	Shortage        int64
}

// Commitment is a soft reservation of base units of one SKU in one lot at
// one slot, held on behalf of a fulfillment item until picking confirms or
// the item is cancelled.
type Commitment struct {
	ID       kernel.UUID
	ItemID   kernel.UUID
	SKU      string
	Location kernel.Location
	Lot      string
	BaseQty  int64
}

type resourceKey struct {
	sku  string
	code string
	lot  string
}

// AllocationResolver ranks allocation candidates and tracks soft commitments
// against physical stock.
//
// The commitment registry is process-local and guarded by a single mutex:
// Commit recomputes availability and registers the reservation atomically,
// so two racing commits against the same lot can never both win when only
// one fits. State does not survive a restart; open commitments are rebuilt
// from in-progress fulfillment items at startup.
type AllocationResolver struct {
	mu          sync.Mutex
	commitments map[kernel.UUID]*Commitment
	byResource  map[resourceKey]int64
	byItem      map[kernel.UUID]kernel.UUID
}

// NewAllocationResolver creates an empty AllocationResolver.
func NewAllocationResolver() *AllocationResolver {
	return &AllocationResolver{
		commitments: make(map[kernel.UUID]*Commitment),
		byResource:  make(map[resourceKey]int64),
		byItem:      make(map[kernel.UUID]kernel.UUID),
	}
}

// FindCandidates ranks the given lots for allocating requestedBaseQty of the
// SKU. Ordering is first-expired-first-out: lots with the earliest
// manufacture date come first, undated lots last, ties broken by larger
// availability then slot code. Lots whose commitment-adjusted availability
// is zero are dropped; lots that cannot fully cover the request are kept but
// flagged insufficient.
func (r *AllocationResolver) FindCandidates(sku string, requestedBaseQty int64, lots []LotStock) ([]LocationCandidate, error) {
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if requestedBaseQty <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("requestedBaseQty",
			fmt.Errorf("requested quantity %d must be positive", requestedBaseQty))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	candidates := make([]LocationCandidate, 0, len(lots))
	for _, lot := range lots {
		if lot.SKU != sku {
			continue
		}

		key := resourceKey{sku: sku, code: lot.Location.Code(), lot: lot.Lot}
		available := lot.BaseUnits - r.byResource[key]
		if available <= 0 {
			continue
		}

		candidate := LocationCandidate{
			Location:        lot.Location,
			Lot:             lot.Lot,
			ManufactureDate: lot.ManufactureDate,
			AvailableBase:   available,
		}
		if available < requestedBaseQty {
			candidate.Insufficient = true
			candidate.Shortage = requestedBaseQty - available
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		left, right := candidates[i], candidates[j]

		switch {
		case left.ManufactureDate != nil && right.ManufactureDate == nil:
			return true
		case left.ManufactureDate == nil && right.ManufactureDate != nil:
			return false
		case left.ManufactureDate != nil && right.ManufactureDate != nil:
			if !left.ManufactureDate.Equal(*right.ManufactureDate) {
				return left.ManufactureDate.Before(*right.ManufactureDate)
			}
		}

		if left.AvailableBase != right.AvailableBase {
			return left.AvailableBase > right.AvailableBase
		}
		return left.Location.Code() < right.Location.Code()
	})

	return candidates, nil
}

// Commit reserves baseQty base units of the SKU in the given lot for the
// item. physicalBaseQty is the lot's physical stock as read by the caller;
// availability is recomputed against open commitments under the registry
// lock, so of two racing commits over the same remaining stock exactly one
// succeeds.
//
// An item holds at most one commitment at a time.
func (r *AllocationResolver) Commit(
	itemID kernel.UUID,
	sku string,
	location kernel.Location,
	lot string,
	physicalBaseQty int64,
	baseQty int64,
) (*Commitment, error) {
	if err := itemID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("itemID", err)
	}
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	if baseQty <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("baseQty",
			fmt.Errorf("commit quantity %d must be positive", baseQty))
	}
	if physicalBaseQty < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("physicalBaseQty",
			fmt.Errorf("physical quantity %d must not be negative", physicalBaseQty))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.byItem[itemID]; held {
		return nil, errs.NewValueIsInvalidErrorWithCause("itemID",
			fmt.Errorf("item %s already holds a commitment", itemID))
	}

	key := resourceKey{sku: sku, code: location.Code(), lot: lot}
	available := physicalBaseQty - r.byResource[key]
	if available < baseQty {
		shortage := baseQty - available
		if available < 0 {
			shortage = baseQty
		}
		return nil, NewInsufficientStockError(sku, location, lot, shortage)
	}

	commitment := &Commitment{
		ID:       kernel.NewUUID(),
		ItemID:   itemID,
		SKU:      sku,
		Location: location,
		Lot:      lot,
		BaseQty:  baseQty,
	}

	r.commitments[commitment.ID] = commitment
	r.byResource[key] += baseQty
	r.byItem[itemID] = commitment.ID

	return commitment, nil
}

// Release frees the commitment with the given ID. Releasing an unknown or
// already released commitment is a no-op.
func (r *AllocationResolver) Release(commitID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.release(commitID)
}

// ReleaseForItem frees whatever commitment the item currently holds.
// Items without an open commitment are a no-op.
func (r *AllocationResolver) ReleaseForItem(itemID kernel.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if commitID, ok := r.byItem[itemID]; ok {
		r.release(commitID)
	}
}

// CommittedBaseUnits returns the base units currently committed for the SKU
// at the slot, summed across lots.
func (r *AllocationResolver) CommittedBaseUnits(sku string, location kernel.Location) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	code := location.Code()
	for key, qty := range r.byResource {
		if key.sku == sku && key.code == code {
			total += qty
		}
	}
	return total
}

// CommitmentOf returns the open commitment held by the item, if any.
func (r *AllocationResolver) CommitmentOf(itemID kernel.UUID) (*Commitment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commitID, ok := r.byItem[itemID]
	if !ok {
		return nil, false
	}

	commitment := *r.commitments[commitID]
	return &commitment, true
}

// Restore registers a commitment rebuilt from persisted fulfillment state,
// preserving its original ID. Used at startup to re-arm the registry from
// in-progress items. Restoring over an already open commitment for the same
// item is rejected.
func (r *AllocationResolver) Restore(
	commitID kernel.UUID,
	itemID kernel.UUID,
	sku string,
	location kernel.Location,
	lot string,
	baseQty int64,
) error {
	if err := commitID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("commitID", err)
	}
	if err := itemID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("itemID", err)
	}
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	if err := location.Validate(); err != nil {
		return err
	}
	if baseQty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("baseQty",
			fmt.Errorf("commit quantity %d must be positive", baseQty))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.byItem[itemID]; held {
		return errs.NewValueIsInvalidErrorWithCause("itemID",
			fmt.Errorf("item %s already holds a commitment", itemID))
	}
	if _, exists := r.commitments[commitID]; exists {
		return errs.NewValueIsInvalidErrorWithCause("commitID",
			fmt.Errorf("commitment %s is already registered", commitID))
	}

	commitment := &Commitment{
		ID:       commitID,
		ItemID:   itemID,
		SKU:      sku,
		Location: location,
		Lot:      lot,
		BaseQty:  baseQty,
	}

	r.commitments[commitID] = commitment
	r.byResource[resourceKey{sku: sku, code: location.Code(), lot: lot}] += baseQty
	r.byItem[itemID] = commitID

	return nil
}

func (r *AllocationResolver) release(commitID kernel.UUID) {
	commitment, ok := r.commitments[commitID]
	if !ok {
		return
	}

	key := resourceKey{sku: commitment.SKU, code: commitment.Location.Code(), lot: commitment.Lot}
	r.byResource[key] -= commitment.BaseQty
	if r.byResource[key] <= 0 {
		delete(r.byResource, key)
	}

	delete(r.commitments, commitID)
	delete(r.byItem, commitment.ItemID)
}

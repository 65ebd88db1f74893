package queries

import (
	"errors"
	"time"

	"warehouse/internal/pkg/guard"
)

var (
	ErrFindCandidatesQueryIsNotConstructed = errors.New(
		"FindCandidatesQuery must be created via NewFindCandidatesQuery constructor",
	)
	ErrSKUIsRequired         = errors.New("sku is required")
	ErrRequestedQtyIsInvalid = errors.New("requested base quantity must be greater than 0")
)

// FindCandidatesQuery ranks allocation candidates for a SKU without
// committing anything: a dry run of the allocation pipeline used by
// planners and by the allocation UI.
//
// Example:
//
//	query, err := NewFindCandidatesQuery("SKU-1", 329)
//	if err != nil {
//	    return fmt.Errorf("invalid request: %w", err)
//	}
//
//	handler := NewFindCandidatesQueryHandler(db, resolver)
//	candidates, err := handler.Handle(ctx, query)
type FindCandidatesQuery struct {
	sku              string
	requestedBaseQty int64

	guard guard.ConstructorGuard
}

// NewFindCandidatesQuery creates a candidate ranking query.
// Validates that the SKU is set and the requested quantity is positive.
func NewFindCandidatesQuery(sku string, requestedBaseQty int64) (FindCandidatesQuery, error) {
	candidatesQuery := FindCandidatesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		candidatesQuery.setSKU(sku),
		candidatesQuery.setRequestedBaseQty(requestedBaseQty),
	); err != nil {
		return FindCandidatesQuery{}, err
	}

	return candidatesQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrFindCandidatesQueryIsNotConstructed if validation fails.
func (q FindCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrFindCandidatesQueryIsNotConstructed)
}

// SKU returns the product identifier to rank candidates for.
func (q FindCandidatesQuery) SKU() string {
	return q.sku
}

// RequestedBaseQty returns the requested base units.
func (q FindCandidatesQuery) RequestedBaseQty() int64 {
	return q.requestedBaseQty
}

func (q *FindCandidatesQuery) setSKU(sku string) error {
	if sku == "" {
		return ErrSKUIsRequired
	}

	q.sku = sku
	return nil
}

func (q *FindCandidatesQuery) setRequestedBaseQty(requestedBaseQty int64) error {
	if requestedBaseQty <= 0 {
		return ErrRequestedQtyIsInvalid
	}

	q.requestedBaseQty = requestedBaseQty
	return nil
}

// FindCandidatesResponse represents one ranked allocation candidate.
type FindCandidatesResponse struct {
	Location        string
	Lot             string
	ManufactureDate *time.Time
	AvailableBase   int64
	Insufficient    bool
	Shortage        int64
}

// Package queries contains read-only operations over the engine's state.
// Implements the Query side of the CQRS architecture: handlers read
// denormalized rows straight from the database and never mutate anything.
package queries

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrListTasksQueryIsNotConstructed = errors.New(
	"ListTasksQuery must be created via NewListTasksQuery constructor",
)

// ListTasksQuery retrieves fulfillment tasks with their items, optionally
// narrowed to a set of derived statuses and/or one source document type.
//
// Example:
//
//	query, err := NewListTasksQuery([]string{"pending", "in_progress"}, "sales_order")
//	if err != nil {
//	    return fmt.Errorf("invalid filter: %w", err)
//	}
//
//	handler := NewListTasksQueryHandler(db)
//	tasks, err := handler.Handle(ctx, query)
type ListTasksQuery struct {
	statuses   []string
	sourceType string

	guard guard.ConstructorGuard
}

// NewListTasksQuery creates a query to list tasks. Empty filters match
// everything; status strings must be canonical task statuses.
func NewListTasksQuery(statuses []string, sourceType string) (ListTasksQuery, error) {
	for _, status := range statuses {
		if _, err := fulfillment.TaskStatusFromString(status); err != nil {
			return ListTasksQuery{}, err
		}
	}

	return ListTasksQuery{
		statuses:   append([]string(nil), statuses...),
		sourceType: sourceType,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListTasksQueryIsNotConstructed if validation fails.
func (q ListTasksQuery) Validate() error {
	return q.guard.Validate(ErrListTasksQueryIsNotConstructed)
}

// Statuses returns the requested derived-status filter; empty means all.
func (q ListTasksQuery) Statuses() []string {
	return q.statuses
}

// SourceType returns the requested source type filter; empty means all.
func (q ListTasksQuery) SourceType() string {
	return q.sourceType
}

// ListTasksItemResponse represents one item line of a listed task.
type ListTasksItemResponse struct {
	ID                kernel.UUID
	SKU               string
	RequestedQty1     int64
	RequestedQty2     int64
	RequestedQty3     int64
	RequestedBase     int64
	AllocatedLocation string
	FulfilledBase     int64
	Status            string
}

// ListTasksResponse represents one fulfillment task with its items.
type ListTasksResponse struct {
	ID         kernel.UUID
	SourceRef  string
	SourceType string
	Priority   int
	DueDate    *time.Time
	Status     string
	Shipped    bool
	RetiredAt  *time.Time
	Items      []ListTasksItemResponse
}

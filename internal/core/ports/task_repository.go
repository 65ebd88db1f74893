package ports

import (
	"context"
	"time"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
)

// TaskRepository defines the persistence contract for fulfillment task
// aggregates. Tasks are stored with their items as a single consistency
// boundary; Update applies an optimistic version check and returns a
// VersionIsInvalidError when another writer got there first.
type TaskRepository interface {
	// Add persists a new task aggregate with all of its items.
	Add(ctx context.Context, task *fulfillment.Task) error

	// Update persists changes to an existing task aggregate.
	// The stored version must match the aggregate's version; on mismatch
	// a VersionIsInvalidError is returned and nothing is written.
	Update(ctx context.Context, task *fulfillment.Task) error

	// Get retrieves a task aggregate by its unique identifier,
	// items included.
	Get(ctx context.Context, id kernel.UUID) (*fulfillment.Task, error)

	// GetByItem retrieves the task aggregate owning the given item.
	GetByItem(ctx context.Context, itemID kernel.UUID) (*fulfillment.Task, error)

	// GetAllInProgress retrieves tasks whose derived status is in_progress,
	// used to re-arm the commitment registry after a restart.
	GetAllInProgress(ctx context.Context) ([]*fulfillment.Task, error)

	// GetRetirable retrieves unretired tasks whose items all reached a
	// terminal status before the given cutoff, candidates for retirement.
	GetRetirable(ctx context.Context, cutoff time.Time) ([]*fulfillment.Task, error)
}

package fulfillment

import (
	"errors"
	"fmt"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"
)

var (
	// ErrTaskIsNotConstructed is returned when a Task instance was not created
	// through the NewTask or RestoreTask factory methods.
	ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask constructors")

	// ErrItemNotFoundInTask indicates the requested item does not belong to the task.
	ErrItemNotFoundInTask = errors.New("item not found in task")
)

// Task represents a fulfillment task: an ordered set of line items picked
// together for one source document (a sales or purchase order). It is the
// aggregate root of the fulfillment workflow.
//
// Task follows these invariants:
//   - Must have a valid unique identifier and a non-empty source reference
//   - Contains at least one item; items are mutated only through the task
//   - Task status is derived from item statuses and never stored separately,
//     except the explicit Shipped transition
//   - A task is logically retired, never deleted, once all items are terminal
type Task struct {
	id         kernel.UUID
	sourceRef  string
	sourceType string
	priority   int
	dueDate    *time.Time

	items []*Item

	// shipped marks the explicit terminal transition out of the derived
	// Completed status
	shipped bool

	// retiredAt is set once by the retirement job after all items are terminal
	retiredAt *time.Time

	// version supports optimistic concurrency control in persistence
	version int64

	isConstructed bool
}

// NewTask creates a Task with validation. Items must already carry this
// task's ID and all start Pending.
//
// Parameters:
//   - id: Unique identifier for the task
//   - sourceRef: Source document reference, e.g. an order number (must be non-empty)
//   - sourceType: Classification of the source document
//   - priority: Picking priority (higher is more urgent)
//   - dueDate: Optional fulfillment due date
//   - items: The task's line items (must be non-empty)
//
// Returns:
//   - *Task: The created task if all validations pass
//   - error: Validation error if any parameter is invalid
func NewTask(
	id kernel.UUID,
	sourceRef string,
	sourceType string,
	priority int,
	dueDate *time.Time,
	items []*Item,
) (*Task, error) {
	task := &Task{
		sourceType:    sourceType,
		priority:      priority,
		dueDate:       dueDate,
		isConstructed: true,
	}

	if err := errors.Join(
		task.setID(id),
		task.setSourceRef(sourceRef),
		task.setItems(items),
	); err != nil {
		return nil, err
	}

	return task, nil
}

// RestoreTask reconstructs a Task from persistent storage, including its
// shipped flag, retirement timestamp, and optimistic-concurrency version.
func RestoreTask(
	id kernel.UUID,
	sourceRef string,
	sourceType string,
	priority int,
	dueDate *time.Time,
	items []*Item,
	shipped bool,
	retiredAt *time.Time,
	version int64,
) (*Task, error) {
	task := &Task{
		sourceType:    sourceType,
		priority:      priority,
		dueDate:       dueDate,
		shipped:       shipped,
		retiredAt:     retiredAt,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		task.setID(id),
		task.setSourceRef(sourceRef),
		task.setItems(items),
	); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate ensures the Task was created through a constructor.
func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}

	return nil
}

// IsEqual compares two tasks by their unique identifiers.
func (t *Task) IsEqual(other *Task) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the task's unique identifier.
func (t *Task) ID() kernel.UUID {
	return t.id
}

// SourceRef returns the source document reference.
func (t *Task) SourceRef() string {
	return t.sourceRef
}

// SourceType returns the classification of the source document.
func (t *Task) SourceType() string {
	return t.sourceType
}

// Priority returns the task's picking priority.
func (t *Task) Priority() int {
	return t.priority
}

// DueDate returns the fulfillment due date, or nil when none is set.
func (t *Task) DueDate() *time.Time {
	return t.dueDate
}

// Items returns the task's line items in order.
func (t *Task) Items() []*Item {
	return t.items
}

// Item returns the line item with the given ID.
// Returns ErrItemNotFoundInTask if the item does not belong to this task.
func (t *Task) Item(itemID kernel.UUID) (*Item, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	for _, item := range t.items {
		if item.ID().IsEqual(itemID) {
			return item, nil
		}
	}

	return nil, ErrItemNotFoundInTask
}

// Version returns the optimistic-concurrency version of the task.
func (t *Task) Version() int64 {
	return t.version
}

// RetiredAt returns the logical retirement timestamp, or nil while the task
// is still live.
func (t *Task) RetiredAt() *time.Time {
	return t.retiredAt
}

// Status derives the task's status from its items.
//
// Derivation rules, in order:
//   - Shipped if the explicit ship transition has happened
//   - Cancelled if every item is cancelled
//   - Completed if every item is terminal and at least one completed
//   - Pending if every item is still pending
//   - InProgress otherwise
func (t *Task) Status() TaskStatus {
	if t.shipped {
		return TaskStatusShipped
	}

	var pending, completed, cancelled int
	for _, item := range t.items {
		switch item.Status() {
		case ItemStatusPending:
			pending++
		case ItemStatusCompleted:
			completed++
		case ItemStatusCancelled:
			cancelled++
		}
	}

	total := len(t.items)
	switch {
	case cancelled == total:
		return TaskStatusCancelled
	case completed+cancelled == total:
		return TaskStatusCompleted
	case pending == total:
		return TaskStatusPending
	default:
		return TaskStatusInProgress
	}
}

// Ship performs the explicit terminal transition out of the derived Completed
// status.
//
// Business rules:
//   - The task's derived status must be Completed (every item terminal, at
//     least one completed); shipping with any non-terminal item is rejected
//   - Shipped is final
func (t *Task) Ship() error {
	status := t.Status()
	if status != TaskStatusCompleted {
		return NewInvalidTransitionError(status, TaskStatusShipped, "task must be completed")
	}

	t.shipped = true
	return nil
}

// Retire records the logical retirement of the task. Retirement never deletes
// anything; it only timestamps the moment all items reached a terminal status
// (or the task shipped).
//
// Retiring an already retired task is a no-op.
func (t *Task) Retire(at time.Time) error {
	if t.retiredAt != nil {
		return nil
	}

	if !t.IsRetirable() {
		return NewInvalidTransitionError(t.Status(), t.Status(), "task still has non-terminal items")
	}

	t.retiredAt = &at
	return nil
}

// IsRetirable reports whether every item has reached a terminal status.
func (t *Task) IsRetirable() bool {
	for _, item := range t.items {
		if !item.Status().IsTerminal() {
			return false
		}
	}
	return true
}

// Progress returns the percentage of items completed, over the total item
// count (cancelled items stay in the denominator for display).
func (t *Task) Progress() float64 {
	if len(t.items) == 0 {
		return 0
	}

	var completed int
	for _, item := range t.items {
		if item.Status() == ItemStatusCompleted {
			completed++
		}
	}

	return float64(completed) / float64(len(t.items)) * 100
}

// OutstandingItems returns the items still owed: every item not yet terminal.
// Cancelled items are excluded entirely.
func (t *Task) OutstandingItems() []*Item {
	outstanding := make([]*Item, 0, len(t.items))
	for _, item := range t.items {
		if !item.Status().IsTerminal() {
			outstanding = append(outstanding, item)
		}
	}
	return outstanding
}

func (t *Task) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Task) setSourceRef(sourceRef string) error {
	if sourceRef == "" {
		return errs.NewValueIsRequiredError("sourceRef is required")
	}
	t.sourceRef = sourceRef
	return nil
}

func (t *Task) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items are required")
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}

		if !item.TaskID().IsEqual(t.id) {
			return errs.NewValueIsInvalidErrorWithCause(
				"items are invalid",
				fmt.Errorf("item %s belongs to task %s", item.ID(), item.TaskID()),
			)
		}
	}

	t.items = items
	return nil
}

package fulfillment

import (
	"fmt"

	"warehouse/internal/pkg/errs"
)

// ItemStatus represents the lifecycle state of a fulfillment line item.
// It implements a state machine with defined transitions so that picking
// follows the correct workflow.
//
// State transitions:
//
//	Pending ──> Assigned ──> Picking ──> Completed
//	   │            │           │
//	   └────────────┴───────────┴──> Cancelled
//
// Completed and Cancelled are terminal; Cancelled is not reachable from
// Completed. ItemStatus is a value object that validates state transitions
// and provides string representations for persistence and display.
type ItemStatus int

const (
	// ItemStatusUnknown represents an invalid or undefined item status.
	// This value (0) helps catch uninitialized ItemStatus values.
	ItemStatusUnknown ItemStatus = iota

	// ItemStatusPending is the initial status when an item enters the queue.
	// Items in this status have no stock allocated yet.
	ItemStatusPending

	// ItemStatusAssigned indicates stock has been committed at a specific slot.
	ItemStatusAssigned

	// ItemStatusPicking indicates a picker is pulling the item's stock.
	ItemStatusPicking

	// ItemStatusCompleted indicates the item has been fully picked.
	// This is a terminal state.
	ItemStatusCompleted

	// ItemStatusCancelled indicates the item was withdrawn before completion.
	// This is a terminal state; any stock commitment has been released.
	ItemStatusCancelled
)

// getItemStatusStrings returns a map of ItemStatus values to their string
// representations. All statuses are included for string conversion.
func getItemStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		ItemStatusUnknown:   "unknown",
		ItemStatusPending:   "pending",
		ItemStatusAssigned:  "assigned",
		ItemStatusPicking:   "picking",
		ItemStatusCompleted: "completed",
		ItemStatusCancelled: "cancelled",
	}
}

// getValidItemStatusStrings returns a map of only valid ItemStatus values.
func getValidItemStatusStrings() map[ItemStatus]string {
	//nolint:exhaustive // ItemStatusUnknown is intentionally excluded as it's invalid
	return map[ItemStatus]string{
		ItemStatusPending:   "pending",
		ItemStatusAssigned:  "assigned",
		ItemStatusPicking:   "picking",
		ItemStatusCompleted: "completed",
		ItemStatusCancelled: "cancelled",
	}
}

// ItemStatusFromString parses an item status name into the closed enum.
// Any spelling outside the enum is rejected at the boundary.
func ItemStatusFromString(s string) (ItemStatus, error) {
	for status, name := range getValidItemStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return ItemStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"item status is invalid",
		fmt.Errorf("%q is not a valid item status", s),
	)
}

// Validate checks if the ItemStatus value is valid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
func (s ItemStatus) Validate() error {
	if _, ok := getValidItemStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"item status is invalid",
			fmt.Errorf("%d is not a valid item status", s),
		)
	}
	return nil
}

// String returns the lowercase name of the status.
// It implements the fmt.Stringer interface and is safe to call on any
// ItemStatus value, including invalid ones.
func (s ItemStatus) String() string {
	if str, ok := getItemStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusCompleted || s == ItemStatusCancelled
}

// Assign transitions the status to Assigned.
//
// Valid transitions:
//   - Pending -> Assigned (initial allocation)
//   - Assigned -> Assigned (re-allocation to a different slot)
//
// Returns:
//   - (Assigned, nil) on valid transition
//   - (0, *InvalidTransitionError) otherwise
func (s ItemStatus) Assign() (ItemStatus, error) {
	if s != ItemStatusPending && s != ItemStatusAssigned {
		return 0, NewInvalidTransitionError(s, ItemStatusAssigned, "item must be pending or assigned")
	}

	return ItemStatusAssigned, nil
}

// StartPicking transitions the status to Picking.
//
// Valid transitions:
//   - Assigned -> Picking
//
// Returns:
//   - (Picking, nil) on valid transition
//   - (0, *InvalidTransitionError) otherwise
func (s ItemStatus) StartPicking() (ItemStatus, error) {
	if s != ItemStatusAssigned {
		return 0, NewInvalidTransitionError(s, ItemStatusPicking, "item must be assigned")
	}

	return ItemStatusPicking, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Picking -> Completed
//
// Jumping directly from Pending or Assigned to Completed is rejected:
// completion requires the full assign/pick workflow.
//
// Returns:
//   - (Completed, nil) on valid transition
//   - (0, *InvalidTransitionError) otherwise
func (s ItemStatus) Complete() (ItemStatus, error) {
	if s != ItemStatusPicking {
		return 0, NewInvalidTransitionError(s, ItemStatusCompleted, "item must be picking")
	}

	return ItemStatusCompleted, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Pending -> Cancelled
//   - Assigned -> Cancelled
//   - Picking -> Cancelled
//
// Completed items cannot be cancelled.
//
// Returns:
//   - (Cancelled, nil) on valid transition
//   - (0, *InvalidTransitionError) otherwise
func (s ItemStatus) Cancel() (ItemStatus, error) {
	if s != ItemStatusPending && s != ItemStatusAssigned && s != ItemStatusPicking {
		return 0, NewInvalidTransitionError(s, ItemStatusCancelled, "item is already terminal")
	}

	return ItemStatusCancelled, nil
}

// TaskStatus represents the lifecycle state of a fulfillment task.
// Except for Shipped, a task's status is derived from its items' statuses and
// is never set directly; see Task.Status.
type TaskStatus int

const (
	// TaskStatusUnknown represents an invalid or undefined task status.
	TaskStatusUnknown TaskStatus = iota

	// TaskStatusPending indicates all items are still pending.
	TaskStatusPending

	// TaskStatusInProgress indicates work has started but the task is not done.
	TaskStatusInProgress

	// TaskStatusCompleted indicates every non-cancelled item is completed and
	// at least one item completed.
	TaskStatusCompleted

	// TaskStatusCancelled indicates every item was cancelled.
	TaskStatusCancelled

	// TaskStatusShipped indicates the completed task has left the warehouse.
	// Reachable only through an explicit Ship transition from Completed.
	TaskStatusShipped
)

// getTaskStatusStrings returns a map of TaskStatus values to their string
// representations.
func getTaskStatusStrings() map[TaskStatus]string {
	return map[TaskStatus]string{
		TaskStatusUnknown:    "unknown",
		TaskStatusPending:    "pending",
		TaskStatusInProgress: "in_progress",
		TaskStatusCompleted:  "completed",
		TaskStatusCancelled:  "cancelled",
		TaskStatusShipped:    "shipped",
	}
}

// getValidTaskStatusStrings returns a map of only valid TaskStatus values.
func getValidTaskStatusStrings() map[TaskStatus]string {
	//nolint:exhaustive // TaskStatusUnknown is intentionally excluded as it's invalid
	return map[TaskStatus]string{
		TaskStatusPending:    "pending",
		TaskStatusInProgress: "in_progress",
		TaskStatusCompleted:  "completed",
		TaskStatusCancelled:  "cancelled",
		TaskStatusShipped:    "shipped",
	}
}

// TaskStatusFromString parses a task status name into the closed enum.
// Any spelling outside the enum is rejected at the boundary.
func TaskStatusFromString(s string) (TaskStatus, error) {
	for status, name := range getValidTaskStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return TaskStatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"task status is invalid",
		fmt.Errorf("%q is not a valid task status", s),
	)
}

// Validate checks if the TaskStatus value is valid.
func (s TaskStatus) Validate() error {
	if _, ok := getValidTaskStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"task status is invalid",
			fmt.Errorf("%d is not a valid task status", s),
		)
	}
	return nil
}

// String returns the lowercase name of the status.
// It implements the fmt.Stringer interface.
func (s TaskStatus) String() string {
	if str, ok := getTaskStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

package commands

import (
	"errors"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var (
	ErrAdvanceItemCommandIsNotConstructed = errors.New(
		"AdvanceItemCommand must be created via NewAdvanceItemCommand constructor",
	)
	ErrTargetStatusInvalid = errors.New("target status must be assigned, picking, completed or cancelled")
)

// AdvanceItemCommand represents a request to move one fulfillment item to a
// target status. It is the single entry point for every item status change:
// allocation (assigned), pick start (picking), pick confirmation (completed)
// and cancellation (cancelled).
//
// Example:
//
//	cmd, err := NewAdvanceItemCommand(taskID, itemID, fulfillment.ItemStatusAssigned)
//	if err != nil {
//	    return fmt.Errorf("invalid advance request: %w", err)
//	}
//
//	handler := NewAdvanceItemCommandHandler(uowFactory, resolver, locks)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to advance item: %w", err)
//	}
type AdvanceItemCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID
	itemID kernel.UUID
	target fulfillment.ItemStatus

	guard guard.ConstructorGuard
}

// NewAdvanceItemCommand creates a command to advance an item of a known task.
// Validates both identifiers and that the target is a reachable status.
func NewAdvanceItemCommand(
	taskID kernel.UUID,
	itemID kernel.UUID,
	target fulfillment.ItemStatus,
) (AdvanceItemCommand, error) {
	advanceCommand := AdvanceItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		advanceCommand.setTaskID(taskID),
		advanceCommand.setItemID(itemID),
		advanceCommand.setTarget(target),
	); err != nil {
		return AdvanceItemCommand{}, err
	}

	return advanceCommand, nil
}

// NewAdvanceItemCommandByItem creates an advance command identified by item
// only. The handler resolves the owning task from storage.
func NewAdvanceItemCommandByItem(
	itemID kernel.UUID,
	target fulfillment.ItemStatus,
) (AdvanceItemCommand, error) {
	advanceCommand := AdvanceItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		advanceCommand.setItemID(itemID),
		advanceCommand.setTarget(target),
	); err != nil {
		return AdvanceItemCommand{}, err
	}

	return advanceCommand, nil
}

// Validate ensures the command was created through a constructor.
// Returns ErrAdvanceItemCommandIsNotConstructed if validation fails.
func (c AdvanceItemCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceItemCommandIsNotConstructed)
}

// TaskID returns the identifier of the owning task. It is the zero UUID when
// the command was created by item only.
func (c AdvanceItemCommand) TaskID() kernel.UUID {
	return c.taskID
}

// ItemID returns the identifier of the item to advance.
func (c AdvanceItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Target returns the requested target status.
func (c AdvanceItemCommand) Target() fulfillment.ItemStatus {
	return c.target
}

func (c *AdvanceItemCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *AdvanceItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

func (c *AdvanceItemCommand) setTarget(target fulfillment.ItemStatus) error {
	switch target {
	case fulfillment.ItemStatusAssigned,
		fulfillment.ItemStatusPicking,
		fulfillment.ItemStatusCompleted,
		fulfillment.ItemStatusCancelled:
		c.target = target
		return nil
	default:
		return ErrTargetStatusInvalid
	}
}

package commands

import (
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrCancelItemCommandIsNotConstructed = errors.New(
	"CancelItemCommand must be created via NewCancelItemCommand constructor",
)

// CancelItemCommand represents a request to withdraw one fulfillment item.
// Cancellation releases any stock commitment the item holds and moves it to
// the terminal "cancelled" status; cancelling twice is a no-op success.
type CancelItemCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelItemCommand creates a command to cancel an item of a known task.
func NewCancelItemCommand(taskID kernel.UUID, itemID kernel.UUID) (CancelItemCommand, error) {
	cancelCommand := CancelItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cancelCommand.setTaskID(taskID),
		cancelCommand.setItemID(itemID),
	); err != nil {
		return CancelItemCommand{}, err
	}

	return cancelCommand, nil
}

// NewCancelItemCommandByItem creates a cancel command identified by item
// only. The handler resolves the owning task from storage.
func NewCancelItemCommandByItem(itemID kernel.UUID) (CancelItemCommand, error) {
	cancelCommand := CancelItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cancelCommand.setItemID(itemID); err != nil {
		return CancelItemCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through a constructor.
// Returns ErrCancelItemCommandIsNotConstructed if validation fails.
func (c CancelItemCommand) Validate() error {
	return c.guard.Validate(ErrCancelItemCommandIsNotConstructed)
}

// TaskID returns the identifier of the owning task. It is the zero UUID when
// the command was created by item only.
func (c CancelItemCommand) TaskID() kernel.UUID {
	return c.taskID
}

// ItemID returns the identifier of the item to cancel.
func (c CancelItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

func (c *CancelItemCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *CancelItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

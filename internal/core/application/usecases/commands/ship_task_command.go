package commands

import (
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrShipTaskCommandIsNotConstructed = errors.New(
	"ShipTaskCommand must be created via NewShipTaskCommand constructor",
)

// ShipTaskCommand represents a request to mark a fulfillment task as shipped.
// Shipping is only allowed once the task's derived status is "completed":
// every item either fully picked or cancelled, with at least one pick.
type ShipTaskCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID

	guard guard.ConstructorGuard
}

// NewShipTaskCommand creates a command to ship a fulfillment task.
func NewShipTaskCommand(taskID kernel.UUID) (ShipTaskCommand, error) {
	shipCommand := ShipTaskCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := shipCommand.setTaskID(taskID); err != nil {
		return ShipTaskCommand{}, err
	}

	return shipCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrShipTaskCommandIsNotConstructed if validation fails.
func (c ShipTaskCommand) Validate() error {
	return c.guard.Validate(ErrShipTaskCommandIsNotConstructed)
}

// TaskID returns the identifier of the task to ship.
func (c ShipTaskCommand) TaskID() kernel.UUID {
	return c.taskID
}

func (c *ShipTaskCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

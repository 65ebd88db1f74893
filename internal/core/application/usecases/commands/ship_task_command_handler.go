package commands

import (
	"context"
)

// ShipTaskCommandHandler handles the shipping of completed fulfillment tasks.
// Delegates the readiness check to the task aggregate and persists the
// shipped flag under the optimistic version guard.
type ShipTaskCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewShipTaskCommandHandler creates a handler for task shipping operations.
// Requires a TaskUoWFactory for transactional persistence.
func NewShipTaskCommandHandler(uowFactory TaskUoWFactory) ShipTaskCommandHandler {
	return ShipTaskCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the ship command. Tasks whose derived status is not
// "completed" are rejected with an InvalidTransitionError and stay unchanged.
func (h *ShipTaskCommandHandler) Handle(ctx context.Context, cmd ShipTaskCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()

	task, err := taskRepo.Get(ctx, cmd.TaskID())
	if err != nil {
		return err
	}

	if err = task.Ship(); err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, task); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

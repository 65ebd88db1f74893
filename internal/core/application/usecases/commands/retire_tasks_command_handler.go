package commands

import (
	"context"
	"time"
)

// RetireTasksCommandHandler orchestrates logical retirement of finished tasks.
// Retrieves retirement candidates, stamps each one, and persists all of them
// within a single transaction.
type RetireTasksCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewRetireTasksCommandHandler creates a handler for task retirement.
func NewRetireTasksCommandHandler(uowFactory TaskUoWFactory) RetireTasksCommandHandler {
	return RetireTasksCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the retirement command. Retirement is purely logical: a
// timestamp on the task row; retired tasks stay readable forever.
func (h *RetireTasksCommandHandler) Handle(ctx context.Context, cmd RetireTasksCommand) error {
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

	candidates, err := taskRepo.GetRetirable(ctx, cmd.Cutoff())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, task := range candidates {
		if err = task.Retire(now); err != nil {
			return err
		}

		if err = taskRepo.Update(ctx, task); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

package commands

import (
	"context"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
)

// CreateTaskCommandHandler handles the business logic for task creation.
// Normalizes every requested line to base units through the product catalog
// and persists the task with all items in "pending" status.
//
// Example:
//
//	handler := NewCreateTaskCommandHandler(uowFactory)
//	cmd, _ := NewCreateTaskCommand(taskID, "SO-1001", "sales_order", 5, nil, items)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("task creation failed: %w", err)
//	}
//	// Task is now queued and ready for allocation
type CreateTaskCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateTaskCommandHandler creates a handler for task creation operations.
// Requires a UoWFactory for transactional persistence.
func NewCreateTaskCommandHandler(uowFactory UoWFactory) CreateTaskCommandHandler {
	return CreateTaskCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the task creation command.
// Looks up each line's product to convert tier quantities into base units,
// builds the task aggregate with all items pending, and persists it.
// Unknown SKUs and quantities on disabled tiers fail the whole command.
func (h *CreateTaskCommandHandler) Handle(ctx context.Context, cmd CreateTaskCommand) error {
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

	productRepo := uow.ProductRepository()

	items := make([]*fulfillment.Item, 0, len(cmd.Items()))
	for _, spec := range cmd.Items() {
		p, err := productRepo.Get(ctx, spec.SKU)
		if err != nil {
			return err
		}

		base, err := p.ToBaseUnits(spec.Qty1, spec.Qty2, spec.Qty3)
		if err != nil {
			return err
		}

		item, err := fulfillment.NewItem(
			kernel.NewUUID(), cmd.TaskID(), spec.SKU,
			spec.Qty1, spec.Qty2, spec.Qty3, base,
		)
		if err != nil {
			return err
		}

		items = append(items, item)
	}

	task, err := fulfillment.NewTask(
		cmd.TaskID(), cmd.SourceRef(), cmd.SourceType(),
		cmd.Priority(), cmd.DueDate(), items,
	)
	if err != nil {
		return err
	}

	if err = uow.TaskRepository().Add(ctx, task); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

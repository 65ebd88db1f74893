package commands

import (
	"context"

	"warehouse/internal/core/domain/model/fulfillment"
)

// CancelItemCommandHandler handles item cancellation by delegating to the
// advance pipeline with a "cancelled" target, so commitment release and
// per-item serialization follow the one code path.
type CancelItemCommandHandler struct {
	advanceHandler AdvanceItemCommandHandler
}

// NewCancelItemCommandHandler creates a handler for item cancellation.
func NewCancelItemCommandHandler(advanceHandler AdvanceItemCommandHandler) CancelItemCommandHandler {
	return CancelItemCommandHandler{
		advanceHandler: advanceHandler,
	}
}

// Handle processes the cancel command. Cancelling an already cancelled item
// succeeds without changing anything.
func (h *CancelItemCommandHandler) Handle(ctx context.Context, cmd CancelItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var advanceCmd AdvanceItemCommand
	var err error
	if cmd.TaskID().Validate() == nil {
		advanceCmd, err = NewAdvanceItemCommand(cmd.TaskID(), cmd.ItemID(), fulfillment.ItemStatusCancelled)
	} else {
		advanceCmd, err = NewAdvanceItemCommandByItem(cmd.ItemID(), fulfillment.ItemStatusCancelled)
	}
	if err != nil {
		return err
	}

	return h.advanceHandler.Handle(ctx, advanceCmd)
}

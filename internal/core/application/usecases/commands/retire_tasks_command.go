package commands

import (
	"errors"
	"time"

	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

var (
	ErrRetireTasksCommandIsNotConstructed = errors.New(
		"RetireTasksCommand must be created via NewRetireTasksCommand constructor",
	)
)

// RetireTasksCommand triggers logical retirement of finished tasks: every
// unretired task whose items all reached a terminal status before the cutoff
// gets its retirement timestamp set. Nothing is ever deleted.
//
// Example:
//
//	cmd, _ := NewRetireTasksCommand(time.Now())
//	handler := NewRetireTasksCommandHandler(uowFactory)
//
//	// Run periodically by a scheduler
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Task retirement failed: %v", err)
//	}
type RetireTasksCommand struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewRetireTasksCommand creates a command retiring tasks finished before the
// given cutoff.
func NewRetireTasksCommand(cutoff time.Time) (RetireTasksCommand, error) {
	command := RetireTasksCommand{
		guard: guard.NewConstructorGuard(),
	}

	if cutoff.IsZero() {
		return RetireTasksCommand{}, errs.NewValueIsRequiredError("cutoff")
	}
	command.cutoff = cutoff

	return command, nil
}

// Cutoff returns the point in time before which finished tasks are retired.
func (c *RetireTasksCommand) Cutoff() time.Time {
	return c.cutoff
}

// Validate ensures the command was created through the constructor.
// Returns ErrRetireTasksCommandIsNotConstructed if validation fails.
func (c *RetireTasksCommand) Validate() error {
	return c.guard.Validate(ErrRetireTasksCommandIsNotConstructed)
}

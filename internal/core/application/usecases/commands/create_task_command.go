package commands

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var (
	ErrCreateTaskCommandIsNotConstructed = errors.New(
		"CreateTaskCommand must be created via NewCreateTaskCommand constructor",
	)
	ErrSourceRefIsRequired  = errors.New("source reference is required")
	ErrSourceTypeIsRequired = errors.New("source type is required")
	ErrItemsAreRequired     = errors.New("at least one item is required")
	ErrItemSKUIsRequired    = errors.New("item sku is required")
	ErrItemQuantityInvalid  = errors.New("item quantities must be non-negative with at least one positive")
)

// TaskItemSpec describes one requested line of a new fulfillment task:
// a SKU with quantities per packaging tier, before base-unit normalization.
type TaskItemSpec struct {
	SKU  string
	Qty1 int64
	Qty2 int64
	Qty3 int64
}

// CreateTaskCommand represents a request to enqueue a new fulfillment task.
// Encapsulates the source document reference, priority, and requested lines.
//
// Example:
//
//	taskID := kernel.NewUUID()
//	items := []TaskItemSpec{{SKU: "SKU-1", Qty1: 2, Qty2: 3, Qty3: 5}}
//	cmd, err := NewCreateTaskCommand(taskID, "SO-1001", "sales_order", 5, nil, items)
//	if err != nil {
//	    return fmt.Errorf("invalid task data: %w", err)
//	}
//
//	handler := NewCreateTaskCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create task: %w", err)
//	}
type CreateTaskCommand struct { //nolint:recvcheck //using for validation
	taskID     kernel.UUID
	sourceRef  string
	sourceType string
	priority   int
	dueDate    *time.Time
	items      []TaskItemSpec

	guard guard.ConstructorGuard
}

// NewCreateTaskCommand creates a command to enqueue a new fulfillment task.
// Validates the task ID, source reference and type, and every item line.
// Returns an error if any validation fails.
func NewCreateTaskCommand(
	taskID kernel.UUID,
	sourceRef string,
	sourceType string,
	priority int,
	dueDate *time.Time,
	items []TaskItemSpec,
) (CreateTaskCommand, error) {
	taskCommand := CreateTaskCommand{
		priority: priority,
		dueDate:  dueDate,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		taskCommand.setTaskID(taskID),
		taskCommand.setSourceRef(sourceRef),
		taskCommand.setSourceType(sourceType),
		taskCommand.setItems(items),
	); err != nil {
		return CreateTaskCommand{}, err
	}

	return taskCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateTaskCommandIsNotConstructed if validation fails.
func (c CreateTaskCommand) Validate() error {
	return c.guard.Validate(ErrCreateTaskCommandIsNotConstructed)
}

// TaskID returns the unique identifier for the task.
func (c CreateTaskCommand) TaskID() kernel.UUID {
	return c.taskID
}

// SourceRef returns the reference of the source document the task fulfills.
func (c CreateTaskCommand) SourceRef() string {
	return c.sourceRef
}

// SourceType returns the kind of source document (sales order, transfer, ...).
func (c CreateTaskCommand) SourceType() string {
	return c.sourceType
}

// Priority returns the picking priority; higher is more urgent.
func (c CreateTaskCommand) Priority() int {
	return c.priority
}

// DueDate returns the optional due date of the task.
func (c CreateTaskCommand) DueDate() *time.Time {
	return c.dueDate
}

// Items returns the requested item lines.
func (c CreateTaskCommand) Items() []TaskItemSpec {
	return c.items
}

func (c *CreateTaskCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *CreateTaskCommand) setSourceRef(sourceRef string) error {
	if sourceRef == "" {
		return ErrSourceRefIsRequired
	}

	c.sourceRef = sourceRef
	return nil
}

func (c *CreateTaskCommand) setSourceType(sourceType string) error {
	if sourceType == "" {
		return ErrSourceTypeIsRequired
	}

	c.sourceType = sourceType
	return nil
}

func (c *CreateTaskCommand) setItems(items []TaskItemSpec) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	for _, item := range items {
		if item.SKU == "" {
			return ErrItemSKUIsRequired
		}
		if item.Qty1 < 0 || item.Qty2 < 0 || item.Qty3 < 0 {
			return ErrItemQuantityInvalid
		}
		if item.Qty1 == 0 && item.Qty2 == 0 && item.Qty3 == 0 {
			return ErrItemQuantityInvalid
		}
	}

	c.items = append([]TaskItemSpec(nil), items...)
	return nil
}

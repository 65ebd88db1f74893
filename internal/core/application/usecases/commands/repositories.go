// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"warehouse/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// TaskRepoFactory provides access to the task repository within a transaction.
	TaskRepoFactory interface {
		TaskRepository() ports.TaskRepository
	}

	// ProductRepoFactory provides access to the product catalog within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// InventoryRepoFactory provides access to the inventory repository within a transaction.
	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	// TaskUoW manages transactions for task-only operations.
	// Used when commands only modify task aggregates.
	TaskUoW interface {
		TxManager
		TaskRepoFactory
	}

	// TaskUoWFactory creates new task unit of work instances.
	TaskUoWFactory interface {
		Create() TaskUoW
	}

	// UoW manages transactions across the task, product, and inventory
	// repositories. Used by commands that convert quantities or allocate
	// stock while mutating task aggregates.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   taskRepo := uow.TaskRepository()
	//   productRepo := uow.ProductRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		TaskRepoFactory
		ProductRepoFactory
		InventoryRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-repository operations.
	UoWFactory interface {
		Create() UoW
	}
)

package cmd

import (
	"context"
	"fmt"

	"warehouse/internal/adapters/out/postgres"
	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/services"

	"gorm.io/gorm"
)

// CompositionRoot wires every adapter and handler of the engine together.
// The allocation resolver and the item lock registry are process-wide
// singletons shared by all handlers.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	resolver   *services.AllocationResolver
	itemLocks  *commands.ItemLocks
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		resolver:   services.NewAllocationResolver(),
		itemLocks:  commands.NewItemLocks(),
	}
}

// RearmAllocationResolver rebuilds the in-memory commitment registry from
// persisted state. Every in-progress item holding a commitment reference gets
// its commitment re-registered under the original ID, so restarted processes
// never double-allocate stock that was already promised.
//
// The lot of a restored commitment is unknown (items persist only the slot);
// the per-slot committed totals the availability math depends on are exact
// regardless.
func (c *CompositionRoot) RearmAllocationResolver(ctx context.Context) error {
	uow := c.uowFactory.Create()
	tasks, err := uow.TaskRepository().GetAllInProgress(ctx)
	if err != nil {
		return fmt.Errorf("load in-progress tasks: %w", err)
	}

	for _, task := range tasks {
		for _, item := range task.Items() {
			commitID := item.CommitID()
			location := item.AllocatedLocation()
			if commitID == nil || location == nil {
				continue
			}

			if err := c.resolver.Restore(
				*commitID, item.ID(), item.SKU(), *location, "", item.RequestedBase(),
			); err != nil {
				return fmt.Errorf("restore commitment for item %s: %w", item.ID(), err)
			}
		}
	}

	return nil
}

func (c *CompositionRoot) CreateCreateTaskCommandHandler() commands.CreateTaskCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateTaskCommandHandler(f)
}

func (c *CompositionRoot) CreateAdvanceItemCommandHandler() commands.AdvanceItemCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceItemCommandHandler(f, c.resolver, c.itemLocks)
}

func (c *CompositionRoot) CreateCancelItemCommandHandler() commands.CancelItemCommandHandler {
	return commands.NewCancelItemCommandHandler(c.CreateAdvanceItemCommandHandler())
}

func (c *CompositionRoot) CreateShipTaskCommandHandler() commands.ShipTaskCommandHandler {
	var f commands.TaskUoWFactory = FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
	return commands.NewShipTaskCommandHandler(f)
}

func (c *CompositionRoot) CreateRetireTasksCommandHandler() commands.RetireTasksCommandHandler {
	var f commands.TaskUoWFactory = FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRetireTasksCommandHandler(f)
}

func (c *CompositionRoot) CreateListTasksQueryHandler() queries.ListTasksQueryHandler {
	return queries.NewListTasksQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateStockSnapshotQueryHandler() queries.StockSnapshotQueryHandler {
	return queries.NewStockSnapshotQueryHandler(c.gormDB, c.resolver)
}

func (c *CompositionRoot) CreateFindCandidatesQueryHandler() queries.FindCandidatesQueryHandler {
	return queries.NewFindCandidatesQueryHandler(c.gormDB, c.resolver)
}

type FuncTaskUoWFactory func() commands.TaskUoW

func (f FuncTaskUoWFactory) Create() commands.TaskUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

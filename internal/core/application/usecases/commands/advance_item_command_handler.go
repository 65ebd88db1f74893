package commands

import (
	"context"

	"warehouse/internal/core/domain/model/fulfillment"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/services"
)

// AdvanceItemCommandHandler handles every item status change in the
// fulfillment queue. The assigned transition runs the allocation pipeline:
// lot stocks from the ledger, first-expired-first-out candidate ranking,
// stock commitment, then the aggregate mutation. Other transitions delegate
// to the item's state machine.
//
// Changes to the same item are serialized through the item lock registry;
// racing writers of the same task surface as a VersionIsInvalidError from
// the repository's optimistic update and leave state unchanged.
type AdvanceItemCommandHandler struct {
	uowFactory UoWFactory
	resolver   *services.AllocationResolver
	locks      *ItemLocks
}

// NewAdvanceItemCommandHandler creates a handler for item advancement.
// Requires a UoWFactory for transactional persistence, the process-wide
// allocation resolver, and the shared item lock registry.
func NewAdvanceItemCommandHandler(
	uowFactory UoWFactory,
	resolver *services.AllocationResolver,
	locks *ItemLocks,
) AdvanceItemCommandHandler {
	return AdvanceItemCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		locks:      locks,
	}
}

// Handle processes the advance command. A failed transition, a shortage, or
// a lost update returns a typed error with the aggregate unchanged; the one
// absorbed condition is cancelling an already cancelled item, which succeeds
// without touching anything.
func (h *AdvanceItemCommandHandler) Handle(ctx context.Context, cmd AdvanceItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.locks.Lock(cmd.ItemID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()

	var task *fulfillment.Task
	var err error
	if cmd.TaskID().Validate() == nil {
		task, err = taskRepo.Get(ctx, cmd.TaskID())
	} else {
		task, err = taskRepo.GetByItem(ctx, cmd.ItemID())
	}
	if err != nil {
		return err
	}

	item, err := task.Item(cmd.ItemID())
	if err != nil {
		return err
	}

	var committed, previous *services.Commitment
	releaseHeld := false

	switch cmd.Target() {
	case fulfillment.ItemStatusAssigned:
		committed, previous, err = h.allocate(ctx, uow, item)
	case fulfillment.ItemStatusPicking:
		err = item.StartPicking()
	case fulfillment.ItemStatusCompleted:
		err = h.complete(ctx, uow, item)
		releaseHeld = err == nil
	case fulfillment.ItemStatusCancelled:
		if item.Status() == fulfillment.ItemStatusCancelled {
			return nil
		}
		err = item.Cancel()
		releaseHeld = err == nil
	}
	if err != nil {
		h.compensate(committed, previous)
		return err
	}

	if err = taskRepo.Update(ctx, task); err != nil {
		h.compensate(committed, previous)
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		h.compensate(committed, previous)
		return err
	}

	// The held commitment outlives the transaction: a cancel or complete
	// whose update is lost keeps its reservation in the registry.
	if releaseHeld {
		h.resolver.ReleaseForItem(item.ID())
	}

	return nil
}

// allocate runs the allocation pipeline for one item: ledger lot stocks,
// candidate ranking, commitment, then the aggregate transition. Re-assigning
// an already assigned item releases its previous commitment first; the
// released commitment is returned so a failed transaction can re-register it.
func (h *AdvanceItemCommandHandler) allocate(
	ctx context.Context,
	uow UoW,
	item *fulfillment.Item,
) (committed, previous *services.Commitment, err error) {
	products, err := uow.ProductRepository().GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	records, err := uow.InventoryRepository().GetBySKU(ctx, item.SKU())
	if err != nil {
		return nil, nil, err
	}

	previous, _ = h.resolver.CommitmentOf(item.ID())
	h.resolver.ReleaseForItem(item.ID())

	ledger := services.NewStockLedger(services.NewMapProductCatalog(products), h.resolver)
	lots, err := ledger.LotStocks(records, item.SKU())
	if err != nil {
		return nil, previous, err
	}

	candidates, err := h.resolver.FindCandidates(item.SKU(), item.RequestedBase(), lots)
	if err != nil {
		return nil, previous, err
	}

	chosen, physical, found := pickSufficient(candidates, lots)
	if !found {
		return nil, previous, services.NewInsufficientStockError(
			item.SKU(), bestLocation(candidates), bestLot(candidates), shortage(candidates, item.RequestedBase()),
		)
	}

	commitment, err := h.resolver.Commit(
		item.ID(), item.SKU(), chosen.Location, chosen.Lot, physical, item.RequestedBase(),
	)
	if err != nil {
		return nil, previous, err
	}

	if err = item.Assign(chosen.Location, commitment.ID); err != nil {
		h.resolver.Release(commitment.ID)
		return nil, previous, err
	}

	return commitment, previous, nil
}

// complete confirms the pick at the requested quantity and removes the picked
// units from the physical records at the allocated slot, inside the same
// transaction. The item's commitment stays registered until the transaction
// is durable; releasing it then keeps availability constant, since the
// consumed units are physically gone.
func (h *AdvanceItemCommandHandler) complete(ctx context.Context, uow UoW, item *fulfillment.Item) error {
	if err := item.Complete(item.RequestedBase()); err != nil {
		return err
	}

	return h.consumeStock(ctx, uow, item)
}

// consumeStock decrements the records at the item's allocated slot by the
// fulfilled base units. The commitment's lot narrows the records when known;
// commitments re-armed after a restart carry no lot and consume across the
// slot's lots in order.
func (h *AdvanceItemCommandHandler) consumeStock(ctx context.Context, uow UoW, item *fulfillment.Item) error {
	location := item.AllocatedLocation()

	lot := ""
	if commitment, ok := h.resolver.CommitmentOf(item.ID()); ok {
		lot = commitment.Lot
	}

	p, err := uow.ProductRepository().Get(ctx, item.SKU())
	if err != nil {
		return err
	}

	inventoryRepo := uow.InventoryRepository()
	records, err := inventoryRepo.GetBySKU(ctx, item.SKU())
	if err != nil {
		return err
	}

	remaining := item.FulfilledBase()
	for _, record := range records {
		if remaining == 0 {
			break
		}

		same, eqErr := record.Location().IsEqual(*location)
		if eqErr != nil {
			return eqErr
		}
		if !same {
			continue
		}
		if lot != "" && record.Lot() != lot {
			continue
		}

		q1, q2, q3 := record.Quantities()
		total, convErr := p.ToBaseUnits(q1, q2, q3)
		if convErr != nil {
			return convErr
		}

		take := remaining
		if total < take {
			take = total
		}
		if take == 0 {
			continue
		}

		if err = record.ConsumeBaseUnits(p, take); err != nil {
			return err
		}
		if err = inventoryRepo.Update(ctx, record); err != nil {
			return err
		}
		remaining -= take
	}

	if remaining > 0 {
		return services.NewInsufficientStockError(item.SKU(), *location, lot, remaining)
	}

	return nil
}

// compensate undoes registry changes made during allocation when the
// transaction fails: the fresh commitment is released and a commitment
// dropped for re-allocation is re-registered under its original ID.
func (h *AdvanceItemCommandHandler) compensate(committed, previous *services.Commitment) {
	if committed != nil {
		h.resolver.Release(committed.ID)
	}
	if previous != nil {
		_ = h.resolver.Restore(previous.ID, previous.ItemID, previous.SKU,
			previous.Location, previous.Lot, previous.BaseQty)
	}
}

// pickSufficient returns the first candidate that fully covers the request,
// with the physical base units of its lot.
func pickSufficient(
	candidates []services.LocationCandidate,
	lots []services.LotStock,
) (services.LocationCandidate, int64, bool) {
	for _, candidate := range candidates {
		if candidate.Insufficient {
			continue
		}

		for _, lot := range lots {
			if lot.Location.Code() == candidate.Location.Code() && lot.Lot == candidate.Lot {
				return candidate, lot.BaseUnits, true
			}
		}
	}

	return services.LocationCandidate{}, 0, false
}

// bestLocation returns the slot of the least-short candidate, or the zero
// location when there are no candidates at all.
func bestLocation(candidates []services.LocationCandidate) kernel.Location {
	best, ok := leastShort(candidates)
	if !ok {
		return kernel.Location{}
	}
	return best.Location
}

func bestLot(candidates []services.LocationCandidate) string {
	best, ok := leastShort(candidates)
	if !ok {
		return ""
	}
	return best.Lot
}

// shortage returns the smallest shortage across candidates, or the whole
// request when nothing is available.
func shortage(candidates []services.LocationCandidate, requestedBase int64) int64 {
	best, ok := leastShort(candidates)
	if !ok {
		return requestedBase
	}
	return best.Shortage
}

func leastShort(candidates []services.LocationCandidate) (services.LocationCandidate, bool) {
	var best services.LocationCandidate
	found := false
	for _, candidate := range candidates {
		if !found || candidate.Shortage < best.Shortage {
			best = candidate
			found = true
		}
	}
	return best, found
}

package queries

import (
	"context"

	"gorm.io/gorm"

	"warehouse/internal/core/domain/services"
)

// FindCandidatesQueryHandler runs the allocation pipeline read-only:
// lot stocks from the ledger, first-expired-first-out ranking from the
// resolver, no commitment registered.
type FindCandidatesQueryHandler struct {
	db       *gorm.DB
	resolver *services.AllocationResolver
}

// NewFindCandidatesQueryHandler creates a handler for candidate queries.
// Requires a GORM database connection and the process-wide allocation resolver.
func NewFindCandidatesQueryHandler(db *gorm.DB, resolver *services.AllocationResolver) FindCandidatesQueryHandler {
	return FindCandidatesQueryHandler{db: db, resolver: resolver}
}

// Handle executes the query. Candidates come back in allocation order;
// lots that cannot fully cover the request are flagged with their shortage.
func (h FindCandidatesQueryHandler) Handle(
	ctx context.Context,
	query FindCandidatesQuery,
) ([]FindCandidatesResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	products, err := loadProducts(ctx, h.db)
	if err != nil {
		return nil, err
	}

	records, err := loadInventoryRecords(ctx, h.db)
	if err != nil {
		return nil, err
	}

	ledger := services.NewStockLedger(services.NewMapProductCatalog(products), h.resolver)

	lots, err := ledger.LotStocks(records, query.SKU())
	if err != nil {
		return nil, err
	}

	candidates, err := h.resolver.FindCandidates(query.SKU(), query.RequestedBaseQty(), lots)
	if err != nil {
		return nil, err
	}

	result := make([]FindCandidatesResponse, 0, len(candidates))
	for _, candidate := range candidates {
		result = append(result, FindCandidatesResponse{
			Location:        candidate.Location.Code(),
			Lot:             candidate.Lot,
			ManufactureDate: candidate.ManufactureDate,
			AvailableBase:   candidate.AvailableBase,
			Insufficient:    candidate.Insufficient,
			Shortage:        candidate.Shortage,
		})
	}

	return result, nil
}

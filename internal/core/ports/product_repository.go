// Package ports defines repository interfaces for the warehouse domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"warehouse/internal/core/domain/model/product"
)

// ProductRepository defines the persistence contract for the product catalog.
// Products carry the packaging hierarchy and conversion rates every
// quantity computation depends on.
type ProductRepository interface {
	// Add persists a new product to the catalog.
	// The product must be valid and its SKU must not already exist.
	Add(ctx context.Context, p *product.Product) error

	// Update persists changes to an existing product.
	Update(ctx context.Context, p *product.Product) error

	// Get retrieves a product by SKU.
	// Returns an ObjectNotFoundError when the SKU is unknown.
	Get(ctx context.Context, sku string) (*product.Product, error)

	// GetAll retrieves the whole catalog, used to build the in-memory
	// product view that conversion math runs against.
	GetAll(ctx context.Context) ([]*product.Product, error)
}

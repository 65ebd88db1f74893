// Package productrepo provides data transfer objects and mapping functions for
// product catalog persistence. This package implements the repository pattern
// for the product domain aggregate, handling the conversion between domain
// entities and database representations.
package productrepo

import (
	"warehouse/internal/core/domain/model/product"
)

// ProductDTO represents the database structure for persisting catalog entries.
// The SKU is the natural key; conversion rates are stored as plain integers
// with 0 marking a disabled tier.
type ProductDTO struct {
	SKU         string `gorm:"type:varchar(64);primaryKey"`
	ProductType string `gorm:"type:varchar(255)"`
	Tier1Name   string `gorm:"type:varchar(64)"`
	Tier2Name   string `gorm:"type:varchar(64)"`
	Tier3Name   string `gorm:"type:varchar(64);not null"`
	Rate1       int64
	Rate2       int64
}

// TableName specifies the database table name for catalog entries.
// Overrides GORM's default naming convention to use "products".
func (ProductDTO) TableName() string {
	return "products"
}

// fromDomain converts a product domain aggregate to its database representation.
func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		SKU:         p.SKU(),
		ProductType: p.ProductType(),
		Tier1Name:   p.Tier1Name(),
		Tier2Name:   p.Tier2Name(),
		Tier3Name:   p.Tier3Name(),
		Rate1:       p.Rate1(),
		Rate2:       p.Rate2(),
	}
}

// toDomain converts a database DTO to a product domain aggregate.
func toDomain(dto ProductDTO) (*product.Product, error) {
	return product.NewProduct(
		dto.SKU,
		dto.ProductType,
		dto.Tier1Name,
		dto.Tier2Name,
		dto.Tier3Name,
		dto.Rate1,
		dto.Rate2,
	)
}

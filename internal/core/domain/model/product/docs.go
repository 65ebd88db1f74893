// Package product provides the Product aggregate and hierarchical unit
// conversion logic for the warehouse system. A product's quantities can be
// expressed in up to three nested packaging tiers (for example carton, box,
// piece); tier3 is always the indivisible base unit.
//
// The package includes:
//   - Product: The aggregate root that carries the packaging hierarchy and conversion rates
//   - ToBaseUnits / FromBaseUnits: Pure conversion between tiered triples and base-unit counts
//
// Key business rules:
//   - The canonical stored quantity is always a base-unit integer
//   - rate1 >= rate2 >= 1 when both outer tiers are enabled; a rate of 0 disables its tier
//   - Negative quantities are validation errors, never clamped
//   - Tiered decomposition is greedy and exists for display only
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package product

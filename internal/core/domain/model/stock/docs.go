// Package stock provides domain entities for physical inventory in the
// warehouse system.
//
// The package includes:
//   - InventoryRecord: One physical stock record (a lot of a SKU at a slot)
//   - StorageLocation: A storage slot with its declared capacity
//
// Key business rules:
//   - Tier quantities on a record are non-negative integers
//   - Multiple records may share a slot and SKU (different lots); they are
//     never merged at write time - aggregation happens only at read time in
//     the stock ledger
//   - A storage location's capacity is a positive base-unit count
package stock

// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fulfillment engine. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - StockLedger: A read-only service aggregating inventory records into
//     per-slot snapshots and commitment-adjusted availability
//   - AllocationResolver: A domain service ranking allocation candidates
//     first-expired-first-out and tracking soft commitments against stock
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services

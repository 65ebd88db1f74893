// Package fulfillment provides domain entities and the state machine for
// the fulfillment workflow in the warehouse system. It implements the Task
// aggregate root with its line items and lifecycle management.
//
// The package includes:
//   - Task: The aggregate root grouping line items picked for one source document
//   - Item: A line item with its requested quantity, allocation, and status
//   - ItemStatus / TaskStatus: State machines enforcing valid transitions
//
// Key business rules:
//   - Item statuses follow pending -> assigned -> picking -> completed, with
//     cancellation possible from any non-terminal status
//   - Assignment requires a successful stock commitment; completion requires
//     an allocated slot
//   - Task status is derived from item statuses; only shipping is an explicit
//     task-level transition
//   - Invalid transitions fail with a typed error and leave state unchanged
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package fulfillment

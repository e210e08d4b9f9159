// Package order provides domain entities and business logic for order
// management. It implements the Order aggregate root with lifecycle
// management and state transitions.
//
// The package includes:
//   - Order: the aggregate root managing identity, properties, and lifecycle
//   - Status: a state machine that enforces valid status transitions
//   - StatusChange: an append-only audit record of one applied transition
//   - Item: an immutable product line captured at creation
//
// Key business rules:
//   - Status follows the workflow pending -> processing -> shipped ->
//     delivered, with cancellation possible from pending and processing
//   - Delivered and cancelled are terminal states
//   - The delivery timestamp is set exactly once, on entering delivered
//   - Every applied transition appends exactly one StatusChange
//
// The package follows Domain-Driven Design principles, providing rich
// domain behavior, encapsulation, and validation to ensure business rules
// are enforced.
package order

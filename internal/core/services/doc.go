// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): note CRUD kept in lockstep
// with the vector index, the memoized index lifecycle, and the
// chat orchestration that streams answers over the event bus.
package services

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - NoteStore: Note persistence, the source of truth for the index
//   - EmbeddingService: Generates vector embeddings
//   - CompletionService: Streams generated answers
//   - VectorIndex: Chunk storage and filtered similarity search
//   - ChatBus: In-process multicast of answer lifecycle events
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - SnapshotStore: Index persistence. Without it, the index is
//     rebuilt from the note store on every cold start.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

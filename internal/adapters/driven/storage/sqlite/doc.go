// Package sqlite provides SQLite-backed persistence for notes and the
// vector index snapshot.
//
// A single database file holds both concerns. The note tables are the
// durable source of truth; the index_records table is a disposable
// snapshot of the vector index that is rewritten after every mutation
// and can always be regenerated from the notes.
package sqlite

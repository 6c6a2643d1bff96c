// Package database provides the storage collaborator the maintenance jobs
// query and mutate. The subsystem treats storage as opaque: repositories
// express each job's narrow access pattern as a query, and this package
// carries it to SurrealDB.
//
// # Interface Design
//
// The Database interface provides three query methods:
//   - Query: returns multiple results (selections of eligible records)
//   - QueryOne: returns a single result (lookups by id)
//   - Execute: no return value (mutations where the count is not needed)
//
// # Atomicity
//
// Per-statement atomicity comes from SurrealDB itself. When a job needs
// several statements to succeed or fail together (the account-deletion
// cascade), it accumulates them in an AtomicBatch, which wraps them in
// BEGIN TRANSACTION / COMMIT TRANSACTION and sends them in one round trip.
// There is no stateful connection-level transaction here; batches are the
// only multi-statement unit.
//
// # Error Handling
//
// Standard errors are defined for common failure cases:
//   - ErrNotFound: record does not exist
//   - ErrConnection: connection or communication failure
//   - ErrQuery: query execution failure
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // record already gone, fine for cleanup paths
//	}
package database

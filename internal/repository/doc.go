// Package repository implements the data access layer for the maintenance
// subsystem.
//
// Unlike a request-serving data layer, these repositories expose only the
// narrow operations the background jobs need: cutoff-based bulk deletes,
// paged listings of rows awaiting anonymization, and the handful of reads
// and writes behind karma recalculation and account-deletion finalization.
// Full CRUD for the platform's records lives with the platform, not here.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific maintenance operations
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Query Patterns
//
// Common query patterns used:
//
//   - Parameterized queries with $variable syntax for security
//   - type::record() for safe ID handling
//   - time::now() for automatic timestamps
//   - count() ... GROUP ALL before bulk deletes, so jobs can report how
//     many rows a sweep removed without materializing them
//
// # Example Usage
//
//	repo := NewInvitationRepository(db)
//	deleted, err := repo.DeleteUnresolvedBefore(ctx, cutoff)
//	if err != nil {
//	    return err
//	}
package repository

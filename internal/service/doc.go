// Package service implements the business logic of the maintenance
// subsystem: karma recalculation and the account-deletion grace-period
// workflow.
//
// Services depend on narrow repository interfaces declared in this package,
// so tests exercise the logic against hand-rolled mocks without a database.
//
// # Error Handling
//
// Precondition violations are sentinel errors checked with errors.Is:
//
//	if errors.Is(err, service.ErrDeletionAlreadyPending) {
//	    // reject as a conflict
//	}
//
// Storage errors pass through wrapped, carrying the database package's
// sentinels.
package service

package core

import "errors"

// Sentinel errors returned by the core services. Callers match them with
// errors.Is; services wrap them with context via fmt.Errorf("...: %w").
var (
	// ErrNotFound means the referenced entity does not exist: a bill, an
	// item, a customer account, or a line within a bill.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means the input fails validation before any state
	// is touched: non-positive quantities, blank names, negative prices.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientStock means a reservation asked for more units than
	// the item has. The operation leaves no partial state behind.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrIllegalBillState means a line mutation or lifecycle transition
	// was attempted on a bill that is not PENDING.
	ErrIllegalBillState = errors.New("illegal bill state")

	// ErrConflict means a uniqueness or serialization conflict: duplicate
	// customer account, or a transaction that lost a deadlock or
	// serialization race and should be retried.
	ErrConflict = errors.New("conflict")
)

package apperrors

import "errors"

var (
	// ErrCapacityExceeded means no Confirmed, RAC or Waitlist slot is left
	// for the requested journey/class. Permanent for the request; the
	// booking must not be created.
	ErrCapacityExceeded = errors.New("no availability: confirmed, RAC and waitlist quotas are full")

	// ErrInvalidReference means the journey, class or ticket referenced by
	// the request does not exist.
	ErrInvalidReference = errors.New("unknown journey, class or ticket reference")

	// ErrInvalidPassenger means a passenger descriptor failed validation.
	ErrInvalidPassenger = errors.New("invalid passenger descriptor")

	// ErrConcurrencyConflict means a transaction lost a lock or version
	// race. Transient: callers retry a bounded number of times.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")

	// ErrInvariantViolation means the ledger or a queue is in a state that
	// should be unreachable (negative counter, gap in queue positions).
	// Fatal for the operation; never retried.
	ErrInvariantViolation = errors.New("inventory invariant violation")

	// ErrAlreadyCancelled means the ticket (or every requested line on it)
	// is already cancelled. Inventory is not released twice.
	ErrAlreadyCancelled = errors.New("ticket already cancelled")

	ErrTicketNotFound  = errors.New("ticket not found")
	ErrJourneyDeparted = errors.New("journey has already departed")
)

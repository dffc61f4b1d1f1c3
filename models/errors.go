package models

import "errors"

var (
	// ErrActiveLeaseExists is returned when assigning a property would give
	// the tenant or the property a second active lease.
	ErrActiveLeaseExists = errors.New("an active lease already exists for this tenant or property")

	// ErrPropertyNotAvailable is returned when the property targeted by a
	// lease assignment is not in the "available" status.
	ErrPropertyNotAvailable = errors.New("property is not available")

	// ErrAlreadyReviewed is returned when a payment proof that is already
	// approved or rejected is reviewed again.
	ErrAlreadyReviewed = errors.New("payment proof has already been reviewed")

	// ErrInvalidTransition is returned for handover status changes outside
	// the legal graph.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrConcurrentModification is returned when a compare-and-swap update
	// finds the row changed since it was read.
	ErrConcurrentModification = errors.New("record was modified concurrently")
)

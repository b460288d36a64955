package model

import "errors"

// Sentinel errors shared by the store, ledger and progress layers.
// Compare with errors.Is; callers may wrap them with more context.
var (
	// ErrInvalidArgument reports malformed input such as negative steps.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports an unknown or inactive reward, or a missing row.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientPoints is a business-rule rejection, not a system fault.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrConflict reports a claim that lost a race for the ledger.
	ErrConflict = errors.New("conflicting claim in progress")

	// ErrStoreUnavailable wraps any failure of the underlying data store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

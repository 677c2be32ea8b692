package domain

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned by signal functions when the price history
// is too thin to compute an indicator. Callers log it and carry on with the
// function's zero value; it never aborts a tick.
var ErrInsufficientData = errors.New("insufficient price data")

// VenueError wraps a failed venue call (price, balance, fees, order
// submission). It aborts the current tick only; the next tick retries with
// fresh reads.
type VenueError struct {
	Op  string
	Err error
}

func (e *VenueError) Error() string {
	return fmt.Sprintf("venue: %s: %v", e.Op, e.Err)
}

func (e *VenueError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed ledger read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

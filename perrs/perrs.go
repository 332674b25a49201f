// Package perrs defines the protocol failure classes. Every engine entry
// point rejects with exactly one of these, wrapped with call context, and
// callers match with errors.Is.
package perrs

import "errors"

var (
	// ErrUnauthorized rejects a caller that fails the entry point's
	// authorization predicate.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument rejects zero addresses, mismatched array lengths,
	// amount mismatches and exceeded caps.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound rejects references to ids that were never created.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState rejects operations attempted outside their required
	// lifecycle state (double resolve, double vote, queue before success...).
	ErrInvalidState = errors.New("invalid state")
	// ErrExternalCall reports a failed asset transfer or governance
	// sub-call; the whole call rolls back.
	ErrExternalCall = errors.New("external call failed")
)

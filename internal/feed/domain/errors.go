package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUpstreamUnavailable marks retryable collaborator failures. Local
	// state is never corrupted by them.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrListingNotFound  = errors.New("listing not found")
	ErrNotListingOwner  = errors.New("listing does not belong to requester")
	ErrListingNotActive = errors.New("listing is not active")

	ErrInvalidBoostLevel = errors.New("invalid boost level")
	ErrInvalidDuration   = errors.New("invalid sponsorship duration")

	ErrAgentNotFound   = errors.New("agent not found")
	ErrUnknownCheckout = errors.New("unknown checkout session")

	// ErrStaleRequest signals a generation mismatch after an abandoned
	// request. It is dropped silently, never shown to a user.
	ErrStaleRequest = errors.New("stale request generation")

	// ErrLoadInProgress rejects a second page load issued while one is
	// already in flight on the same session.
	ErrLoadInProgress = errors.New("page load already in progress")
)

// Unavailable wraps a collaborator failure so that callers can match it
// with errors.Is(err, ErrUpstreamUnavailable) while keeping the cause.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}

// ConflictError reports an attempt to sponsor a listing that already has a
// confirmed, non-expired sponsorship. ActiveUntil lets the caller display
// "already sponsored until <date>".
type ConflictError struct {
	ListingID   string
	ActiveUntil time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("listing %s is already sponsored until %s", e.ListingID, e.ActiveUntil.Format(time.RFC3339))
}

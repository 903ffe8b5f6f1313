package domain

import (
	"context"
	"time"
)

type ListingFilter struct {
	Mode    ListingPurpose
	Country string
}

// ListingStore answers filtered queries over a bounded working set,
// ordered by CreatedAt descending before any sponsorship re-ranking.
type ListingStore interface {
	Query(ctx context.Context, filter ListingFilter, offset, limit int) ([]Listing, int64, error)
	FindByID(ctx context.Context, id string) (*Listing, error)
}

type SponsorshipStore interface {
	Insert(ctx context.Context, sp *Sponsorship) error
	// FindConfirmedByListingIDs returns every payment-confirmed record for
	// the given listings, regardless of window. Temporal filtering is the
	// ledger's job.
	FindConfirmedByListingIDs(ctx context.Context, listingIDs []string) ([]Sponsorship, error)
	// Confirm flips the pending record for a checkout session to active
	// with SponsoredFrom = at, returning the updated record.
	Confirm(ctx context.Context, sessionID string, at time.Time) (*Sponsorship, error)
}

type AgentDirectory interface {
	Resolve(ctx context.Context, ownerID string) (*AgentInfo, error)
}

type PaymentGateway interface {
	CreateCheckout(ctx context.Context, amount float64, currency string, metadata map[string]string) (*CheckoutHandle, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// ImageResolver turns a stored image reference into a client-servable URL.
type ImageResolver interface {
	URL(ctx context.Context, objectKey string) (string, error)
}

type ReceiptSender interface {
	SendSponsorshipReceipt(toEmail, listingTitle string, activeUntil time.Time) error
}

// SnapshotCache stores first-page feed snapshots by canonical query key.
// Snapshots are read-only; implementations never patch them in place.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (FeedSnapshot, bool)
	Put(ctx context.Context, key string, snap FeedSnapshot)
	Invalidate(ctx context.Context, key string)
	Purge(ctx context.Context)
}

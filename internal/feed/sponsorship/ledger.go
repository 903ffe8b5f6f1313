// Package sponsorship exposes point-in-time "is this listing currently
// boosted" queries over the sponsorship store.
package sponsorship

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

type Ledger struct {
	store  domain.SponsorshipStore
	logger logger.Logger
}

func NewLedger(store domain.SponsorshipStore, log logger.Logger) *Ledger {
	return &Ledger{store: store, logger: log}
}

// ActiveFor returns, per listing id, the sponsorship in force at the
// given instant. The check is purely temporal over confirmed records:
// sponsoredFrom <= at < sponsoredUntil. The lifecycle manager should
// prevent overlapping confirmed records, but when they occur anyway the
// one with the latest sponsoredFrom wins.
func (l *Ledger) ActiveFor(ctx context.Context, listingIDs []string, at time.Time) (map[string]domain.Sponsorship, error) {
	active := make(map[string]domain.Sponsorship, len(listingIDs))
	if len(listingIDs) == 0 {
		return active, nil
	}

	records, err := l.store.FindConfirmedByListingIDs(ctx, listingIDs)
	if err != nil {
		l.logger.Errorf("Ledger.ActiveFor: sponsorship lookup failed: %v", err)
		return nil, domain.Unavailable(err)
	}

	for _, r := range records {
		if !r.ActiveAt(at) {
			continue
		}
		cur, ok := active[r.ListingID]
		if !ok {
			active[r.ListingID] = r
			continue
		}
		l.logger.Warnf("Ledger.ActiveFor: overlapping confirmed sponsorships for listing %s", r.ListingID)
		if r.SponsoredFrom.After(cur.SponsoredFrom) {
			active[r.ListingID] = r
		}
	}
	return active, nil
}

// ActiveForOne is the single-listing convenience used by the purchase
// guard.
func (l *Ledger) ActiveForOne(ctx context.Context, listingID string, at time.Time) (*domain.Sponsorship, error) {
	active, err := l.ActiveFor(ctx, []string{listingID}, at)
	if err != nil {
		return nil, err
	}
	if sp, ok := active[listingID]; ok {
		return &sp, nil
	}
	return nil, nil
}

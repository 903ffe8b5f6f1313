package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func listing(id string, createdOffset time.Duration) domain.Listing {
	return domain.Listing{ID: id, CreatedAt: baseTime.Add(createdOffset)}
}

func sponsored(listingID string, level int, fromOffset time.Duration) domain.Sponsorship {
	return domain.Sponsorship{
		ListingID:     listingID,
		BoostLevel:    level,
		Status:        domain.SponsorshipActive,
		SponsoredFrom: baseTime.Add(fromOffset),
	}
}

func ids(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestRank_SponsoredFirstThenNewest(t *testing.T) {
	// Five listings created t1 < t2 < ... < t5, L3 sponsored at level 2.
	listings := []domain.Listing{
		listing("L1", 1*time.Hour),
		listing("L2", 2*time.Hour),
		listing("L3", 3*time.Hour),
		listing("L4", 4*time.Hour),
		listing("L5", 5*time.Hour),
	}
	sponsorships := map[string]domain.Sponsorship{
		"L3": sponsored("L3", 2, 0),
	}

	ranked := Rank(listings, sponsorships)

	assert.Equal(t, []string{"L3", "L5", "L4", "L2", "L1"}, ids(ranked))
}

func TestRank_BoostLevelDominatesRecency(t *testing.T) {
	// The level-3 listing is the oldest but must come first; level 1
	// still beats any unsponsored listing.
	listings := []domain.Listing{
		listing("old-boost3", 0),
		listing("new-unsponsored", 72*time.Hour),
		listing("mid-boost1", 24*time.Hour),
	}
	sponsorships := map[string]domain.Sponsorship{
		"old-boost3": sponsored("old-boost3", 3, 0),
		"mid-boost1": sponsored("mid-boost1", 1, 0),
	}

	ranked := Rank(listings, sponsorships)

	assert.Equal(t, []string{"old-boost3", "mid-boost1", "new-unsponsored"}, ids(ranked))
}

func TestRank_EqualLevelLaterPurchaseWins(t *testing.T) {
	listings := []domain.Listing{
		listing("a", 1*time.Hour),
		listing("b", 2*time.Hour),
	}
	sponsorships := map[string]domain.Sponsorship{
		"a": sponsored("a", 2, 2*time.Hour),
		"b": sponsored("b", 2, 1*time.Hour),
	}

	ranked := Rank(listings, sponsorships)

	assert.Equal(t, []string{"a", "b"}, ids(ranked))
}

func TestRank_StableForEqualKeys(t *testing.T) {
	sameCreated := []domain.Listing{
		listing("x", time.Hour),
		listing("y", time.Hour),
		listing("z", time.Hour),
	}

	ranked := Rank(sameCreated, nil)

	assert.Equal(t, []string{"x", "y", "z"}, ids(ranked))

	// Same boost level and same purchase instant: input order preserved.
	sameBoost := map[string]domain.Sponsorship{
		"x": sponsored("x", 1, time.Hour),
		"y": sponsored("y", 1, time.Hour),
		"z": sponsored("z", 1, time.Hour),
	}
	ranked = Rank(sameCreated, sameBoost)

	assert.Equal(t, []string{"x", "y", "z"}, ids(ranked))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	listings := []domain.Listing{
		listing("L1", 1*time.Hour),
		listing("L2", 2*time.Hour),
	}

	_ = Rank(listings, nil)

	assert.Equal(t, []string{"L1", "L2"}, ids(listings))
}

// Package ranking merges raw listings with active sponsorships into the
// composite feed order.
package ranking

import (
	"sort"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

// Rank orders listings by, in priority: boost level of an active
// sponsorship (sponsored always outranks unsponsored, whatever the
// level), later sponsoredFrom among equal levels, then later createdAt.
// The sort is stable so equal-key items keep their input order across
// re-renders, and the comparator is pure: the "now" instant was applied
// upstream when sponsorships was built. The input slice is not mutated.
func Rank(listings []domain.Listing, sponsorships map[string]domain.Sponsorship) []domain.Listing {
	out := make([]domain.Listing, len(listings))
	copy(out, listings)

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], sponsorships)
	})
	return out
}

func less(a, b domain.Listing, sponsorships map[string]domain.Sponsorship) bool {
	sa, aSponsored := sponsorships[a.ID]
	sb, bSponsored := sponsorships[b.ID]

	switch {
	case aSponsored && bSponsored:
		if sa.BoostLevel != sb.BoostLevel {
			return sa.BoostLevel > sb.BoostLevel
		}
		// Most recently purchased boost wins ties at the same level.
		if !sa.SponsoredFrom.Equal(sb.SponsoredFrom) {
			return sa.SponsoredFrom.After(sb.SponsoredFrom)
		}
		return false
	case aSponsored:
		return true
	case bSponsored:
		return false
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

package domain

import (
	"fmt"
	"time"
)

type ListingStatus string

const (
	StatusActive   ListingStatus = "active"
	StatusDraft    ListingStatus = "draft"
	StatusSold     ListingStatus = "sold"
	StatusInactive ListingStatus = "inactive"
)

type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

// ListingPurpose doubles as the feed search mode: the feed is always
// scoped to exactly one purpose.
type ListingPurpose string

const (
	PurposeRent       ListingPurpose = "rent"
	PurposeSale       ListingPurpose = "sale"
	PurposeCommercial ListingPurpose = "commercial"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	City         string       `json:"city"`
	Neighborhood string       `json:"neighborhood"`
	CountryCode  string       `json:"country_code"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// Listing is read-only from the feed's perspective. CreatedAt is the
// default tie-break for ranking and must be comparable across records
// coming from the same store.
type Listing struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Price        float64        `json:"price"`
	Currency     string         `json:"currency"`
	Location     Location       `json:"location"`
	Images       []string       `json:"images"`
	PropertyType PropertyType   `json:"property_type"`
	Purpose      ListingPurpose `json:"purpose"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	Area         float64        `json:"area"`
	LandArea     *float64       `json:"land_area,omitempty"`
	Amenities    []string       `json:"amenities,omitempty"`
	OwnerID      string         `json:"owner_id"`
	Status       ListingStatus  `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}

type SponsorshipStatus string

const (
	SponsorshipPending   SponsorshipStatus = "pending"
	SponsorshipActive    SponsorshipStatus = "active"
	SponsorshipExpired   SponsorshipStatus = "expired"
	SponsorshipCancelled SponsorshipStatus = "cancelled"
)

// Sponsorship is a paid promotion of one listing over the half-open
// window [SponsoredFrom, SponsoredUntil). Expiry is lazy: stored status
// is never trusted on reads, the window is re-checked every time.
type Sponsorship struct {
	ID                string            `json:"id"`
	ListingID         string            `json:"listing_id"`
	BoostLevel        int               `json:"boost_level"`
	Status            SponsorshipStatus `json:"status"`
	SponsoredFrom     time.Time         `json:"sponsored_from"`
	SponsoredUntil    time.Time         `json:"sponsored_until"`
	CheckoutSessionID string            `json:"checkout_session_id"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Confirmed reports whether payment ever completed for this record.
// Pending and cancelled records never affect ranking, whatever their window.
func (s Sponsorship) Confirmed() bool {
	return s.Status == SponsorshipActive || s.Status == SponsorshipExpired
}

// ActiveAt is the temporal check used on every read path.
func (s Sponsorship) ActiveAt(at time.Time) bool {
	return s.Confirmed() && !s.SponsoredFrom.After(at) && at.Before(s.SponsoredUntil)
}

type OwnerKind string

const (
	OwnerIndividual OwnerKind = "individual"
	OwnerAgency     OwnerKind = "agency"
	OwnerBroker     OwnerKind = "broker"
)

// AgentInfo is resolved display metadata for a listing owner.
type AgentInfo struct {
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
	Email       string    `json:"-"`
	Verified    bool      `json:"verified"`
	Kind        OwnerKind `json:"kind"`
	AgencyName  string    `json:"agency_name,omitempty"`
}

// DefaultAgentInfo substitutes for owners whose metadata could not be
// resolved; a failed lookup must never block a page render.
func DefaultAgentInfo() AgentInfo {
	return AgentInfo{
		DisplayName: "Owner",
		AvatarURL:   "/static/avatar-placeholder.png",
		Verified:    false,
		Kind:        OwnerIndividual,
	}
}

// FeedRow is one fully-resolved feed item: listing, its sponsorship
// standing at assembly time, and owner metadata.
type FeedRow struct {
	Listing    Listing   `json:"listing"`
	Sponsored  bool      `json:"sponsored"`
	BoostLevel int       `json:"boost_level,omitempty"`
	Agent      AgentInfo `json:"agent"`
}

type FeedPage struct {
	Items         []FeedRow `json:"items"`
	HasMore       bool      `json:"has_more"`
	TotalEstimate int64     `json:"total_estimate"`
}

// FeedSnapshot is the cached first page: the resolved rows plus the
// store's total estimate at assembly time, so a cache hit reports the
// same totals as the fetch that produced it.
type FeedSnapshot struct {
	Rows  []FeedRow `json:"rows"`
	Total int64     `json:"total"`
}

// FeedQuery identifies one feed variant; its canonical key scopes cache
// entries.
type FeedQuery struct {
	Mode     ListingPurpose
	Country  string
	PageSize int
}

func (q FeedQuery) CacheKey() string {
	return fmt.Sprintf("feed:%s:%s:%d", q.Mode, q.Country, q.PageSize)
}

// CheckoutHandle is the terminal result of a purchase from this
// subsystem's point of view; confirmation arrives asynchronously.
type CheckoutHandle struct {
	URL       string `json:"checkout_url"`
	SessionID string `json:"checkout_session_id"`
}

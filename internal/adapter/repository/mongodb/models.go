package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

type coordinatesDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type locationDoc struct {
	City         string          `bson:"city"`
	Neighborhood string          `bson:"neighborhood"`
	CountryCode  string          `bson:"country_code"`
	Coordinates  *coordinatesDoc `bson:"coordinates,omitempty"`
}

type listingDoc struct {
	ID           string      `bson:"_id"`
	Title        string      `bson:"title"`
	Price        float64     `bson:"price"`
	Currency     string      `bson:"currency"`
	Location     locationDoc `bson:"location"`
	Images       []string    `bson:"images"`
	PropertyType string      `bson:"property_type"`
	Purpose      string      `bson:"purpose"`
	Bedrooms     int         `bson:"bedrooms"`
	Bathrooms    int         `bson:"bathrooms"`
	Area         float64     `bson:"area"`
	LandArea     *float64    `bson:"land_area,omitempty"`
	Amenities    []string    `bson:"amenities,omitempty"`
	OwnerID      string      `bson:"owner_id"`
	Status       string      `bson:"status"`
	CreatedAt    time.Time   `bson:"created_at"`
}

func (d listingDoc) toDomain() domain.Listing {
	l := domain.Listing{
		ID:           d.ID,
		Title:        d.Title,
		Price:        d.Price,
		Currency:     d.Currency,
		Images:       d.Images,
		PropertyType: domain.PropertyType(d.PropertyType),
		Purpose:      domain.ListingPurpose(d.Purpose),
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		Area:         d.Area,
		LandArea:     d.LandArea,
		Amenities:    d.Amenities,
		OwnerID:      d.OwnerID,
		Status:       domain.ListingStatus(d.Status),
		CreatedAt:    d.CreatedAt,
	}
	l.Location = domain.Location{
		City:         d.Location.City,
		Neighborhood: d.Location.Neighborhood,
		CountryCode:  d.Location.CountryCode,
	}
	if d.Location.Coordinates != nil {
		l.Location.Coordinates = &domain.Coordinates{
			Lat: d.Location.Coordinates.Lat,
			Lng: d.Location.Coordinates.Lng,
		}
	}
	return l
}

type sponsorshipDoc struct {
	ID                string    `bson:"_id"`
	ListingID         string    `bson:"listing_id"`
	BoostLevel        int       `bson:"boost_level"`
	Status            string    `bson:"status"`
	SponsoredFrom     time.Time `bson:"sponsored_from,omitempty"`
	SponsoredUntil    time.Time `bson:"sponsored_until"`
	CheckoutSessionID string    `bson:"checkout_session_id"`
	CreatedAt         time.Time `bson:"created_at"`
}

func sponsorshipToDoc(sp *domain.Sponsorship) sponsorshipDoc {
	return sponsorshipDoc{
		ID:                sp.ID,
		ListingID:         sp.ListingID,
		BoostLevel:        sp.BoostLevel,
		Status:            string(sp.Status),
		SponsoredFrom:     sp.SponsoredFrom,
		SponsoredUntil:    sp.SponsoredUntil,
		CheckoutSessionID: sp.CheckoutSessionID,
		CreatedAt:         sp.CreatedAt,
	}
}

func (d sponsorshipDoc) toDomain() domain.Sponsorship {
	return domain.Sponsorship{
		ID:                d.ID,
		ListingID:         d.ListingID,
		BoostLevel:        d.BoostLevel,
		Status:            domain.SponsorshipStatus(d.Status),
		SponsoredFrom:     d.SponsoredFrom,
		SponsoredUntil:    d.SponsoredUntil,
		CheckoutSessionID: d.CheckoutSessionID,
		CreatedAt:         d.CreatedAt,
	}
}

type userDoc struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	AvatarURL  string `bson:"avatar_url"`
	Email      string `bson:"email"`
	Verified   bool   `bson:"verified"`
	Kind       string `bson:"kind"`
	AgencyName string `bson:"agency_name,omitempty"`
}

func (d userDoc) toAgentInfo() domain.AgentInfo {
	kind := domain.OwnerKind(d.Kind)
	if kind == "" {
		kind = domain.OwnerIndividual
	}
	return domain.AgentInfo{
		DisplayName: d.Name,
		AvatarURL:   d.AvatarURL,
		Email:       d.Email,
		Verified:    d.Verified,
		Kind:        kind,
		AgencyName:  d.AgencyName,
	}
}

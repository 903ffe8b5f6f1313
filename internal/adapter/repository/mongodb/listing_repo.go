package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

// ListingRepository implements domain.ListingStore over the listings
// collection. Results are ordered by created_at descending; sponsorship
// re-ranking happens downstream.
type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection("listings")}
}

func (r *ListingRepository) Query(ctx context.Context, filter domain.ListingFilter, offset, limit int) ([]domain.Listing, int64, error) {
	query := bson.M{
		"status":  string(domain.StatusActive),
		"purpose": string(filter.Mode),
	}
	if filter.Country != "" {
		query["location.country_code"] = filter.Country
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []listingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	listings := make([]domain.Listing, 0, len(docs))
	for _, d := range docs {
		listings = append(listings, d.toDomain())
	}
	return listings, total, nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	var doc listingDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	listing := doc.toDomain()
	return &listing, nil
}

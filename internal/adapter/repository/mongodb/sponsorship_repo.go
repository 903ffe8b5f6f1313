package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

// SponsorshipRepository implements domain.SponsorshipStore. The store
// does not enforce single-active-per-listing; the lifecycle manager does.
type SponsorshipRepository struct {
	collection *mongo.Collection
}

func NewSponsorshipRepository(db *mongo.Database) *SponsorshipRepository {
	return &SponsorshipRepository{collection: db.Collection("sponsorships")}
}

func (r *SponsorshipRepository) Insert(ctx context.Context, sp *domain.Sponsorship) error {
	_, err := r.collection.InsertOne(ctx, sponsorshipToDoc(sp))
	return err
}

// FindConfirmedByListingIDs returns records whose payment completed at
// some point. Stored status is only used to exclude never-confirmed and
// cancelled records; window checks stay with the ledger.
func (r *SponsorshipRepository) FindConfirmedByListingIDs(ctx context.Context, listingIDs []string) ([]domain.Sponsorship, error) {
	filter := bson.M{
		"listing_id": bson.M{"$in": listingIDs},
		"status": bson.M{"$in": []string{
			string(domain.SponsorshipActive),
			string(domain.SponsorshipExpired),
		}},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []sponsorshipDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]domain.Sponsorship, 0, len(docs))
	for _, d := range docs {
		records = append(records, d.toDomain())
	}
	return records, nil
}

func (r *SponsorshipRepository) Confirm(ctx context.Context, sessionID string, at time.Time) (*domain.Sponsorship, error) {
	filter := bson.M{
		"checkout_session_id": sessionID,
		"status":              string(domain.SponsorshipPending),
	}
	update := bson.M{"$set": bson.M{
		"status":         string(domain.SponsorshipActive),
		"sponsored_from": at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc sponsorshipDoc
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUnknownCheckout
		}
		return nil, err
	}
	sp := doc.toDomain()
	return &sp, nil
}

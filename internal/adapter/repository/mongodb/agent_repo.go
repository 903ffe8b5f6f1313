package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/feed/domain"
)

// AgentRepository implements domain.AgentDirectory over the users
// collection.
type AgentRepository struct {
	collection *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{collection: db.Collection("users")}
}

func (r *AgentRepository) Resolve(ctx context.Context, ownerID string) (*domain.AgentInfo, error) {
	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, err
	}
	info := doc.toAgentInfo()
	return &info, nil
}

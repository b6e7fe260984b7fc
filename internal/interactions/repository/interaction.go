package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stayfinder/pkg/model"
)

const interactionCollection = "user_interactions"

// InteractionRepository is append-only: interactions are evidence of what
// users did and are never rewritten.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *model.UserInteraction) (string, error)
	FindByUser(ctx context.Context, userID string, interactionType string, since time.Time, limit int) ([]model.UserInteraction, error)
	CountByHotel(ctx context.Context, since time.Time) (map[string]int64, error)
}

type mongoInteractionRepository struct {
	collection *mongo.Collection
}

func NewInteractionRepository(db *mongo.Database) InteractionRepository {
	return &mongoInteractionRepository{
		collection: db.Collection(interactionCollection),
	}
}

func (r *mongoInteractionRepository) Create(ctx context.Context, interaction *model.UserInteraction) (string, error) {
	interaction.ID = primitive.NewObjectID().Hex()
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, interaction)
	if err != nil {
		return "", fmt.Errorf("failed to record interaction: %w", err)
	}
	return interaction.ID, nil
}

func (r *mongoInteractionRepository) FindByUser(ctx context.Context, userID, interactionType string, since time.Time, limit int) ([]model.UserInteraction, error) {
	filter := bson.M{"user_id": userID}
	if interactionType != "" {
		filter["interaction_type"] = interactionType
	}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gte": since}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find interactions: %w", err)
	}
	defer cursor.Close(ctx)

	var interactions []model.UserInteraction
	if err := cursor.All(ctx, &interactions); err != nil {
		return nil, fmt.Errorf("failed to decode interactions: %w", err)
	}
	return interactions, nil
}

// CountByHotel aggregates interaction volume per hotel since the cutoff.
// Feeds the popularity side of the local ranking fallback.
func (r *mongoInteractionRepository) CountByHotel(ctx context.Context, since time.Time) (map[string]int64, error) {
	match := bson.M{}
	if !since.IsZero() {
		match["created_at"] = bson.M{"$gte": since}
	}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$hotel_id", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions by hotel: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		HotelID string `bson:"_id"`
		Count   int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode interaction counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.HotelID] = row.Count
	}
	return counts, nil
}

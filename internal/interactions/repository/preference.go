package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	interrors "stayfinder/internal/interactions/errors"
	"stayfinder/pkg/model"
)

const preferenceCollection = "user_preferences"

type PreferenceRepository interface {
	FindByUser(ctx context.Context, userID string) (*model.UserPreference, error)
	Create(ctx context.Context, pref *model.UserPreference) (string, error)
	Replace(ctx context.Context, pref *model.UserPreference) error
}

type mongoPreferenceRepository struct {
	collection *mongo.Collection
}

func NewPreferenceRepository(db *mongo.Database) PreferenceRepository {
	return &mongoPreferenceRepository{
		collection: db.Collection(preferenceCollection),
	}
}

func (r *mongoPreferenceRepository) FindByUser(ctx context.Context, userID string) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interrors.ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("failed to find preference profile: %w", err)
	}
	return &pref, nil
}

func (r *mongoPreferenceRepository) Create(ctx context.Context, pref *model.UserPreference) (string, error) {
	pref.ID = primitive.NewObjectID().Hex()
	now := time.Now().UTC()
	pref.CreatedAt = now
	pref.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, pref)
	if err != nil {
		return "", fmt.Errorf("failed to create preference profile: %w", err)
	}
	return pref.ID, nil
}

// Replace writes the whole profile back. Profiles are small and each user
// mutates only their own, so last-write-wins is acceptable here.
func (r *mongoPreferenceRepository) Replace(ctx context.Context, pref *model.UserPreference) error {
	pref.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": pref.UserID}, pref)
	if err != nil {
		return fmt.Errorf("failed to replace preference profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return interrors.ErrPreferenceNotFound
	}
	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	reserrors "stayfinder/internal/reservations/errors"
	"stayfinder/pkg/model"
)

const roomCollection = "rooms"

// AvailabilityRepository is the per-room-number availability index. Reserve is
// the single atomic primitive: it appends dates to a room number's unavailable
// set only if none of them are already present, in one conditional update.
type AvailabilityRepository interface {
	FindRoom(ctx context.Context, roomID string) (*model.Room, error)
	Reserve(ctx context.Context, roomID, roomNumberID string, dates []time.Time) error
	Release(ctx context.Context, roomID, roomNumberID string, dates []time.Time) error
}

type mongoAvailabilityRepository struct {
	collection *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Database) AvailabilityRepository {
	return &mongoAvailabilityRepository{
		collection: db.Collection(roomCollection),
	}
}

func (r *mongoAvailabilityRepository) FindRoom(ctx context.Context, roomID string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

// Reserve appends dates to the room number's unavailable set. The filter only
// matches while none of the requested dates are present, so concurrent
// attempts on overlapping dates cannot both succeed. A non-match is
// disambiguated with a follow-up existence check.
func (r *mongoAvailabilityRepository) Reserve(ctx context.Context, roomID, roomNumberID string, dates []time.Time) error {
	filter := bson.M{
		"_id": roomID,
		"room_numbers": bson.M{
			"$elemMatch": bson.M{
				"_id":               roomNumberID,
				"unavailable_dates": bson.M{"$nin": dates},
			},
		},
	}
	update := bson.M{
		"$addToSet": bson.M{
			"room_numbers.$.unavailable_dates": bson.M{"$each": dates},
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reserve dates: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	exists, err := r.roomNumberExists(ctx, roomID, roomNumberID)
	if err != nil {
		return err
	}
	if !exists {
		return reserrors.ErrRoomNumberNotFound
	}
	return reserrors.ErrDatesTaken
}

// Release removes dates from the unavailable set. Used to compensate a
// partially applied reservation; removing absent dates is a no-op.
func (r *mongoAvailabilityRepository) Release(ctx context.Context, roomID, roomNumberID string, dates []time.Time) error {
	filter := bson.M{
		"_id":              roomID,
		"room_numbers._id": roomNumberID,
	}
	update := bson.M{
		"$pullAll": bson.M{
			"room_numbers.$.unavailable_dates": dates,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release dates: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrRoomNumberNotFound
	}
	return nil
}

func (r *mongoAvailabilityRepository) roomNumberExists(ctx context.Context, roomID, roomNumberID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"_id":              roomID,
		"room_numbers._id": roomNumberID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check room number existence: %w", err)
	}
	return count > 0, nil
}

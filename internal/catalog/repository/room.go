package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	caterrors "stayfinder/internal/catalog/errors"
	"stayfinder/pkg/model"
)

const roomCollection = "rooms"

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) (string, error)
	FindByID(ctx context.Context, id string) (*model.Room, error)
	FindByHotel(ctx context.Context, hotelID string) ([]model.Room, error)
	MinPriceByHotel(ctx context.Context, hotelID string) (float64, error)
	Update(ctx context.Context, id string, update *model.RoomUpdate) error
	Delete(ctx context.Context, id string) error
}

type mongoRoomRepository struct {
	collection *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) RoomRepository {
	return &mongoRoomRepository{
		collection: db.Collection(roomCollection),
	}
}

// Create assigns ids to the room and its embedded room numbers before
// insert so availability filters can address each room number directly.
func (r *mongoRoomRepository) Create(ctx context.Context, room *model.Room) (string, error) {
	room.ID = primitive.NewObjectID().Hex()
	room.CreatedAt = time.Now().UTC()
	for i := range room.RoomNumbers {
		if room.RoomNumbers[i].ID == "" {
			room.RoomNumbers[i].ID = primitive.NewObjectID().Hex()
		}
		if room.RoomNumbers[i].UnavailableDates == nil {
			room.RoomNumbers[i].UnavailableDates = []time.Time{}
		}
	}

	_, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		return "", fmt.Errorf("failed to create room: %w", err)
	}
	return room.ID, nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, caterrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindByHotel(ctx context.Context, hotelID string) ([]model.Room, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"hotel_id": hotelID})
	if err != nil {
		return nil, fmt.Errorf("failed to find rooms for hotel: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []model.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) MinPriceByHotel(ctx context.Context, hotelID string) (float64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"hotel_id": hotelID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "min_price": bson.M{"$min": "$price"}}}},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compute min room price: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		MinPrice float64 `bson:"min_price"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode min room price: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].MinPrice, nil
}

func (r *mongoRoomRepository) Update(ctx context.Context, id string, update *model.RoomUpdate) error {
	set := bson.M{}
	if update.Title != "" {
		set["title"] = update.Title
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.MaxPeople != nil {
		set["max_people"] = *update.MaxPeople
	}
	if update.Description != "" {
		set["description"] = update.Description
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	if result.MatchedCount == 0 {
		return caterrors.ErrRoomNotFound
	}
	return nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if result.DeletedCount == 0 {
		return caterrors.ErrRoomNotFound
	}
	return nil
}

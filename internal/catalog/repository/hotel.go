package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	caterrors "stayfinder/internal/catalog/errors"
	"stayfinder/pkg/model"
)

const hotelCollection = "hotels"

type HotelRepository interface {
	Create(ctx context.Context, hotel *model.Hotel) (string, error)
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Hotel, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]model.Hotel, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, search *model.HotelSearch, limit int) ([]model.Hotel, error)
	FindFeatured(ctx context.Context, limit int) ([]model.Hotel, error)
	FindByCity(ctx context.Context, city string, limit int) ([]model.Hotel, error)
	CountByCities(ctx context.Context, cities []string) (map[string]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, id string, update *model.HotelUpdate) error
	Delete(ctx context.Context, id string) error
	PushRoom(ctx context.Context, hotelID, roomID string) error
	PullRoom(ctx context.Context, hotelID, roomID string) error
}

type mongoHotelRepository struct {
	collection *mongo.Collection
}

func NewHotelRepository(db *mongo.Database) HotelRepository {
	return &mongoHotelRepository{
		collection: db.Collection(hotelCollection),
	}
}

func (r *mongoHotelRepository) Create(ctx context.Context, hotel *model.Hotel) (string, error) {
	hotel.ID = primitive.NewObjectID().Hex()
	hotel.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, hotel)
	if err != nil {
		return "", fmt.Errorf("failed to create hotel: %w", err)
	}
	return hotel.ID, nil
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	var hotel model.Hotel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hotel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, caterrors.ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}
	return &hotel, nil
}

func (r *mongoHotelRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Hotel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find hotels by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []model.Hotel
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	return hotels, nil
}

func (r *mongoHotelRepository) FindAll(ctx context.Context, limit int, offset int64) ([]model.Hotel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []model.Hotel
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	return hotels, nil
}

func (r *mongoHotelRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count hotels: %w", err)
	}
	return count, nil
}

// Search applies the hard constraints of a city search: case-insensitive
// city match plus optional price bounds on the cheapest room. Results come
// back rating-first so the local ranking fallback can serve them as-is.
func (r *mongoHotelRepository) Search(ctx context.Context, search *model.HotelSearch, limit int) ([]model.Hotel, error) {
	filter := bson.M{
		"city": bson.M{"$regex": "^" + search.City + "$", "$options": "i"},
	}
	price := bson.M{}
	if search.MinPrice != nil {
		price["$gte"] = *search.MinPrice
	}
	if search.MaxPrice != nil {
		price["$lte"] = *search.MaxPrice
	}
	if len(price) > 0 {
		filter["cheapest_price"] = price
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "review_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search hotels: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []model.Hotel
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	return hotels, nil
}

func (r *mongoHotelRepository) FindFeatured(ctx context.Context, limit int) ([]model.Hotel, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"featured": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find featured hotels: %w", err)
	}
	defer cursor.Close(ctx)

	var hotels []model.Hotel
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("failed to decode hotels: %w", err)
	}
	return hotels, nil
}

func (r *mongoHotelRepository) FindByCity(ctx context.Context, city string, limit int) ([]model.Hotel, error) {
	return r.Search(ctx, &model.HotelSearch{City: city}, limit)
}

func (r *mongoHotelRepository) CountByCities(ctx context.Context, cities []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(cities))
	for _, city := range cities {
		count, err := r.collection.CountDocuments(ctx, bson.M{
			"city": bson.M{"$regex": "^" + city + "$", "$options": "i"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count hotels in %s: %w", city, err)
		}
		counts[city] = count
	}
	return counts, nil
}

func (r *mongoHotelRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$type", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count hotels by type: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode type counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

func (r *mongoHotelRepository) Update(ctx context.Context, id string, update *model.HotelUpdate) error {
	set := bson.M{}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Type != "" {
		set["type"] = update.Type
	}
	if update.City != "" {
		set["city"] = update.City
	}
	if update.Address != "" {
		set["address"] = update.Address
	}
	if update.Coordinates != nil {
		set["coordinates"] = update.Coordinates
	}
	if update.Distance != "" {
		set["distance"] = update.Distance
	}
	if update.Photos != nil {
		set["photos"] = *update.Photos
	}
	if update.Title != "" {
		set["title"] = update.Title
	}
	if update.Description != "" {
		set["description"] = update.Description
	}
	if update.Stars != nil {
		set["stars"] = *update.Stars
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.ReviewCount != nil {
		set["review_count"] = *update.ReviewCount
	}
	if update.PopularityScore != nil {
		set["popularity_score"] = *update.PopularityScore
	}
	if update.Amenities != nil {
		set["amenities"] = *update.Amenities
	}
	if update.CheapestPrice != nil {
		set["cheapest_price"] = *update.CheapestPrice
	}
	if update.Featured != nil {
		set["featured"] = *update.Featured
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return caterrors.ErrHotelNotFound
	}
	return nil
}

func (r *mongoHotelRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete hotel: %w", err)
	}
	if result.DeletedCount == 0 {
		return caterrors.ErrHotelNotFound
	}
	return nil
}

func (r *mongoHotelRepository) PushRoom(ctx context.Context, hotelID, roomID string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": hotelID},
		bson.M{"$push": bson.M{"rooms": roomID}},
	)
	if err != nil {
		return fmt.Errorf("failed to attach room to hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return caterrors.ErrHotelNotFound
	}
	return nil
}

func (r *mongoHotelRepository) PullRoom(ctx context.Context, hotelID, roomID string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": hotelID},
		bson.M{"$pull": bson.M{"rooms": roomID}},
	)
	if err != nil {
		return fmt.Errorf("failed to detach room from hotel: %w", err)
	}
	if result.MatchedCount == 0 {
		return caterrors.ErrHotelNotFound
	}
	return nil
}

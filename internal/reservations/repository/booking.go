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

	reserrors "stayfinder/internal/reservations/errors"
	"stayfinder/pkg/model"
)

const bookingCollection = "bookings"

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (string, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByUser(ctx context.Context, userID, status string, limit int) ([]model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error
}

type mongoBookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &mongoBookingRepository{
		collection: db.Collection(bookingCollection),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) (string, error) {
	booking.ID = primitive.NewObjectID().Hex()
	booking.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return "", fmt.Errorf("failed to create booking: %w", err)
	}
	return booking.ID, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID, status string, limit int) ([]model.Booking, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["booking_status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings for user: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []model.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	set := bson.M{}
	if update.BookingStatus != "" {
		set["booking_status"] = update.BookingStatus
	}
	if update.PaymentStatus != "" {
		set["payment_status"] = update.PaymentStatus
	}
	if update.CancellationReason != "" {
		set["cancellation_reason"] = update.CancellationReason
	}
	if update.RefundAmount != nil {
		set["refund_amount"] = *update.RefundAmount
	}
	if update.Rating != nil {
		set["rating"] = update.Rating
	}
	if update.Review != nil {
		set["review"] = update.Review
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return reserrors.ErrBookingNotFound
	}
	return nil
}

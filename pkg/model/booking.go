package model

import "time"

type Guests struct {
	Adults   int `json:"adults" bson:"adults" validate:"required,min=1"`
	Children int `json:"children" bson:"children" validate:"min=0"`
}

type BookingRating struct {
	Overall     int `json:"overall" bson:"overall" validate:"required,min=1,max=5"`
	Cleanliness int `json:"cleanliness,omitempty" bson:"cleanliness,omitempty" validate:"omitempty,min=1,max=5"`
	Service     int `json:"service,omitempty" bson:"service,omitempty" validate:"omitempty,min=1,max=5"`
	Location    int `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,min=1,max=5"`
	Value       int `json:"value,omitempty" bson:"value,omitempty" validate:"omitempty,min=1,max=5"`
}

type BookingReview struct {
	Title      string    `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=140"`
	Comment    string    `json:"comment,omitempty" bson:"comment,omitempty" validate:"omitempty,max=1000"`
	ReviewDate time.Time `json:"review_date,omitempty" bson:"review_date,omitempty"`
}

// Booking is created exactly once per successful reservation batch and
// afterwards mutated only by single-field status transitions; the date
// range is never renegotiated.
type Booking struct {
	ID                 string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID             string         `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	HotelID            string         `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	RoomID             string         `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	RoomNumberIDs      []string       `json:"room_number_ids" bson:"room_number_ids" validate:"required,min=1,dive,mongodb"`
	CheckInDate        time.Time      `json:"check_in_date" bson:"check_in_date" validate:"required"`
	CheckOutDate       time.Time      `json:"check_out_date" bson:"check_out_date" validate:"required,gtfield=CheckInDate"`
	Guests             Guests         `json:"guests" bson:"guests"`
	TotalAmount        float64        `json:"total_amount" bson:"total_amount" validate:"min=0"`
	BookingStatus      string         `json:"booking_status" bson:"booking_status" validate:"required,oneof=pending confirmed completed cancelled no-show"`
	PaymentStatus      string         `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid failed refunded"`
	PaymentMethod      string         `json:"payment_method,omitempty" bson:"payment_method,omitempty" validate:"omitempty,oneof=credit_card debit_card paypal bank_transfer cash"`
	SpecialRequests    string         `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	Rating             *BookingRating `json:"rating,omitempty" bson:"rating,omitempty"`
	Review             *BookingReview `json:"review,omitempty" bson:"review,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	RefundAmount       float64        `json:"refund_amount" bson:"refund_amount" validate:"min=0"`
	CreatedAt          time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingStatusUpdate is the only mutation surface for an existing
// booking: status transitions and post-stay feedback.
type BookingStatusUpdate struct {
	BookingStatus      string         `json:"booking_status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled no-show"`
	PaymentStatus      string         `json:"payment_status,omitempty" validate:"omitempty,oneof=pending paid failed refunded"`
	Rating             *BookingRating `json:"rating,omitempty"`
	Review             *BookingReview `json:"review,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	RefundAmount       *float64       `json:"refund_amount,omitempty" validate:"omitempty,min=0"`
}

// ReservationRequest is the booking UI's input to the committer.
type ReservationRequest struct {
	UserID        string    `json:"user_id" validate:"required,mongodb"`
	HotelID       string    `json:"hotel_id" validate:"required,mongodb"`
	RoomID        string    `json:"room_id" validate:"required,mongodb"`
	RoomNumberIDs []string  `json:"room_number_ids" validate:"required,min=1,dive,mongodb"`
	CheckInDate   time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate  time.Time `json:"check_out_date" validate:"required,gtfield=CheckInDate"`
	Guests        Guests    `json:"guests"`
}

package model

import "time"

// RoomNumber is the inventory atom: a physical unit guests actually
// occupy. Its unavailable-date set only grows through successful
// reservations; it shrinks only through the administrative release path.
type RoomNumber struct {
	ID               string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Number           int         `json:"number" bson:"number" validate:"required,min=1,max=9999"`
	UnavailableDates []time.Time `json:"unavailable_dates" bson:"unavailable_dates"`
}

// Room is a unit type within a hotel (e.g. "Double Deluxe"), holding the
// bookable room numbers of that type.
type Room struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HotelID     string       `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	Title       string       `json:"title" bson:"title" validate:"required,min=2,max=100"`
	Price       float64      `json:"price" bson:"price" validate:"required,min=0"`
	MaxPeople   int          `json:"max_people" bson:"max_people" validate:"required,min=1,max=20"`
	Description string       `json:"description" bson:"description" validate:"required,min=2,max=1000"`
	RoomNumbers []RoomNumber `json:"room_numbers" bson:"room_numbers" validate:"required,min=1,dive"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoomUpdate struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	MaxPeople   *int     `json:"max_people,omitempty" validate:"omitempty,min=1,max=20"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=2,max=1000"`
}

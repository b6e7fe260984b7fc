package model

import "time"

type PriceRange struct {
	Min float64 `json:"min" bson:"min" validate:"min=0"`
	Max float64 `json:"max" bson:"max" validate:"min=0"`
}

// SearchQuery is the snapshot of a search attached to an interaction.
// Pointer fields distinguish "not part of the search" from zero values,
// which matters to the preference accumulator's widening rules.
type SearchQuery struct {
	City       string      `json:"city,omitempty" bson:"city,omitempty" validate:"omitempty,max=50"`
	CheckIn    *time.Time  `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut   *time.Time  `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Guests     *int        `json:"guests,omitempty" bson:"guests,omitempty" validate:"omitempty,min=1"`
	PriceRange *PriceRange `json:"price_range,omitempty" bson:"price_range,omitempty"`
}

type DeviceInfo struct {
	UserAgent string `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	Platform  string `json:"platform,omitempty" bson:"platform,omitempty"`
	IsMobile  bool   `json:"is_mobile" bson:"is_mobile"`
}

type Location struct {
	IP      string `json:"ip,omitempty" bson:"ip,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
}

// UserInteraction is append-only: written once, never updated or deleted
// by the core. UserID is optional; anonymous events are recorded but
// build no preference profile.
type UserInteraction struct {
	ID              string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID          string       `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty,mongodb"`
	HotelID         string       `json:"hotel_id" bson:"hotel_id" validate:"required,mongodb"`
	InteractionType string       `json:"interaction_type" bson:"interaction_type" validate:"required,oneof=view click search bookmark share booking"`
	SearchQuery     *SearchQuery `json:"search_query,omitempty" bson:"search_query,omitempty"`
	SessionID       string       `json:"session_id" bson:"session_id" validate:"omitempty,max=100"`
	Duration        int          `json:"duration" bson:"duration" validate:"min=0"`
	DeviceInfo      DeviceInfo   `json:"device_info" bson:"device_info"`
	Location        Location     `json:"location" bson:"location"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
}

package model

import "time"

type CityWeight struct {
	City   string  `json:"city" bson:"city" validate:"required,max=50"`
	Weight float64 `json:"weight" bson:"weight" validate:"min=0"`
}

type TypeWeight struct {
	Type   string  `json:"type" bson:"type" validate:"required,max=50"`
	Weight float64 `json:"weight" bson:"weight" validate:"min=0"`
}

type AmenityImportance struct {
	Amenity    string  `json:"amenity" bson:"amenity" validate:"required,max=50"`
	Importance float64 `json:"importance" bson:"importance" validate:"min=0,max=5"`
}

type GroupSize struct {
	Adults   int `json:"adults" bson:"adults" validate:"min=0"`
	Children int `json:"children" bson:"children" validate:"min=0"`
}

type SeasonWeight struct {
	Season string  `json:"season" bson:"season" validate:"required,oneof=spring summer autumn winter"`
	Weight float64 `json:"weight" bson:"weight" validate:"min=0"`
}

type BookingPatterns struct {
	AdvanceBookingDays  int            `json:"advance_booking_days" bson:"advance_booking_days" validate:"min=0"`
	AverageStayDuration int            `json:"average_stay_duration" bson:"average_stay_duration" validate:"min=0"`
	SeasonalPreference  []SeasonWeight `json:"seasonal_preference,omitempty" bson:"seasonal_preference,omitempty" validate:"omitempty,dive"`
}

// UserPreference holds one record per user. Created lazily, then only
// merged into; the explicit set-override path is the sole replacement
// route. Weights are relative-interest scores, not probabilities.
type UserPreference struct {
	ID                 string              `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID             string              `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	PreferredCities    []CityWeight        `json:"preferred_cities" bson:"preferred_cities" validate:"omitempty,dive"`
	PreferredTypes     []TypeWeight        `json:"preferred_types" bson:"preferred_types" validate:"omitempty,dive"`
	PriceRange         PriceRange          `json:"price_range" bson:"price_range"`
	PreferredAmenities []AmenityImportance `json:"preferred_amenities" bson:"preferred_amenities" validate:"omitempty,dive"`
	RatingPreference   float64             `json:"rating_preference" bson:"rating_preference" validate:"min=0,max=5"`
	TravelStyle        string              `json:"travel_style" bson:"travel_style" validate:"omitempty,oneof=business leisure family romantic adventure budget luxury"`
	GroupSize          GroupSize           `json:"group_size" bson:"group_size"`
	BookingPatterns    BookingPatterns     `json:"booking_patterns" bson:"booking_patterns"`
	CreatedAt          time.Time           `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt          time.Time           `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// PreferenceOverride is the explicit "set preferences" path: provided
// fields replace stored ones instead of merging.
type PreferenceOverride struct {
	PreferredCities    *[]CityWeight        `json:"preferred_cities,omitempty" validate:"omitempty,dive"`
	PreferredTypes     *[]TypeWeight        `json:"preferred_types,omitempty" validate:"omitempty,dive"`
	PriceRange         *PriceRange          `json:"price_range,omitempty"`
	PreferredAmenities *[]AmenityImportance `json:"preferred_amenities,omitempty" validate:"omitempty,dive"`
	RatingPreference   *float64             `json:"rating_preference,omitempty" validate:"omitempty,min=0,max=5"`
	TravelStyle        string               `json:"travel_style,omitempty" validate:"omitempty,oneof=business leisure family romantic adventure budget luxury"`
	GroupSize          *GroupSize           `json:"group_size,omitempty"`
	BookingPatterns    *BookingPatterns     `json:"booking_patterns,omitempty"`
}

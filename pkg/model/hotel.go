package model

import "time"

type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" bson:"longitude" validate:"min=-180,max=180"`
}

// Hotel is owned by the catalog. The reservation core reads hotels but
// never mutates them; rooms lists change only through room CRUD.
type Hotel struct {
	ID              string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string      `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Type            string      `json:"type" bson:"type" validate:"required,oneof=hotel apartment resort villa cabin"`
	City            string      `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Address         string      `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Coordinates     Coordinates `json:"coordinates" bson:"coordinates"`
	Distance        string      `json:"distance,omitempty" bson:"distance,omitempty" validate:"omitempty,max=50"`
	Photos          []string    `json:"photos,omitempty" bson:"photos,omitempty"`
	Title           string      `json:"title" bson:"title" validate:"required,min=2,max=140"`
	Description     string      `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	Stars           int         `json:"stars" bson:"stars" validate:"min=0,max=5"`
	Rating          float64     `json:"rating" bson:"rating" validate:"min=0,max=5"`
	ReviewCount     int         `json:"review_count" bson:"review_count" validate:"min=0"`
	PopularityScore float64     `json:"popularity_score" bson:"popularity_score" validate:"min=0"`
	Amenities       []string    `json:"amenities,omitempty" bson:"amenities,omitempty"`
	CheapestPrice   float64     `json:"cheapest_price" bson:"cheapest_price" validate:"min=0"`
	Featured        bool        `json:"featured" bson:"featured"`
	Rooms           []string    `json:"rooms,omitempty" bson:"rooms,omitempty" validate:"omitempty,dive,mongodb"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type HotelUpdate struct {
	Name            string       `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Type            string       `json:"type,omitempty" validate:"omitempty,oneof=hotel apartment resort villa cabin"`
	City            string       `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	Address         string       `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	Distance        string       `json:"distance,omitempty" validate:"omitempty,max=50"`
	Photos          *[]string    `json:"photos,omitempty"`
	Title           string       `json:"title,omitempty" validate:"omitempty,min=2,max=140"`
	Description     string       `json:"description,omitempty" validate:"omitempty,min=2,max=2000"`
	Stars           *int         `json:"stars,omitempty" validate:"omitempty,min=0,max=5"`
	Rating          *float64     `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	ReviewCount     *int         `json:"review_count,omitempty" validate:"omitempty,min=0"`
	PopularityScore *float64     `json:"popularity_score,omitempty" validate:"omitempty,min=0"`
	Amenities       *[]string    `json:"amenities,omitempty"`
	CheapestPrice   *float64     `json:"cheapest_price,omitempty" validate:"omitempty,min=0"`
	Featured        *bool        `json:"featured,omitempty"`
}

// HotelSearch carries the hard constraints of a city search. Price bounds
// are optional; zero pointers mean unbounded.
type HotelSearch struct {
	City     string   `json:"city" validate:"required,min=2,max=50"`
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,min=0"`
	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,min=0"`
}

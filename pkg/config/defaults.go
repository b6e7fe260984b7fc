package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "stayfinder"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultKafkaBrokers          = "localhost:9092"
	DefaultKafkaInteractionTopic = "user-interactions"

	DefaultOracleURL     = "http://localhost:5000"
	DefaultOracleTimeout = 5 * time.Second

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultTrendingCacheTTL = 5 * time.Minute

	DefaultPaginationLimit = 100
)

// Booking lifecycle statuses.
const (
	Pending   = "pending"
	Confirmed = "confirmed"
	Completed = "completed"
	Cancelled = "cancelled"
	NoShow    = "no-show"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Interaction types.
const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionSearch   = "search"
	InteractionBookmark = "bookmark"
	InteractionShare    = "share"
	InteractionBooking  = "booking"
)

// Preference profile defaults and accumulation constants. The city weight
// increment and the price envelope bounds are behavioral contracts of the
// accumulator, not tunables.
const (
	CityWeightIncrement    = 0.1
	InitialCityWeight      = 1.0
	DefaultPriceRangeMin   = 0
	DefaultPriceRangeMax   = 10000
	DefaultRatingPref      = 3
	DefaultTravelStyle     = "leisure"
	DefaultGroupAdults     = 2
	DefaultGroupChildren   = 0
	DefaultAdvanceBookDays = 30
	DefaultAvgStayDuration = 2
)

package main

import (
	interactionsrepo "stayfinder/internal/interactions/repository"
	interactionssvc "stayfinder/internal/interactions/service"
	interactionsval "stayfinder/internal/interactions/validator"
	"stayfinder/internal/reservations/handler"
	"stayfinder/internal/reservations/repository"
	"stayfinder/internal/reservations/service"
	"stayfinder/internal/reservations/validator"
	"stayfinder/pkg/app"
	"stayfinder/pkg/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	reservationService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ReservationService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Committed reservations also show up in the interaction history.
	recorder := interactionssvc.NewInteractionService(
		interactionsrepo.NewInteractionRepository(db),
		interactionsrepo.NewPreferenceRepository(db),
		interactionsval.NewInteractionValidator(),
		nil,
		cfg.Log,
	)

	reservationService := service.NewReservationService(
		availabilityRepo,
		bookingRepo,
		validator.NewReservationValidator(),
		recorder,
		cfg.Log,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

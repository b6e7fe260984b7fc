package main

import (
	"stayfinder/internal/interactions/handler"
	"stayfinder/internal/interactions/repository"
	"stayfinder/internal/interactions/service"
	"stayfinder/internal/interactions/validator"
	"stayfinder/pkg/app"
	"stayfinder/pkg/config"
	"stayfinder/pkg/kafka"
)

const ServiceName = "interactions"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Interactions service")
	interactionService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewInteractionHandler(interactionService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.InteractionService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	var publisher service.EventPublisher
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaInteractionTopic)
	if err != nil {
		// The service keeps working without the event stream; downstream
		// scoring just goes stale until the brokers come back.
		cfg.Log.Warn("kafka producer unavailable, interaction events will not be published", "error", err)
	} else {
		publisher = producer
	}

	interactionService := service.NewInteractionService(
		repository.NewInteractionRepository(db),
		repository.NewPreferenceRepository(db),
		validator.NewInteractionValidator(),
		publisher,
		cfg.Log,
	)

	cfg.Log.Info("Interaction service initialized",
		"database", cfg.MongoDatabaseName,
		"kafka_topic", cfg.KafkaInteractionTopic,
	)
	return interactionService
}

package main

import (
	catalogrepo "stayfinder/internal/catalog/repository"
	interactionsrepo "stayfinder/internal/interactions/repository"
	"stayfinder/internal/recommendations/handler"
	"stayfinder/internal/recommendations/oracle"
	"stayfinder/internal/recommendations/service"
	"stayfinder/pkg/app"
	"stayfinder/pkg/cache"
	"stayfinder/pkg/config"
)

const ServiceName = "recommendations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Recommendations service")
	recommendationService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewRecommendationHandler(recommendationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.RecommendationService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	recommendationService := service.NewRecommendationService(
		oracle.New(cfg.OracleURL, cfg.OracleTimeout),
		catalogrepo.NewHotelRepository(db),
		interactionsrepo.NewInteractionRepository(db),
		interactionsrepo.NewPreferenceRepository(db),
		cache.New(cfg.Client.Redis),
		cfg.TrendingCacheTTL,
		cfg.Log,
	)

	cfg.Log.Info("Recommendation service initialized",
		"database", cfg.MongoDatabaseName,
		"oracle_url", cfg.OracleURL,
	)
	return recommendationService
}

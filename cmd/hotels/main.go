package main

import (
	"stayfinder/internal/catalog/handler"
	"stayfinder/internal/catalog/repository"
	"stayfinder/internal/catalog/service"
	"stayfinder/internal/catalog/validator"
	"stayfinder/pkg/app"
	"stayfinder/pkg/config"
	dbmongo "stayfinder/pkg/db/mongo"
)

const ServiceName = "hotels"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Hotels service")
	catalogService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCatalogHandler(catalogService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CatalogService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	catalogService := service.NewCatalogService(
		hotelRepo,
		roomRepo,
		validator.NewCatalogValidator(),
		dbmongo.NewTransactionManager(cfg.Client.Mongo),
		cfg.Log,
	)

	cfg.Log.Info("Catalog service initialized", "database", cfg.MongoDatabaseName)
	return catalogService
}

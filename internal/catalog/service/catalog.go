package service

import (
	"context"
	"errors"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	caterrors "stayfinder/internal/catalog/errors"
	"stayfinder/internal/catalog/repository"
	"stayfinder/internal/catalog/validator"
	"stayfinder/pkg/config"
	dbmongo "stayfinder/pkg/db/mongo"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
	"stayfinder/pkg/sanitizer"
)

type CatalogService interface {
	CreateHotel(ctx context.Context, hotel *model.Hotel) (*model.Hotel, error)
	GetHotel(ctx context.Context, id string) (*model.Hotel, error)
	ListHotels(ctx context.Context, limit int, offset int64) ([]model.Hotel, int64, error)
	SearchHotels(ctx context.Context, search *model.HotelSearch, limit int) ([]model.Hotel, error)
	GetFeaturedHotels(ctx context.Context, limit int) ([]model.Hotel, error)
	CountByCities(ctx context.Context, cities []string) (map[string]int64, error)
	CountByType(ctx context.Context) (map[string]int64, error)
	UpdateHotel(ctx context.Context, id string, update *model.HotelUpdate) error
	DeleteHotel(ctx context.Context, id string) error

	CreateRoom(ctx context.Context, hotelID string, room *model.Room) (*model.Room, error)
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	GetHotelRooms(ctx context.Context, hotelID string) ([]model.Room, error)
	UpdateRoom(ctx context.Context, id string, update *model.RoomUpdate) error
	DeleteRoom(ctx context.Context, hotelID, roomID string) error
}

type catalogService struct {
	hotels    repository.HotelRepository
	rooms     repository.RoomRepository
	validator *validator.CatalogValidator
	tx        dbmongo.TransactionManager
	log       *logger.Logger
}

// NewCatalogService wires the catalog. tx may be nil; room creation then
// falls back to a compensating delete instead of a transaction.
func NewCatalogService(
	hotels repository.HotelRepository,
	rooms repository.RoomRepository,
	v *validator.CatalogValidator,
	tx dbmongo.TransactionManager,
	log *logger.Logger,
) CatalogService {
	return &catalogService{
		hotels:    hotels,
		rooms:     rooms,
		validator: v,
		tx:        tx,
		log:       log,
	}
}

func (s *catalogService) CreateHotel(ctx context.Context, hotel *model.Hotel) (*model.Hotel, error) {
	hotel.City = sanitizer.SanitizeCity(hotel.City)
	hotel.Name = sanitizer.TrimAndNormalize(hotel.Name)
	hotel.Type = sanitizer.SanitizeIdentifierLabel(hotel.Type)
	hotel.Description = sanitizer.SanitizeFreeText(hotel.Description)
	hotel.Amenities = sanitizer.SanitizeSlice(hotel.Amenities, sanitizer.TrimAndNormalize)

	if err := s.validator.ValidateHotel(hotel); err != nil {
		return nil, err
	}

	id, err := s.hotels.Create(ctx, hotel)
	if err != nil {
		return nil, apperrors.Internal("failed to create hotel", err)
	}
	hotel.ID = id

	s.log.Info("hotel created", "hotel_id", id, "city", hotel.City)
	return hotel, nil
}

func (s *catalogService) GetHotel(ctx context.Context, id string) (*model.Hotel, error) {
	hotel, err := s.hotels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, caterrors.ErrHotelNotFound) {
			return nil, apperrors.NotFoundWithID("hotel", id)
		}
		return nil, apperrors.Internal("failed to load hotel", err)
	}
	return hotel, nil
}

func (s *catalogService) ListHotels(ctx context.Context, limit int, offset int64) ([]model.Hotel, int64, error) {
	hotels, err := s.hotels.FindAll(ctx, config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset))
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list hotels", err)
	}
	total, err := s.hotels.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count hotels", err)
	}
	return hotels, total, nil
}

func (s *catalogService) SearchHotels(ctx context.Context, search *model.HotelSearch, limit int) ([]model.Hotel, error) {
	search.City = sanitizer.SanitizeCity(search.City)
	if err := s.validator.ValidateHotelSearch(search); err != nil {
		return nil, err
	}

	hotels, err := s.hotels.Search(ctx, search, config.NormalizePaginationLimit(limit))
	if err != nil {
		return nil, apperrors.Internal("failed to search hotels", err)
	}
	return hotels, nil
}

func (s *catalogService) GetFeaturedHotels(ctx context.Context, limit int) ([]model.Hotel, error) {
	hotels, err := s.hotels.FindFeatured(ctx, config.NormalizePaginationLimit(limit))
	if err != nil {
		return nil, apperrors.Internal("failed to load featured hotels", err)
	}
	return hotels, nil
}

func (s *catalogService) CountByCities(ctx context.Context, cities []string) (map[string]int64, error) {
	cleaned := make([]string, 0, len(cities))
	for _, city := range cities {
		if c := sanitizer.SanitizeCity(city); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	if len(cleaned) == 0 {
		return nil, apperrors.InvalidInput("at least one city is required")
	}

	counts, err := s.hotels.CountByCities(ctx, cleaned)
	if err != nil {
		return nil, apperrors.Internal("failed to count hotels by city", err)
	}
	return counts, nil
}

func (s *catalogService) CountByType(ctx context.Context) (map[string]int64, error) {
	counts, err := s.hotels.CountByType(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to count hotels by type", err)
	}
	return counts, nil
}

func (s *catalogService) UpdateHotel(ctx context.Context, id string, update *model.HotelUpdate) error {
	if update.City != "" {
		update.City = sanitizer.SanitizeCity(update.City)
	}
	if update.Type != "" {
		update.Type = sanitizer.SanitizeIdentifierLabel(update.Type)
	}
	if err := s.validator.ValidateHotelUpdate(update); err != nil {
		return err
	}

	if err := s.hotels.Update(ctx, id, update); err != nil {
		if errors.Is(err, caterrors.ErrHotelNotFound) {
			return apperrors.NotFoundWithID("hotel", id)
		}
		return apperrors.Internal("failed to update hotel", err)
	}
	return nil
}

func (s *catalogService) DeleteHotel(ctx context.Context, id string) error {
	if err := s.hotels.Delete(ctx, id); err != nil {
		if errors.Is(err, caterrors.ErrHotelNotFound) {
			return apperrors.NotFoundWithID("hotel", id)
		}
		return apperrors.Internal("failed to delete hotel", err)
	}
	return nil
}

// CreateRoom inserts the room, attaches its id to the hotel and refreshes
// the hotel's cheapest price. A failed attach deletes the orphan room.
func (s *catalogService) CreateRoom(ctx context.Context, hotelID string, room *model.Room) (*model.Room, error) {
	room.HotelID = hotelID
	room.Title = sanitizer.TrimAndNormalize(room.Title)
	room.Description = sanitizer.SanitizeFreeText(room.Description)

	if err := s.validator.ValidateRoom(room); err != nil {
		return nil, err
	}

	if _, err := s.hotels.FindByID(ctx, hotelID); err != nil {
		if errors.Is(err, caterrors.ErrHotelNotFound) {
			return nil, apperrors.NotFoundWithID("hotel", hotelID)
		}
		return nil, apperrors.Internal("failed to load hotel", err)
	}

	if err := s.insertAndAttach(ctx, hotelID, room); err != nil {
		return nil, err
	}

	s.refreshCheapestPrice(ctx, hotelID)
	s.log.Info("room created", "room_id", room.ID, "hotel_id", hotelID)
	return room, nil
}

func (s *catalogService) insertAndAttach(ctx context.Context, hotelID string, room *model.Room) error {
	if s.tx != nil {
		err := s.tx.ExecuteTransaction(ctx, func(sessCtx mongodriver.SessionContext) error {
			id, err := s.rooms.Create(sessCtx, room)
			if err != nil {
				return err
			}
			return s.hotels.PushRoom(sessCtx, hotelID, id)
		})
		if err != nil {
			return apperrors.Internal("failed to create room", err)
		}
		return nil
	}

	id, err := s.rooms.Create(ctx, room)
	if err != nil {
		return apperrors.Internal("failed to create room", err)
	}
	if err := s.hotels.PushRoom(ctx, hotelID, id); err != nil {
		if derr := s.rooms.Delete(ctx, id); derr != nil {
			s.log.Error("failed to delete orphan room", "room_id", id, "error", derr)
		}
		return apperrors.Internal("failed to attach room to hotel", err)
	}
	return nil
}

func (s *catalogService) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, caterrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", id)
		}
		return nil, apperrors.Internal("failed to load room", err)
	}
	return room, nil
}

func (s *catalogService) GetHotelRooms(ctx context.Context, hotelID string) ([]model.Room, error) {
	rooms, err := s.rooms.FindByHotel(ctx, hotelID)
	if err != nil {
		return nil, apperrors.Internal("failed to load hotel rooms", err)
	}
	return rooms, nil
}

func (s *catalogService) UpdateRoom(ctx context.Context, id string, update *model.RoomUpdate) error {
	if err := s.validator.ValidateRoomUpdate(update); err != nil {
		return err
	}

	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, caterrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("room", id)
		}
		return apperrors.Internal("failed to load room", err)
	}

	if err := s.rooms.Update(ctx, id, update); err != nil {
		if errors.Is(err, caterrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("room", id)
		}
		return apperrors.Internal("failed to update room", err)
	}

	if update.Price != nil {
		s.refreshCheapestPrice(ctx, room.HotelID)
	}
	return nil
}

func (s *catalogService) DeleteRoom(ctx context.Context, hotelID, roomID string) error {
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		if errors.Is(err, caterrors.ErrRoomNotFound) {
			return apperrors.NotFoundWithID("room", roomID)
		}
		return apperrors.Internal("failed to delete room", err)
	}

	if err := s.hotels.PullRoom(ctx, hotelID, roomID); err != nil && !errors.Is(err, caterrors.ErrHotelNotFound) {
		s.log.Error("failed to detach room from hotel", "room_id", roomID, "hotel_id", hotelID, "error", err)
	}

	s.refreshCheapestPrice(ctx, hotelID)
	return nil
}

// refreshCheapestPrice is best-effort denormalization; search results
// tolerate a briefly stale cheapest price.
func (s *catalogService) refreshCheapestPrice(ctx context.Context, hotelID string) {
	minPrice, err := s.rooms.MinPriceByHotel(ctx, hotelID)
	if err != nil {
		s.log.Warn("failed to recompute cheapest price", "hotel_id", hotelID, "error", err)
		return
	}
	if err := s.hotels.Update(ctx, hotelID, &model.HotelUpdate{CheapestPrice: &minPrice}); err != nil {
		s.log.Warn("failed to store cheapest price", "hotel_id", hotelID, "error", err)
	}
}

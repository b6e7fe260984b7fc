package service

import (
	"context"
	"errors"
	"io"
	"testing"

	caterrors "stayfinder/internal/catalog/errors"
	"stayfinder/internal/catalog/validator"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

const (
	testHotelID = "64a7b2c8e4b0f5a3d2c1b0aa"
	testRoomID  = "64a7b2c8e4b0f5a3d2c1b0ab"
)

type memHotelRepo struct {
	hotels   map[string]*model.Hotel
	pushed   []string
	pulled   []string
	updates  []*model.HotelUpdate
	pushErr  error
	countErr error
}

func newMemHotelRepo(hotels ...*model.Hotel) *memHotelRepo {
	m := map[string]*model.Hotel{}
	for _, h := range hotels {
		m[h.ID] = h
	}
	return &memHotelRepo{hotels: m}
}

func (r *memHotelRepo) Create(_ context.Context, hotel *model.Hotel) (string, error) {
	hotel.ID = testHotelID
	r.hotels[hotel.ID] = hotel
	return hotel.ID, nil
}

func (r *memHotelRepo) FindByID(_ context.Context, id string) (*model.Hotel, error) {
	h, ok := r.hotels[id]
	if !ok {
		return nil, caterrors.ErrHotelNotFound
	}
	return h, nil
}

func (r *memHotelRepo) FindByIDs(context.Context, []string) ([]model.Hotel, error) { return nil, nil }

func (r *memHotelRepo) FindAll(context.Context, int, int64) ([]model.Hotel, error) { return nil, nil }

func (r *memHotelRepo) Count(context.Context) (int64, error) { return 0, r.countErr }

func (r *memHotelRepo) Search(context.Context, *model.HotelSearch, int) ([]model.Hotel, error) {
	return nil, nil
}

func (r *memHotelRepo) FindFeatured(context.Context, int) ([]model.Hotel, error) { return nil, nil }

func (r *memHotelRepo) FindByCity(context.Context, string, int) ([]model.Hotel, error) {
	return nil, nil
}

func (r *memHotelRepo) CountByCities(context.Context, []string) (map[string]int64, error) {
	return nil, nil
}

func (r *memHotelRepo) CountByType(context.Context) (map[string]int64, error) { return nil, nil }

func (r *memHotelRepo) Update(_ context.Context, id string, update *model.HotelUpdate) error {
	if _, ok := r.hotels[id]; !ok {
		return caterrors.ErrHotelNotFound
	}
	r.updates = append(r.updates, update)
	return nil
}

func (r *memHotelRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.hotels[id]; !ok {
		return caterrors.ErrHotelNotFound
	}
	delete(r.hotels, id)
	return nil
}

func (r *memHotelRepo) PushRoom(_ context.Context, hotelID, roomID string) error {
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushed = append(r.pushed, roomID)
	return nil
}

func (r *memHotelRepo) PullRoom(_ context.Context, hotelID, roomID string) error {
	r.pulled = append(r.pulled, roomID)
	return nil
}

type memRoomRepo struct {
	rooms    map[string]*model.Room
	deleted  []string
	minPrice float64
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: map[string]*model.Room{}}
}

func (r *memRoomRepo) Create(_ context.Context, room *model.Room) (string, error) {
	room.ID = testRoomID
	r.rooms[room.ID] = room
	return room.ID, nil
}

func (r *memRoomRepo) FindByID(_ context.Context, id string) (*model.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, caterrors.ErrRoomNotFound
	}
	return room, nil
}


func (r *memRoomRepo) FindByHotel(context.Context, string) ([]model.Room, error) { return nil, nil }

func (r *memRoomRepo) MinPriceByHotel(context.Context, string) (float64, error) {
	return r.minPrice, nil
}

func (r *memRoomRepo) Update(_ context.Context, id string, _ *model.RoomUpdate) error {
	if _, ok := r.rooms[id]; !ok {
		return caterrors.ErrRoomNotFound
	}
	return nil
}

func (r *memRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.rooms[id]; !ok {
		return caterrors.ErrRoomNotFound
	}
	delete(r.rooms, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func testService(hotels *memHotelRepo, rooms *memRoomRepo) CatalogService {
	log := logger.New(logger.Config{Output: io.Discard})
	return NewCatalogService(hotels, rooms, validator.NewCatalogValidator(), nil, log)
}

func testHotel() *model.Hotel {
	return &model.Hotel{
		ID:          testHotelID,
		Name:        "Harbor View",
		Type:        "hotel",
		City:        "Lisbon",
		Address:     "Rua do Porto 1",
		Title:       "Harbor View Lisbon",
		Description: "Quiet rooms above the harbor.",
	}
}

func testRoomPayload() *model.Room {
	return &model.Room{
		Title:       "Deluxe Double",
		Price:       120,
		MaxPeople:   2,
		Description: "Double room with balcony.",
		RoomNumbers: []model.RoomNumber{{Number: 101}, {Number: 102}},
	}
}

func TestCreateHotelSanitizesCity(t *testing.T) {
	hotels := newMemHotelRepo()
	svc := testService(hotels, newMemRoomRepo())

	hotel := testHotel()
	hotel.ID = ""
	hotel.City = "  Lisbon!! "
	created, err := svc.CreateHotel(context.Background(), hotel)
	if err != nil {
		t.Fatalf("CreateHotel() error = %v", err)
	}
	if created.City != "Lisbon" {
		t.Errorf("city = %q, want sanitized %q", created.City, "Lisbon")
	}
}

func TestCreateHotelRejectsBadType(t *testing.T) {
	svc := testService(newMemHotelRepo(), newMemRoomRepo())

	hotel := testHotel()
	hotel.ID = ""
	hotel.Type = "houseboat"
	_, err := svc.CreateHotel(context.Background(), hotel)
	if err == nil {
		t.Fatal("CreateHotel() accepted unknown type")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeValidation)
	}
}

func TestCreateRoomAttachesAndRefreshesPrice(t *testing.T) {
	hotels := newMemHotelRepo(testHotel())
	rooms := newMemRoomRepo()
	rooms.minPrice = 120
	svc := testService(hotels, rooms)

	created, err := svc.CreateRoom(context.Background(), testHotelID, testRoomPayload())
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	if len(hotels.pushed) != 1 || hotels.pushed[0] != created.ID {
		t.Errorf("pushed rooms = %v, want [%s]", hotels.pushed, created.ID)
	}
	if len(hotels.updates) != 1 || hotels.updates[0].CheapestPrice == nil || *hotels.updates[0].CheapestPrice != 120 {
		t.Errorf("cheapest price not refreshed: %+v", hotels.updates)
	}
	for _, rn := range created.RoomNumbers {
		if rn.ID == "" {
			t.Error("room number missing assigned id")
		}
		if rn.UnavailableDates == nil {
			t.Error("room number missing empty unavailable set")
		}
	}
}

func TestCreateRoomDeletesOrphanOnAttachFailure(t *testing.T) {
	hotels := newMemHotelRepo(testHotel())
	hotels.pushErr = errors.New("network error")
	rooms := newMemRoomRepo()
	svc := testService(hotels, rooms)

	_, err := svc.CreateRoom(context.Background(), testHotelID, testRoomPayload())
	if err == nil {
		t.Fatal("CreateRoom() succeeded despite attach failure")
	}
	if len(rooms.deleted) != 1 {
		t.Errorf("orphan rooms deleted = %d, want 1", len(rooms.deleted))
	}
}

func TestCreateRoomRejectsDuplicateNumbers(t *testing.T) {
	svc := testService(newMemHotelRepo(testHotel()), newMemRoomRepo())

	room := testRoomPayload()
	room.RoomNumbers = []model.RoomNumber{{Number: 101}, {Number: 101}}
	_, err := svc.CreateRoom(context.Background(), testHotelID, room)
	if err == nil {
		t.Fatal("CreateRoom() accepted duplicate room numbers")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeInvalidInput)
	}
}

func TestDeleteRoomDetachesFromHotel(t *testing.T) {
	hotels := newMemHotelRepo(testHotel())
	rooms := newMemRoomRepo()
	svc := testService(hotels, rooms)

	created, err := svc.CreateRoom(context.Background(), testHotelID, testRoomPayload())
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	if err := svc.DeleteRoom(context.Background(), testHotelID, created.ID); err != nil {
		t.Fatalf("DeleteRoom() error = %v", err)
	}
	if len(hotels.pulled) != 1 || hotels.pulled[0] != created.ID {
		t.Errorf("pulled rooms = %v, want [%s]", hotels.pulled, created.ID)
	}
}

func TestSearchHotelsRejectsInvertedBounds(t *testing.T) {
	svc := testService(newMemHotelRepo(), newMemRoomRepo())

	minPrice, maxPrice := 200.0, 100.0
	_, err := svc.SearchHotels(context.Background(), &model.HotelSearch{
		City:     "Lisbon",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}, 10)
	if err == nil {
		t.Fatal("SearchHotels() accepted min > max")
	}
}

package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	reserrors "stayfinder/internal/reservations/errors"
	"stayfinder/internal/reservations/validator"
	"stayfinder/pkg/config"
	"stayfinder/pkg/dates"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

const (
	testUserID  = "64a7b2c8e4b0f5a3d2c1b0a9"
	testHotelID = "64a7b2c8e4b0f5a3d2c1b0aa"
	testRoomID  = "64a7b2c8e4b0f5a3d2c1b0ab"
	testRN1     = "64a7b2c8e4b0f5a3d2c1b0ac"
	testRN2     = "64a7b2c8e4b0f5a3d2c1b0ad"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memAvailabilityRepo mimics the conditional-update semantics of the mongo
// repository: the check and the append happen under one lock, so overlapping
// concurrent reserves cannot both succeed.
type memAvailabilityRepo struct {
	mu       sync.Mutex
	room     *model.Room
	failOn   map[string]error
	releases int
}

func newMemAvailabilityRepo(room *model.Room) *memAvailabilityRepo {
	return &memAvailabilityRepo{room: room, failOn: map[string]error{}}
}

func (r *memAvailabilityRepo) FindRoom(_ context.Context, roomID string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.room == nil || r.room.ID != roomID {
		return nil, reserrors.ErrRoomNotFound
	}
	copied := *r.room
	copied.RoomNumbers = make([]model.RoomNumber, len(r.room.RoomNumbers))
	for i, rn := range r.room.RoomNumbers {
		copied.RoomNumbers[i] = rn
		copied.RoomNumbers[i].UnavailableDates = append([]time.Time(nil), rn.UnavailableDates...)
	}
	return &copied, nil
}

func (r *memAvailabilityRepo) Reserve(_ context.Context, roomID, roomNumberID string, ds []time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failOn[roomNumberID]; ok {
		return err
	}
	if r.room == nil || r.room.ID != roomID {
		return reserrors.ErrRoomNumberNotFound
	}
	for i := range r.room.RoomNumbers {
		rn := &r.room.RoomNumbers[i]
		if rn.ID != roomNumberID {
			continue
		}
		if _, taken := dates.Intersects(ds, rn.UnavailableDates); taken {
			return reserrors.ErrDatesTaken
		}
		rn.UnavailableDates = append(rn.UnavailableDates, ds...)
		return nil
	}
	return reserrors.ErrRoomNumberNotFound
}

func (r *memAvailabilityRepo) Release(_ context.Context, roomID, roomNumberID string, ds []time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases++
	for i := range r.room.RoomNumbers {
		rn := &r.room.RoomNumbers[i]
		if rn.ID != roomNumberID {
			continue
		}
		kept := rn.UnavailableDates[:0]
		for _, d := range rn.UnavailableDates {
			if _, drop := dates.Intersects([]time.Time{d}, ds); !drop {
				kept = append(kept, d)
			}
		}
		rn.UnavailableDates = kept
		return nil
	}
	return reserrors.ErrRoomNumberNotFound
}

func (r *memAvailabilityRepo) unavailable(roomNumberID string) []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rn := range r.room.RoomNumbers {
		if rn.ID == roomNumberID {
			return append([]time.Time(nil), rn.UnavailableDates...)
		}
	}
	return nil
}

type mockBookingRepo struct {
	mu           sync.Mutex
	created      []*model.Booking
	createErr    error
	findByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
	updateFunc   func(ctx context.Context, id string, update *model.BookingStatusUpdate) error
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, booking)
	return "64a7b2c8e4b0f5a3d2c1b0ff", nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reserrors.ErrBookingNotFound
}

func (m *mockBookingRepo) FindByUser(context.Context, string, string, int) ([]model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) FindAll(context.Context, int, int64) ([]model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) Count(context.Context) (int64, error) { return 0, nil }

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return nil
}


func (m *mockBookingRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func testRoom() *model.Room {
	return &model.Room{
		ID:      testRoomID,
		HotelID: testHotelID,
		Title:   "Deluxe Double",
		Price:   120,
		RoomNumbers: []model.RoomNumber{
			{ID: testRN1, Number: 101},
			{ID: testRN2, Number: 102},
		},
	}
}

func testService(avail *memAvailabilityRepo, bookings *mockBookingRepo) ReservationService {
	log := logger.New(logger.Config{Output: io.Discard})
	return NewReservationService(avail, bookings, validator.NewReservationValidator(), nil, log)
}

func request(roomNumberIDs []string, checkIn, checkOut time.Time) *model.ReservationRequest {
	return &model.ReservationRequest{
		UserID:        testUserID,
		HotelID:       testHotelID,
		RoomID:        testRoomID,
		RoomNumberIDs: roomNumberIDs,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        model.Guests{Adults: 2},
	}
}

func TestReserveBlocksNightsNotCheckoutDay(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{}
	svc := testService(avail, bookings)

	booking, err := svc.Reserve(context.Background(), request([]string{testRN1}, day(2026, 6, 10), day(2026, 6, 12)))
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if booking.BookingStatus != config.Pending {
		t.Errorf("BookingStatus = %q, want %q", booking.BookingStatus, config.Pending)
	}
	if booking.TotalAmount != 240 {
		t.Errorf("TotalAmount = %v, want 240 (2 nights x 120)", booking.TotalAmount)
	}

	blocked := avail.unavailable(testRN1)
	want := []time.Time{day(2026, 6, 10), day(2026, 6, 11)}
	if len(blocked) != len(want) {
		t.Fatalf("unavailable dates = %v, want %v", blocked, want)
	}
	for i, d := range want {
		if !blocked[i].Equal(d) {
			t.Errorf("unavailable[%d] = %v, want %v", i, blocked[i], d)
		}
	}
}

func TestReserveAllowsBackToBackStays(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{}
	svc := testService(avail, bookings)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, request([]string{testRN1}, day(2026, 6, 10), day(2026, 6, 12))); err != nil {
		t.Fatalf("first Reserve() error = %v", err)
	}
	if _, err := svc.Reserve(ctx, request([]string{testRN1}, day(2026, 6, 12), day(2026, 6, 14))); err != nil {
		t.Fatalf("back-to-back Reserve() error = %v", err)
	}
	if bookings.count() != 2 {
		t.Errorf("bookings created = %d, want 2", bookings.count())
	}
}

func TestReserveRejectsOverlappingStay(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{}
	svc := testService(avail, bookings)
	ctx := context.Background()

	if _, err := svc.Reserve(ctx, request([]string{testRN1}, day(2026, 6, 10), day(2026, 6, 12))); err != nil {
		t.Fatalf("first Reserve() error = %v", err)
	}

	_, err := svc.Reserve(ctx, request([]string{testRN1}, day(2026, 6, 11), day(2026, 6, 13)))
	if err == nil {
		t.Fatal("Reserve() with overlapping night succeeded, want conflict")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeRoomUnavailable {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeRoomUnavailable)
	}
	if bookings.count() != 1 {
		t.Errorf("bookings created = %d, want 1", bookings.count())
	}
}

func TestReserveConcurrentSingleWinner(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{}
	svc := testService(avail, bookings)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), request([]string{testRN1}, day(2026, 7, 1), day(2026, 7, 3)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeRoomUnavailable {
			t.Errorf("unexpected error code %q: %v", appErr.Code, err)
		}
		conflicts++
	}
	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if bookings.count() != 1 {
		t.Errorf("bookings created = %d, want 1", bookings.count())
	}
	if got := len(avail.unavailable(testRN1)); got != 2 {
		t.Errorf("unavailable dates = %d, want 2", got)
	}
}

func TestReservePartialConflictRollsBack(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	avail.failOn[testRN2] = reserrors.ErrDatesTaken
	bookings := &mockBookingRepo{}
	svc := testService(avail, bookings)

	_, err := svc.Reserve(context.Background(), request([]string{testRN1, testRN2}, day(2026, 6, 10), day(2026, 6, 12)))
	if err == nil {
		t.Fatal("Reserve() succeeded, want partial conflict")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodePartialReservation {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodePartialReservation)
	}
	if got := len(avail.unavailable(testRN1)); got != 0 {
		t.Errorf("room %s still has %d blocked dates after rollback", testRN1, got)
	}
	if bookings.count() != 0 {
		t.Errorf("bookings created = %d, want 0", bookings.count())
	}
}

func TestReserveRollsBackWhenBookingWriteFails(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{createErr: errors.New("write concern error")}
	svc := testService(avail, bookings)

	_, err := svc.Reserve(context.Background(), request([]string{testRN1}, day(2026, 6, 10), day(2026, 6, 12)))
	if err == nil {
		t.Fatal("Reserve() succeeded, want internal error")
	}
	if got := len(avail.unavailable(testRN1)); got != 0 {
		t.Errorf("room %s still has %d blocked dates after rollback", testRN1, got)
	}
}

func TestReserveSameDayStayRejected(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	svc := testService(avail, &mockBookingRepo{})

	// Check-out later the same calendar day: passes field validation but
	// contains zero nights.
	in := time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC)
	out := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	_, err := svc.Reserve(context.Background(), request([]string{testRN1}, in, out))
	if err == nil {
		t.Fatal("Reserve() succeeded for zero-night stay")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidRange {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeInvalidRange)
	}
}

func TestReserveUnknownRoomNumber(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	svc := testService(avail, &mockBookingRepo{})

	_, err := svc.Reserve(context.Background(), request([]string{"64a7b2c8e4b0f5a3d2c1b0ee"}, day(2026, 6, 10), day(2026, 6, 12)))
	if err == nil {
		t.Fatal("Reserve() succeeded for unknown room number")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{
		findByIDFunc: func(context.Context, string) (*model.Booking, error) {
			return &model.Booking{
				ID:            "64a7b2c8e4b0f5a3d2c1b0ff",
				BookingStatus: config.Pending,
			}, nil
		},
	}
	svc := testService(avail, bookings)

	err := svc.UpdateStatus(context.Background(), "64a7b2c8e4b0f5a3d2c1b0ff", &model.BookingStatusUpdate{
		BookingStatus: config.Completed,
	})
	if err == nil {
		t.Fatal("UpdateStatus() pending->completed succeeded, want conflict")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("error code = %q, want %q", appErr.Code, apperrors.CodeConflict)
	}
}

func TestUpdateStatusCancellationReleasesDates(t *testing.T) {
	avail := newMemAvailabilityRepo(testRoom())
	bookings := &mockBookingRepo{}
	svc := testService(avail, bookings)
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, request([]string{testRN1}, day(2026, 6, 10), day(2026, 6, 12)))
	if err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}

	stored := *booking
	bookings.findByIDFunc = func(context.Context, string) (*model.Booking, error) {
		return &stored, nil
	}

	if err := svc.UpdateStatus(ctx, booking.ID, &model.BookingStatusUpdate{BookingStatus: config.Cancelled}); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got := len(avail.unavailable(testRN1)); got != 0 {
		t.Errorf("blocked dates after cancellation = %d, want 0", got)
	}
}

package service

import (
	"context"
	"errors"
	"time"

	reserrors "stayfinder/internal/reservations/errors"
	"stayfinder/internal/reservations/repository"
	"stayfinder/internal/reservations/validator"
	"stayfinder/pkg/config"
	"stayfinder/pkg/dates"
	apperrors "stayfinder/pkg/errors"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
	"stayfinder/pkg/observability"
)

const (
	outcomeCommitted        = "committed"
	outcomePrecheckConflict = "precheck_conflict"
	outcomeCommitConflict   = "commit_conflict"
	outcomeRolledBack       = "rolled_back"
)

// InteractionRecorder receives a best-effort booking interaction after a
// successful commit. Failures are logged, never surfaced.
type InteractionRecorder interface {
	Record(ctx context.Context, interaction *model.UserInteraction) error
}

type ReservationService interface {
	Reserve(ctx context.Context, req *model.ReservationRequest) (*model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	GetUserBookings(ctx context.Context, userID, status string, limit int) ([]model.Booking, error)
	ListBookings(ctx context.Context, limit int, offset int64) ([]model.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error
}

type reservationService struct {
	availability repository.AvailabilityRepository
	bookings     repository.BookingRepository
	validator    *validator.ReservationValidator
	recorder     InteractionRecorder
	log          *logger.Logger
}

func NewReservationService(
	availability repository.AvailabilityRepository,
	bookings repository.BookingRepository,
	v *validator.ReservationValidator,
	recorder InteractionRecorder,
	log *logger.Logger,
) ReservationService {
	return &reservationService{
		availability: availability,
		bookings:     bookings,
		validator:    v,
		recorder:     recorder,
		log:          log,
	}
}

// Reserve commits a multi-room reservation batch all-or-nothing: every
// requested room number gets the stay's nights appended to its unavailable
// set, or none do and no booking document is written. Each per-room append
// is atomic; a conflict mid-batch triggers a compensating release of the
// room numbers already reserved.
func (s *reservationService) Reserve(ctx context.Context, req *model.ReservationRequest) (*model.Booking, error) {
	if err := s.validator.ValidateReservation(req); err != nil {
		return nil, err
	}

	nights, err := dates.Nights(req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, apperrors.InvalidRange("check-out date must be after check-in date")
	}

	room, err := s.availability.FindRoom(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, reserrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("room", req.RoomID)
		}
		return nil, apperrors.Internal("failed to load room", err)
	}

	byID := make(map[string]*model.RoomNumber, len(room.RoomNumbers))
	for i := range room.RoomNumbers {
		byID[room.RoomNumbers[i].ID] = &room.RoomNumbers[i]
	}

	// Pre-check on the snapshot. Catches most conflicts before any write;
	// the conditional update below is still the source of truth.
	for _, rnID := range req.RoomNumberIDs {
		rn, ok := byID[rnID]
		if !ok {
			return nil, apperrors.NotFoundWithID("room number", rnID)
		}
		if day, taken := dates.Intersects(nights, rn.UnavailableDates); taken {
			observability.ObserveReservation(outcomePrecheckConflict)
			return nil, apperrors.RoomUnavailable(rnID, map[string]any{
				"conflicting_date": day.Format(time.DateOnly),
			})
		}
	}

	reserved := make([]string, 0, len(req.RoomNumberIDs))
	for _, rnID := range req.RoomNumberIDs {
		if err := s.availability.Reserve(ctx, req.RoomID, rnID, nights); err != nil {
			observability.ObserveReservation(outcomeCommitConflict)
			s.rollback(ctx, req.RoomID, reserved, nights)
			if errors.Is(err, reserrors.ErrDatesTaken) {
				if len(reserved) > 0 {
					return nil, apperrors.PartialReservation(rnID)
				}
				return nil, apperrors.RoomUnavailable(rnID, nil)
			}
			if errors.Is(err, reserrors.ErrRoomNumberNotFound) {
				return nil, apperrors.NotFoundWithID("room number", rnID)
			}
			return nil, apperrors.Internal("failed to reserve dates", err)
		}
		reserved = append(reserved, rnID)
	}

	booking := &model.Booking{
		UserID:        req.UserID,
		HotelID:       req.HotelID,
		RoomID:        req.RoomID,
		RoomNumberIDs: req.RoomNumberIDs,
		CheckInDate:   dates.Day(req.CheckInDate),
		CheckOutDate:  dates.Day(req.CheckOutDate),
		Guests:        req.Guests,
		TotalAmount:   room.Price * float64(len(req.RoomNumberIDs)) * float64(len(nights)),
		BookingStatus: config.Pending,
		PaymentStatus: config.PaymentPending,
	}

	id, err := s.bookings.Create(ctx, booking)
	if err != nil {
		// Dates must not stay blocked without a booking behind them.
		s.rollback(ctx, req.RoomID, reserved, nights)
		return nil, apperrors.Internal("failed to create booking", err)
	}
	booking.ID = id

	observability.ObserveReservation(outcomeCommitted)
	s.recordBookingInteraction(ctx, booking)

	s.log.Info("reservation committed",
		"booking_id", booking.ID,
		"room_id", req.RoomID,
		"room_numbers", len(req.RoomNumberIDs),
		"nights", len(nights),
	)
	return booking, nil
}

func (s *reservationService) rollback(ctx context.Context, roomID string, reserved []string, nights []time.Time) {
	for _, rnID := range reserved {
		if err := s.availability.Release(ctx, roomID, rnID, nights); err != nil {
			s.log.Error("failed to release dates during rollback",
				"room_id", roomID,
				"room_number_id", rnID,
				"error", err,
			)
			continue
		}
		observability.ObserveReservation(outcomeRolledBack)
	}
}

func (s *reservationService) recordBookingInteraction(ctx context.Context, booking *model.Booking) {
	if s.recorder == nil {
		return
	}
	interaction := &model.UserInteraction{
		UserID:          booking.UserID,
		HotelID:         booking.HotelID,
		InteractionType: config.InteractionBooking,
	}
	if err := s.recorder.Record(ctx, interaction); err != nil {
		s.log.Warn("failed to record booking interaction",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *reservationService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrBookingNotFound) {
			return nil, apperrors.NotFoundWithID("booking", id)
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return booking, nil
}

func (s *reservationService) GetUserBookings(ctx context.Context, userID, status string, limit int) ([]model.Booking, error) {
	bookings, err := s.bookings.FindByUser(ctx, userID, status, config.NormalizePaginationLimit(limit))
	if err != nil {
		return nil, apperrors.Internal("failed to load user bookings", err)
	}
	return bookings, nil
}

func (s *reservationService) ListBookings(ctx context.Context, limit int, offset int64) ([]model.Booking, int64, error) {
	bookings, err := s.bookings.FindAll(ctx, config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset))
	if err != nil {
		return nil, 0, apperrors.Internal("failed to list bookings", err)
	}
	total, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count bookings", err)
	}
	return bookings, total, nil
}

// allowedTransitions restricts booking status changes to the forward paths
// of the booking lifecycle.
var allowedTransitions = map[string][]string{
	config.Pending:   {config.Confirmed, config.Cancelled},
	config.Confirmed: {config.Completed, config.Cancelled, config.NoShow},
}

func transitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *reservationService) UpdateStatus(ctx context.Context, id string, update *model.BookingStatusUpdate) error {
	if err := s.validator.ValidateStatusUpdate(update); err != nil {
		return err
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reserrors.ErrBookingNotFound) {
			return apperrors.NotFoundWithID("booking", id)
		}
		return apperrors.Internal("failed to load booking", err)
	}

	if update.BookingStatus != "" && update.BookingStatus != booking.BookingStatus {
		if !transitionAllowed(booking.BookingStatus, update.BookingStatus) {
			return apperrors.Conflict("booking cannot move from " + booking.BookingStatus + " to " + update.BookingStatus)
		}
	}

	if err := s.bookings.UpdateStatus(ctx, id, update); err != nil {
		if errors.Is(err, reserrors.ErrBookingNotFound) {
			return apperrors.NotFoundWithID("booking", id)
		}
		return apperrors.Internal("failed to update booking status", err)
	}

	// A cancelled stay frees its nights for other guests.
	if update.BookingStatus == config.Cancelled && booking.BookingStatus != config.Cancelled {
		s.releaseBookingDates(ctx, booking)
	}
	return nil
}

func (s *reservationService) releaseBookingDates(ctx context.Context, booking *model.Booking) {
	nights, err := dates.Nights(booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		s.log.Error("stored booking has invalid date range", "booking_id", booking.ID, "error", err)
		return
	}
	for _, rnID := range booking.RoomNumberIDs {
		if err := s.availability.Release(ctx, booking.RoomID, rnID, nights); err != nil {
			s.log.Error("failed to release dates for cancelled booking",
				"booking_id", booking.ID,
				"room_number_id", rnID,
				"error", err,
			)
		}
	}
}

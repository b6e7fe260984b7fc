package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayfinder/internal/reservations/service"
	apperrors "stayfinder/pkg/errors"
	httputil "stayfinder/pkg/http"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

type BookingHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewBookingHandler(s service.ReservationService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{service: s, log: log}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Reserve)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/:id/status", h.UpdateStatus)
	router.GET("/api/v1/users/:userId/bookings", h.GetUserBookings)
}

func (h *BookingHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	booking, err := h.service.Reserve(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bookings, total, err := h.service.ListBookings(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bookings, err := h.service.GetUserBookings(
		r.Context(),
		ps.ByName("userId"),
		r.URL.Query().Get("status"),
		limit,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), &update); err != nil {
		h.writeError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("request failed", "code", appErr.Code, "error", appErr.Error())
	}
	if werr := httputil.WriteError(w, err); werr != nil {
		h.log.Error("failed to write error response", "error", werr)
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"stayfinder/internal/catalog/service"
	apperrors "stayfinder/pkg/errors"
	httputil "stayfinder/pkg/http"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(s service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: s, log: log}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/hotels", h.CreateHotel)
	router.GET("/api/v1/hotels", h.ListHotels)
	router.GET("/api/v1/hotels/:id", h.GetHotel)
	router.PATCH("/api/v1/hotels/:id", h.UpdateHotel)
	router.DELETE("/api/v1/hotels/:id", h.DeleteHotel)

	// Static search/aggregate paths live outside /hotels to keep the
	// router's wildcard tree conflict-free.
	router.GET("/api/v1/search/hotels", h.SearchHotels)
	router.GET("/api/v1/featured/hotels", h.FeaturedHotels)
	router.GET("/api/v1/counts/hotels-by-city", h.CountByCity)
	router.GET("/api/v1/counts/hotels-by-type", h.CountByType)

	router.POST("/api/v1/hotels/:id/rooms", h.CreateRoom)
	router.GET("/api/v1/hotels/:id/rooms", h.GetHotelRooms)
	router.DELETE("/api/v1/hotels/:id/rooms/:roomId", h.DeleteRoom)
	router.GET("/api/v1/rooms/:id", h.GetRoom)
	router.PATCH("/api/v1/rooms/:id", h.UpdateRoom)
}

func (h *CatalogHandler) CreateHotel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hotel model.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.CreateHotel(r.Context(), &hotel)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) ListHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	hotels, total, err := h.service.ListHotels(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, hotels, total, limit, offset); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) SearchHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bounds, err := extractPriceBounds(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	search := model.HotelSearch{
		City:     r.URL.Query().Get("city"),
		MinPrice: bounds.min,
		MaxPrice: bounds.max,
	}

	hotels, err := h.service.SearchHotels(r.Context(), &search, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, hotels); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) FeaturedHotels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	hotels, err := h.service.GetFeaturedHotels(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, hotels); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) CountByCity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cities := strings.Split(r.URL.Query().Get("cities"), ",")

	counts, err := h.service.CountByCities(r.Context(), cities)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, counts); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) CountByType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	counts, err := h.service.CountByType(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, counts); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) GetHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotel, err := h.service.GetHotel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, hotel); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) UpdateHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.HotelUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := h.service.UpdateHotel(r.Context(), ps.ByName("id"), &update); err != nil {
		h.writeError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) DeleteHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteHotel(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) CreateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var room model.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	created, err := h.service.CreateRoom(r.Context(), ps.ByName("id"), &room)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) GetHotelRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rooms, err := h.service.GetHotelRooms(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) GetRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.GetRoom(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *CatalogHandler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	if err := h.service.UpdateRoom(r.Context(), ps.ByName("id"), &update); err != nil {
		h.writeError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CatalogHandler) DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteRoom(r.Context(), ps.ByName("id"), ps.ByName("roomId")); err != nil {
		h.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

type priceBounds struct {
	min *float64
	max *float64
}

func extractPriceBounds(r *http.Request) (priceBounds, error) {
	var bounds priceBounds
	query := r.URL.Query()

	parse := func(key string) (*float64, error) {
		s := query.Get(key)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
		}
		return &v, nil
	}

	min, err := parse("min_price")
	if err != nil {
		return bounds, err
	}
	max, err := parse("max_price")
	if err != nil {
		return bounds, err
	}
	bounds.min, bounds.max = min, max
	return bounds, nil
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("request failed", "code", appErr.Code, "error", appErr.Error())
	}
	if werr := httputil.WriteError(w, err); werr != nil {
		h.log.Error("failed to write error response", "error", werr)
	}
}

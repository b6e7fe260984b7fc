package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"stayfinder/internal/recommendations/service"
	apperrors "stayfinder/pkg/errors"
	httputil "stayfinder/pkg/http"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

type RecommendationHandler struct {
	service service.RecommendationService
	log     *logger.Logger
}

func NewRecommendationHandler(s service.RecommendationService, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{service: s, log: log}
}

func (h *RecommendationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/recommendations/home", h.HomePage)
	router.GET("/api/v1/recommendations/trending", h.Trending)
	router.GET("/api/v1/recommendations/search", h.EnhancedSearch)
	router.GET("/api/v1/recommendations/users/:userId", h.Personalized)
	router.GET("/api/v1/recommendations/users/:userId/profile", h.UserProfile)
	router.GET("/api/v1/recommendations/similar/:hotelId", h.Similar)
	router.POST("/api/v1/admin/retrain", h.Retrain)
}

func (h *RecommendationHandler) HomePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	page, err := h.service.HomePage(r.Context(), r.URL.Query().Get("user_id"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, page); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) Trending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ranked, err := h.service.Trending(r.Context(), r.URL.Query().Get("city"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, ranked); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) EnhancedSearch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	query := r.URL.Query()
	search := model.HotelSearch{City: query.Get("city")}
	if s := query.Get("min_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("invalid min_price parameter: "+s))
			return
		}
		search.MinPrice = &v
	}
	if s := query.Get("max_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("invalid max_price parameter: "+s))
			return
		}
		search.MaxPrice = &v
	}

	ranked, err := h.service.EnhancedSearch(r.Context(), &search, query.Get("user_id"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, ranked); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) Personalized(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ranked, err := h.service.Personalized(r.Context(), ps.ByName("userId"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, ranked); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) UserProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile, err := h.service.UserProfile(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) Similar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	ranked, err := h.service.Similar(r.Context(), ps.ByName("hotelId"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, ranked); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) Retrain(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.Retrain(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	if err := httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "retraining"}); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *RecommendationHandler) writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("request failed", "code", appErr.Code, "error", appErr.Error())
	}
	if werr := httputil.WriteError(w, err); werr != nil {
		h.log.Error("failed to write error response", "error", werr)
	}
}

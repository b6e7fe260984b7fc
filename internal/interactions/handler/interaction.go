package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"stayfinder/internal/interactions/service"
	apperrors "stayfinder/pkg/errors"
	httputil "stayfinder/pkg/http"
	"stayfinder/pkg/logger"
	"stayfinder/pkg/model"
)

type InteractionHandler struct {
	service service.InteractionService
	log     *logger.Logger
}

func NewInteractionHandler(s service.InteractionService, log *logger.Logger) *InteractionHandler {
	return &InteractionHandler{service: s, log: log}
}

func (h *InteractionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/interactions", h.Track)
	router.GET("/api/v1/users/:userId/interactions", h.GetUserInteractions)
	router.GET("/api/v1/users/:userId/preferences", h.GetPreferences)
	router.PUT("/api/v1/users/:userId/preferences", h.SetPreferences)
}

func (h *InteractionHandler) Track(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var interaction model.UserInteraction
	if err := json.NewDecoder(r.Body).Decode(&interaction); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	tracked, err := h.service.Track(r.Context(), &interaction)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, tracked); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *InteractionHandler) GetUserInteractions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, _, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	days := 0
	if s := r.URL.Query().Get("days"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			h.writeError(w, apperrors.InvalidInput("invalid days parameter: "+s))
			return
		}
		days = v
	}

	interactions, err := h.service.GetUserInteractions(
		r.Context(),
		ps.ByName("userId"),
		r.URL.Query().Get("type"),
		days,
		limit,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, interactions); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *InteractionHandler) GetPreferences(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	pref, err := h.service.GetPreferences(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, pref); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *InteractionHandler) SetPreferences(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var override model.PreferenceOverride
	if err := json.NewDecoder(r.Body).Decode(&override); err != nil {
		h.writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	pref, err := h.service.SetPreferences(r.Context(), ps.ByName("userId"), &override)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, pref); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *InteractionHandler) writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error("request failed", "code", appErr.Code, "error", appErr.Error())
	}
	if werr := httputil.WriteError(w, err); werr != nil {
		h.log.Error("failed to write error response", "error", werr)
	}
}

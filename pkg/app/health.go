package app

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "stayfinder/pkg/http"
	"stayfinder/pkg/logger"
)

type healthHandler struct {
	mongo *mongo.Client
	log   *logger.Logger
}

func (h *healthHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/health", h.live)
	router.HandlerFunc(http.MethodGet, "/ready", h.ready)
}

func (h *healthHandler) live(w http.ResponseWriter, _ *http.Request) {
	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"}); err != nil {
		h.log.Error("failed to write health response", "error", err)
	}
}

func (h *healthHandler) ready(w http.ResponseWriter, r *http.Request) {
	if h.mongo != nil {
		ctx, cancel := contextWithTimeout(r, 2*time.Second)
		defer cancel()
		if err := h.mongo.Ping(ctx, nil); err != nil {
			h.log.Warn("Readiness check failed: MongoDB unreachable", "error", err)
			if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"}); writeErr != nil {
				h.log.Error("failed to write readiness response", "error", writeErr)
			}
			return
		}
	}
	if err := httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"}); err != nil {
		h.log.Error("failed to write readiness response", "error", err)
	}
}

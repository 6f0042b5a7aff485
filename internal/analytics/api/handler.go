package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lume-api/internal/analytics"
	"lume-api/internal/logger"
	"lume-api/internal/utils"
)

type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// RegisterRoutes mounts the analytics endpoints on an authenticated
// router group.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/{id}/analytics", h.GetEventAnalytics)
}

func (h *Handler) GetEventAnalytics(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	result, err := h.Service.GetEventAnalytics(r.Context(), eventID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "analytics computed", result)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lume-api/internal/apierr"
	"lume-api/internal/auth"
	"lume-api/internal/events"
	"lume-api/internal/logger"
	"lume-api/internal/models"
	"lume-api/internal/utils"
)

type Handler struct {
	Service *events.Service
	Logger  *logger.Logger
}

func NewHandler(service *events.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// ListEvents is the public discovery listing: published events only.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	filter := models.EventFilter{
		Category: r.URL.Query().Get("category"),
		Featured: r.URL.Query().Get("featured") == "true",
		Status:   models.EventStatusPublished,
		Page:     p.Page,
		Limit:    p.Limit,
	}

	list, count, err := h.Service.ListEvents(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "events fetched", map[string]interface{}{
		"data":  list,
		"count": count,
	})
}

// GetEvent serves the public detail view. Unpublished events are
// only visible to their organizer or an admin.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	callerID, callerRole := "", ""
	if claims := auth.FromContext(r.Context()); claims != nil {
		callerID, callerRole = claims.UserID, claims.Role
	}

	event, err := h.Service.GetVisibleEvent(r.Context(), chi.URLParam(r, "id"), callerID, callerRole)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "event fetched", event)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	if claims == nil {
		utils.WriteError(w, apierr.ErrUnauthorized)
		return
	}

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	event, err := h.Service.CreateEvent(r.Context(), claims.UserID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("EVENT", fmt.Sprintf("Event %s created by organizer %s", event.ID, claims.UserID))
	utils.WriteSuccess(w, http.StatusCreated, "event created", event)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	if claims == nil {
		utils.WriteError(w, apierr.ErrUnauthorized)
		return
	}

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	event, err := h.Service.UpdateEvent(r.Context(), chi.URLParam(r, "id"), claims.UserID, claims.Role, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "event updated", event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	if claims == nil {
		utils.WriteError(w, apierr.ErrUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Service.DeleteEvent(r.Context(), id, claims.UserID, claims.Role); err != nil {
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("EVENT", fmt.Sprintf("Event %s deleted by %s", id, claims.UserID))
	utils.WriteSuccess(w, http.StatusOK, "event deleted", nil)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lume-api/internal/apierr"
	"lume-api/internal/events"
	"lume-api/internal/logger"
	"lume-api/internal/models"
	"lume-api/internal/users"
	"lume-api/internal/utils"
)

// Handler serves the /api/admin moderation surface.
type Handler struct {
	Users  *users.DB
	Events *events.Service
	Logger *logger.Logger
}

func NewHandler(usersDB *users.DB, eventsSvc *events.Service, log *logger.Logger) *Handler {
	return &Handler{Users: usersDB, Events: eventsSvc, Logger: log}
}

// RegisterRoutes mounts the admin surface. Callers wrap this in the
// admin role guard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/users", h.ListUsers)
		r.Patch("/users/{id}", h.SetUserActive)
		r.Delete("/users/{id}", h.DeleteUser)

		r.Get("/organizers", h.ListOrganizers)
		r.Patch("/organizers/{id}", h.SetOrganizerVerified)

		r.Get("/events", h.ListEvents)
		r.Put("/events/{id}", h.UpdateEvent)
		r.Patch("/events/{id}/flags", h.SetEventFlags)
		r.Delete("/events/{id}", h.DeleteEvent)
		r.Post("/events/migrate-categories", h.MigrateCategories)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	list, count, err := h.Users.ListUsers(r.Context(), r.URL.Query().Get("role"), p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "users fetched", map[string]interface{}{
		"data":  list,
		"count": count,
	})
}

// SetUserActive suspends or reactivates an account.
func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		utils.WriteError(w, fmt.Errorf("%w: isActive is required", apierr.ErrValidation))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Users.SetActive(r.Context(), id, *req.IsActive); err != nil {
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("ADMIN", fmt.Sprintf("User %s active=%t", id, *req.IsActive))
	utils.WriteSuccess(w, http.StatusOK, "user updated", nil)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "user deleted", nil)
}

func (h *Handler) ListOrganizers(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	list, count, err := h.Users.ListUsers(r.Context(), models.RoleOrganizer, p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "organizers fetched", map[string]interface{}{
		"data":  list,
		"count": count,
	})
}

func (h *Handler) SetOrganizerVerified(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsVerified *bool `json:"isVerified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsVerified == nil {
		utils.WriteError(w, fmt.Errorf("%w: isVerified is required", apierr.ErrValidation))
		return
	}

	if err := h.Users.SetVerified(r.Context(), chi.URLParam(r, "id"), *req.IsVerified); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "organizer updated", nil)
}

// ListEvents shows every event regardless of status.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	filter := models.EventFilter{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
		Page:     p.Page,
		Limit:    p.Limit,
	}
	list, count, err := h.Events.ListEvents(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "events fetched", map[string]interface{}{
		"data":  list,
		"count": count,
	})
}

// SetEventFlags patches the display flags on an event.
func (h *Handler) SetEventFlags(w http.ResponseWriter, r *http.Request) {
	var req models.EventFlagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	event, err := h.Events.SetFlags(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "flags updated", event)
}

// UpdateEvent edits any event; admins bypass the ownership check.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	event, err := h.Events.UpdateEvent(r.Context(), chi.URLParam(r, "id"), "", models.RoleAdmin, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "event updated", event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Events.DeleteEvent(r.Context(), id, "", models.RoleAdmin); err != nil {
		utils.WriteError(w, err)
		return
	}
	h.Logger.Info("ADMIN", fmt.Sprintf("Event %s deleted", id))
	utils.WriteSuccess(w, http.StatusOK, "event deleted", nil)
}

// MigrateCategories runs the legacy category cleanup and reports the
// tally.
func (h *Handler) MigrateCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.Events.MigrateCategories(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("ADMIN", fmt.Sprintf("Category migration: %d scanned, %d migrated, %d failed",
		result.Scanned, result.Migrated, result.Failed))
	utils.WriteSuccess(w, http.StatusOK, "category migration complete", result)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lume-api/internal/apierr"
	"lume-api/internal/auth"
	"lume-api/internal/models"
	"lume-api/internal/rsvp"
	"lume-api/internal/utils"
)

type Handler struct {
	Service *rsvp.Service
}

func NewHandler(service *rsvp.Service) *Handler {
	return &Handler{Service: service}
}

// CreateRSVP handles POST /api/events/{id}/rsvp.
func (h *Handler) CreateRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	var req models.RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	created, err := h.Service.Create(r.Context(), eventID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "RSVP created", created)
}

// CheckIn handles PATCH /api/rsvps/{id}/check-in.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.RSVPCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}
	if req.CheckedInGuests == nil {
		utils.WriteError(w, fmt.Errorf("%w: checkedInGuests is required", apierr.ErrValidation))
		return
	}

	updated, err := h.Service.CheckIn(r.Context(), id, *req.CheckedInGuests)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "check-in updated", updated)
}

// ListRSVPs handles GET /api/rsvps with optional event filtering.
func (h *Handler) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	list, err := h.Service.List(r.Context(), r.URL.Query().Get("event"), "", p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "RSVPs fetched", list)
}

// ListEventRSVPs handles GET /api/events/{id}/rsvps.
func (h *Handler) ListEventRSVPs(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	list, err := h.Service.List(r.Context(), chi.URLParam(r, "id"), "", p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "RSVPs fetched", list)
}

// ListUserRSVPs handles GET /api/rsvps/user: RSVPs for the
// authenticated user's email.
func (h *Handler) ListUserRSVPs(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	if claims == nil {
		utils.WriteError(w, apierr.ErrUnauthorized)
		return
	}

	p := utils.ParsePagination(r)
	list, err := h.Service.List(r.Context(), "", claims.Email, p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "RSVPs fetched", list)
}

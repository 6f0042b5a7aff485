package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lume-api/internal/apierr"
	"lume-api/internal/contact"
	"lume-api/internal/models"
	"lume-api/internal/utils"
)

type Handler struct {
	Service *contact.Service
}

func NewHandler(service *contact.Service) *Handler {
	return &Handler{Service: service}
}

// Create handles the public POST /api/contact form.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	msg, err := h.Service.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "message received", msg)
}

// List handles GET /api/contact for admins.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	msgs, count, err := h.Service.List(r.Context(), r.URL.Query().Get("status"), p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "messages fetched", map[string]interface{}{
		"data":  msgs,
		"count": count,
	})
}

// SetStatus handles PATCH /api/contact/{id}.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.ContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	msg, err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "status updated", msg)
}

// Respond handles POST /api/contact/{id}/respond.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var req models.ContactRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	msg, err := h.Service.Respond(r.Context(), chi.URLParam(r, "id"), req.Response)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "response sent", msg)
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lume-api/internal/apierr"
	"lume-api/internal/models"
	"lume-api/internal/tickets"
	"lume-api/internal/utils"
)

type Handler struct {
	Service *tickets.Service
}

func NewHandler(service *tickets.Service) *Handler {
	return &Handler{Service: service}
}

// Purchase handles POST /api/events/{id}/tickets.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	ticket, err := h.Service.Purchase(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, "ticket reserved, pending confirmation", ticket)
}

// Confirm handles POST /api/tickets/{id}/confirm.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Service.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "ticket confirmed", ticket)
}

// CheckInByID handles PATCH /api/tickets/{id}/check-in.
func (h *Handler) CheckInByID(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Service.CheckInByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "ticket checked in", ticket)
}

// CheckInByCode handles PATCH /api/tickets/check-in-by-code.
func (h *Handler) CheckInByCode(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInByCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	ticket, err := h.Service.CheckInByCode(r.Context(), req.TicketCode, req.EventID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "ticket checked in", ticket)
}

// CheckInByQR handles POST /api/tickets/check-in-by-qr.
func (h *Handler) CheckInByQR(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInByQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}
	if req.EncryptedQR == "" {
		utils.WriteError(w, fmt.Errorf("%w: encrypted_qr is required", apierr.ErrValidation))
		return
	}

	ticket, err := h.Service.CheckInByQR(r.Context(), req.EncryptedQR)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "ticket checked in", ticket)
}

// GetTicket handles GET /api/tickets/{id}.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "ticket fetched", ticket)
}

// ListEventTickets handles GET /api/events/{id}/tickets.
func (h *Handler) ListEventTickets(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePagination(r)
	list, count, err := h.Service.ListByEvent(r.Context(), chi.URLParam(r, "id"), p.Limit, p.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, "tickets fetched", map[string]interface{}{
		"data":  list,
		"count": count,
	})
}

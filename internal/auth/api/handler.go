package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lume-api/internal/apierr"
	"lume-api/internal/auth"
	"lume-api/internal/config"
	"lume-api/internal/logger"
	"lume-api/internal/models"
	"lume-api/internal/users"
	"lume-api/internal/utils"

	"github.com/google/uuid"
)

type Handler struct {
	Users    *users.DB
	Denylist *auth.Denylist
	Config   config.AuthConfig
	Logger   *logger.Logger
}

func NewHandler(usersDB *users.DB, denylist *auth.Denylist, cfg config.AuthConfig, log *logger.Logger) *Handler {
	return &Handler{Users: usersDB, Denylist: denylist, Config: cfg, Logger: log}
}

// Register handles POST /api/auth/register. Accounts default to the
// attendee role; organizer accounts start unverified.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.FullName == "" || len(req.Password) < 8 {
		utils.WriteError(w, fmt.Errorf("%w: email, full_name and a password of at least 8 characters are required", apierr.ErrValidation))
		return
	}

	role := req.Role
	switch role {
	case "":
		role = models.RoleAttendee
	case models.RoleAttendee, models.RoleOrganizer:
	default:
		// Admin accounts are provisioned out of band.
		utils.WriteError(w, fmt.Errorf("%w: invalid role %q", apierr.ErrValidation, role))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := h.Users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			utils.WriteError(w, fmt.Errorf("%w: email already registered", apierr.ErrValidation))
			return
		}
		utils.WriteError(w, err)
		return
	}

	h.Logger.Info("AUTH", fmt.Sprintf("Registered %s account %s", role, user.ID))
	utils.WriteSuccess(w, http.StatusCreated, "account created", user)
}

// Login handles POST /api/auth/login and returns a signed token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, fmt.Errorf("%w: invalid request body", apierr.ErrValidation))
		return
	}

	user, err := h.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown email and wrong password.
		utils.WriteError(w, apierr.ErrUnauthorized)
		return
	}
	if !user.IsActive {
		utils.WriteError(w, apierr.ErrForbidden)
		return
	}

	token, err := auth.IssueToken(h.Config.JWTSecret, user.ID, user.Email, user.Role, h.Config.TokenTTL)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "logged in", models.LoginResponse{Token: token, User: *user})
}

// Logout handles POST /api/auth/logout: the presented token is
// denylisted for its remaining lifetime.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.FromContext(r.Context())
	if claims == nil {
		utils.WriteError(w, apierr.ErrUnauthorized)
		return
	}

	if h.Denylist != nil && claims.ExpiresAt != nil {
		if err := h.Denylist.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			h.Logger.Warn("AUTH", fmt.Sprintf("failed to denylist token %s: %v", claims.ID, err))
		}
	}
	utils.WriteSuccess(w, http.StatusOK, "logged out", nil)
}

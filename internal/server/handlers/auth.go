package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	authservice "credential-service/backend/internal/auth/service"
	"credential-service/backend/internal/security"
	"credential-service/backend/internal/server/middleware"
	"credential-service/backend/internal/user/domain"
	userservice "credential-service/backend/internal/user/service"
)

type registerRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// tokenResponse is the register/login payload: the bundle fields at the top
// level with the user embedded, so token-consuming clients read a flat shape.
type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toTokenResponse(u *domain.User, bundle *security.Bundle) tokenResponse {
	return tokenResponse{
		AccessToken: bundle.AccessToken,
		TokenType:   bundle.TokenType,
		ExpiresIn:   bundle.ExpiresIn,
		User:        toUserResponse(u),
	}
}

// AuthHandler serves the /auth endpoints over the session façade.
type AuthHandler struct {
	sessions *authservice.Service
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAuthHandler(sessions *authservice.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	u, bundle, err := h.sessions.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		middleware.RecordAuthAttempt("register", false)
		switch {
		case errors.Is(err, userservice.ErrEmailAlreadyRegistered):
			writeErr(w, http.StatusConflict, "email already registered")
		case errors.Is(err, userservice.ErrInvalidInput):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("register failed")
			writeErr(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	middleware.RecordAuthAttempt("register", true)
	h.logger.Info().Str("user_id", u.ID).Msg("user registered")
	writeJSON(w, http.StatusCreated, toTokenResponse(u, bundle))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErr(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	u, bundle, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			writeErr(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		writeErr(w, http.StatusInternalServerError, "internal server error")
		return
	}

	middleware.RecordAuthAttempt("login", true)
	h.logger.Info().Str("user_id", u.ID).Msg("user logged in")
	writeJSON(w, http.StatusOK, toTokenResponse(u, bundle))
}

// Profile handles GET /auth/profile. The auth middleware has already
// resolved the bearer token into a user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeErr(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

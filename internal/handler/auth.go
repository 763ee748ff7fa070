package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskforge/taskforge/internal/auth"
	"github.com/taskforge/taskforge/internal/handler/dto"
	"github.com/taskforge/taskforge/internal/metrics"
	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
)

// UserStore defines the persistence operations the auth endpoints need.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	store   UserStore
	tokens  *auth.TokenService
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store UserStore, tokens *auth.TokenService, logger *slog.Logger, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthHandler{
		store:   store,
		tokens:  tokens,
		logger:  logger,
		metrics: recorder,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if fields := dto.Validate(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already in use")
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		h.internalError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalError(w, err)
		return
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		// Concurrent registration can still hit the unique index.
		if errors.Is(err, repository.ErrEmailExists) {
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already in use")
			return
		}
		h.internalError(w, err)
		return
	}

	h.metrics.IncUserRegistered()
	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message: "User created successfully",
		User:    dto.ToUserResponse(user),
	})
}

// GenerateToken handles POST /auth/generateToken.
//
// Unknown email and wrong password produce the same response so the
// endpoint cannot be used to probe which emails are registered.
func (h *AuthHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if fields := dto.Validate(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.invalidCredentials(w)
			return
		}
		h.internalError(w, err)
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		h.invalidCredentials(w)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.metrics.IncLogin(metrics.LoginSuccess)
	h.logger.Info("token_issued", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *AuthHandler) invalidCredentials(w http.ResponseWriter) {
	h.metrics.IncLogin(metrics.LoginFailure)
	writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
}

func (h *AuthHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/database"
	logpkg "github.com/polyglotta/polyglotta-api/internal/logger"
	"github.com/polyglotta/polyglotta-api/internal/middleware"
	"github.com/polyglotta/polyglotta-api/internal/models"
	"github.com/polyglotta/polyglotta-api/internal/validation"
	"go.uber.org/zap"
)

// ProgressHandler handles language-progress requests. It is a pure consumer
// of the gate's trusted identity: it never inspects cookies or tokens.
type ProgressHandler struct {
	progressRepo database.ProgressRepositoryInterface
	logger       *zap.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressRepo database.ProgressRepositoryInterface, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{progressRepo: progressRepo, logger: logger}
}

// RegisterRoutes registers progress routes on the given router.
// The router should already have the /api/progress prefix.
func (h *ProgressHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetProgress).Methods("GET")
	r.HandleFunc("", h.RecordProgress).Methods("POST")
	r.HandleFunc("/all", h.ListProgress).Methods("GET")
}

// RecordProgressRequest represents a progress update
type RecordProgressRequest struct {
	Language          string           `json:"language" validate:"required,language_code"`
	Level             models.CEFRLevel `json:"level" validate:"required,cefr_level"`
	SessionsCompleted int              `json:"sessions_completed" validate:"min=0"`
	MinutesStudied    int              `json:"minutes_studied" validate:"min=0"`
}

// GetProgress returns the caller's progress for a single target language
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromRequest(r)
	if identity == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No identity attached to request")
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing required parameter: language")
		return
	}
	if !validation.IsLanguageCode(language) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid language code")
		return
	}

	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		h.logger.Error("invalid_user_id_in_trusted_headers",
			zap.String("user_id", logpkg.SanitizeString(identity.UserID, logpkg.MaxGeneralStringLength)),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	progress, err := h.progressRepo.GetByUserAndLanguage(r.Context(), userID, language)
	if errors.Is(err, sql.ErrNoRows) {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No progress recorded for language: "+language)
		return
	}
	if err != nil {
		h.logger.Error("failed_to_get_progress",
			zap.String("user_id", identity.UserID),
			zap.String("language", language),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

// ListProgress returns the caller's progress across all target languages
func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromRequest(r)
	if identity == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No identity attached to request")
		return
	}

	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	progress, err := h.progressRepo.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed_to_list_progress",
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

// RecordProgress upserts a progress record for the caller
func (h *ProgressHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromRequest(r)
	if identity == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No identity attached to request")
		return
	}

	var req RecordProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+err.Error())
		return
	}

	userID, err := uuid.Parse(identity.UserID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	progress := &models.Progress{
		UserID:            userID,
		Language:          req.Language,
		Level:             req.Level,
		SessionsCompleted: req.SessionsCompleted,
		MinutesStudied:    req.MinutesStudied,
		LastStudiedAt:     time.Now(),
	}

	if err := h.progressRepo.Upsert(r.Context(), progress); err != nil {
		h.logger.Error("failed_to_record_progress",
			zap.String("user_id", identity.UserID),
			zap.String("language", req.Language),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	respondJSON(w, http.StatusOK, progress)
}

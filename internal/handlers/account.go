package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/polyglotta/polyglotta-api/internal/middleware"
	"github.com/polyglotta/polyglotta-api/internal/validation"
	"go.uber.org/zap"
)

// AccountHandler serves the caller's own profile. Like every protected
// handler it consumes the gate's trusted identity only.
type AccountHandler struct {
	users  database.UserRepositoryInterface
	logger *zap.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(users database.UserRepositoryInterface, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{users: users, logger: logger}
}

// RegisterRoutes registers account routes on the given router.
// The router should already have the /api/account prefix.
func (h *AccountHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetAccount).Methods("GET")
	r.HandleFunc("", h.UpdateAccount).Methods("PUT")
}

// UpdateAccountRequest represents a profile update
type UpdateAccountRequest struct {
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	NativeLanguage  string   `json:"native_language" validate:"required,language_code"`
	TargetLanguages []string `json:"target_languages" validate:"omitempty,dive,language_code"`
}

// GetAccount returns the caller's profile
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed_to_get_account",
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateAccount updates the caller's profile fields
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromRequest(r)
	if identity == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "No identity attached to request")
		return
	}

	var req UpdateAccountRequest
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

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed_to_get_account",
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	user.Name = req.Name
	user.NativeLanguage = req.NativeLanguage
	user.TargetLanguages = req.TargetLanguages

	if err := h.users.Update(r.Context(), user); err != nil {
		h.logger.Error("failed_to_update_account",
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

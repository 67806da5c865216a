package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/database"
	"github.com/polyglotta/polyglotta-api/internal/middleware"
	"github.com/polyglotta/polyglotta-api/internal/queue"
	"github.com/polyglotta/polyglotta-api/internal/token"
	"go.uber.org/zap"
)

// TokenHandler issues signed tokens for clients that cannot hold a browser
// session. The caller's identity comes from the gate; the full claim set
// (language preferences) is loaded from the user store.
type TokenHandler struct {
	codec  *token.Codec
	users  database.UserRepositoryInterface
	events queue.EventQueue
	logger *zap.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(codec *token.Codec, users database.UserRepositoryInterface, events queue.EventQueue, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{codec: codec, users: users, events: events, logger: logger}
}

// RegisterRoutes registers token routes on the given router.
// The router should already have the /api/token prefix.
func (h *TokenHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.IssueToken).Methods("POST")
}

// TokenResponse carries an issued token
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken mints a signed token for the authenticated caller
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Error("failed_to_load_user_for_token",
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	tokenString, err := h.codec.Issue(user.Claims())
	if err != nil {
		h.logger.Error("failed_to_issue_token",
			zap.String("user_id", identity.UserID),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	// Advisory decode only to echo the expiry back to the client.
	claims, err := token.Decode(tokenString)
	if err != nil {
		h.logger.Error("failed_to_decode_issued_token", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	if h.events != nil {
		event := queue.NewEvent(queue.EventTokenIssued)
		event.UserID = identity.UserID
		event.Path = r.URL.Path
		if err := h.events.Publish(r.Context(), event); err != nil {
			h.logger.Warn("failed_to_publish_audit_event", zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, TokenResponse{
		Token:     tokenString,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt,
	})
}

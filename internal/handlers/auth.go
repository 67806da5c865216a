package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	logpkg "github.com/polyglotta/polyglotta-api/internal/logger"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/provider"
	"github.com/polyglotta/polyglotta-api/internal/queue"
	"github.com/polyglotta/polyglotta-api/internal/request"
	"github.com/polyglotta/polyglotta-api/internal/session"
	"github.com/polyglotta/polyglotta-api/internal/validation"
	"go.uber.org/zap"
)

// AuthHandler owns the session lifecycle: login, logout and session
// introspection. Its routes live under /api/auth, which the gate excludes
// from classification so the login handshake is always reachable.
type AuthHandler struct {
	identity     provider.Provider
	sessions     session.Store
	resolver     session.Resolver
	sessionTTL   time.Duration
	secureCookie bool
	events       queue.EventQueue
	logger       *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity provider.Provider, sessions session.Store, resolver session.Resolver, sessionTTL time.Duration, secureCookie bool, events queue.EventQueue, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity:     identity,
		sessions:     sessions,
		resolver:     resolver,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
		events:       events,
		logger:       logger,
	}
}

// RegisterRoutes registers auth routes on the given router.
// The router should already have the /api/auth prefix.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/session", h.GetSession).Methods("GET")
}

// Login verifies credentials against the identity provider and creates a
// server-side session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds provider.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := validation.Validate.Struct(&creds); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Email and password are required")
		return
	}

	user, err := h.identity.Authenticate(r.Context(), creds)
	if errors.Is(err, provider.ErrInvalidCredentials) {
		h.publishEvent(r, queue.EventLoginFailed, "")
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error("identity_provider_failure", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	sess := session.New(user.ID, h.sessionTTL)
	if err := h.sessions.Create(r.Context(), sess); err != nil {
		h.logger.Error("failed_to_create_session",
			zap.String("user_id", logpkg.SanitizeString(user.ID.String(), logpkg.MaxGeneralStringLength)),
			zap.Error(err),
		)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	session.SetCookie(w, sess.ID, sess.ExpiresAt, h.secureCookie)
	h.publishEvent(r, queue.EventLoginSucceeded, user.ID.String())

	respondJSON(w, http.StatusOK, user)
}

// Logout deletes the current session and clears the cookie. Logging out
// without a session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed_to_delete_session", zap.Error(err))
		}
	}

	session.ClearCookie(w, h.secureCookie)
	respondJSON(w, http.StatusOK, map[string]any{"logged_out": true})
}

// GetSession reports the current identity, or null for anonymous visitors.
// Anonymous is an ordinary outcome here, not a failure.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.resolver.Resolve(r.Context(), r)
	if err != nil {
		h.logger.Warn("session_resolution_failed", zap.Error(err))
		user = nil
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) publishEvent(r *http.Request, eventType queue.EventType, userID string) {
	if h.events == nil {
		return
	}
	event := queue.NewEvent(eventType)
	event.UserID = userID
	event.Path = r.URL.Path
	event.ClientIP = request.ClientIP(r)
	if err := h.events.Publish(r.Context(), event); err != nil {
		h.logger.Warn("failed_to_publish_audit_event", zap.Error(err))
	}
}

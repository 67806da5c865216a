package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"

	logpkg "github.com/polyglotta/polyglotta-api/internal/logger"
	"github.com/polyglotta/polyglotta-api/internal/session"
	"go.uber.org/zap"
)

// Gate creates the route gate middleware. Per request it classifies the path
// against the route table, resolves identity for protected paths, and either
// forwards the request with trusted identity headers attached or denies it.
//
// Denial semantics differ by path shape: API paths get a structured 401,
// page paths get a redirect to the login entry point carrying the original
// path as callbackUrl. Resolver faults are treated as "no identity", so the
// gate fails closed, never open.
//
// The gate is the sole authentication decision point: downstream handlers
// trust the attached identity unconditionally and never re-derive it.
func Gate(table *RouteTable, resolver session.Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The trusted headers are ours alone; a caller-supplied copy
			// must never survive past this point.
			stripIdentityHeaders(r.Header)

			path := r.URL.Path
			switch table.Classify(path) {
			case ClassExcluded, ClassPublic:
				next.ServeHTTP(w, r)
				return
			case ClassProtected:
			}

			user, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				logger.Warn("session_resolution_failed",
					zap.String("path", logpkg.SanitizePath(path)),
					zap.Error(err),
				)
				user = nil
			}

			if user == nil {
				deny(w, r, table, logger)
				return
			}

			r.Header.Set(HeaderUserID, user.ID.String())
			r.Header.Set(HeaderUserEmail, user.Email)
			r.Header.Set(HeaderUserName, user.Name)

			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, table *RouteTable, logger *zap.Logger) {
	path := r.URL.Path

	if IsAPIPath(path) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if err := json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"}); err != nil {
			logger.Error("failed_to_encode_gate_response", zap.Error(err))
		}
		return
	}

	query := url.Values{}
	query.Set("callbackUrl", path)
	http.Redirect(w, r, table.LoginPath+"?"+query.Encode(), http.StatusTemporaryRedirect)
}

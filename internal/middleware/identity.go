package middleware

import (
	"net/http"
)

// Trusted identity headers. Only the gate writes these: it strips any
// inbound copies before classification and sets them after a successful
// resolution, so downstream handlers may treat their presence as proof of
// authentication.
const (
	HeaderUserID    = "X-Auth-User-Id"
	HeaderUserEmail = "X-Auth-User-Email"
	HeaderUserName  = "X-Auth-User-Name"
)

// Identity is the minimal identity projection the gate attaches to a request
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// IdentityFromRequest reads the trusted identity headers from a request.
// It returns nil if any of the three fields is absent: a partial identity is
// no identity. It performs no validation of its own and is only safe to call
// downstream of the gate.
func IdentityFromRequest(r *http.Request) *Identity {
	return identityFromHeader(r.Header)
}

func identityFromHeader(h http.Header) *Identity {
	id := h.Get(HeaderUserID)
	email := h.Get(HeaderUserEmail)
	name := h.Get(HeaderUserName)

	if id == "" || email == "" || name == "" {
		return nil
	}

	return &Identity{UserID: id, Email: email, Name: name}
}

func stripIdentityHeaders(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserName)
}

package middleware

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Classification is the access class assigned to a request path
type Classification int

const (
	// ClassExcluded paths never enter the gate's state machine: the auth
	// provider's own routes (the login handshake must always complete),
	// static assets and infrastructure endpoints.
	ClassExcluded Classification = iota
	// ClassPublic paths are forwarded without any identity check
	ClassPublic
	// ClassProtected paths require a resolved identity
	ClassProtected
)

// RouteTable is the declarative route access policy. Rules are ordered:
// exclusions are checked before protected prefixes, so an auth-provider
// route stays reachable even when a broader protected prefix would match it.
// All matching is starts-with, so /progress/123 protects like /progress.
type RouteTable struct {
	Exclusions []string `yaml:"exclusions"`
	Protected  []string `yaml:"protected"`
	LoginPath  string   `yaml:"login_path"`
}

// DefaultRouteTable returns the compiled-in route policy.
func DefaultRouteTable() *RouteTable {
	return &RouteTable{
		Exclusions: []string{
			"/api/auth",
			"/assets/",
			"/images/",
			"/favicon.ico",
			"/healthz",
			"/version",
		},
		Protected: []string{
			"/progress",
			"/account",
			"/api/progress",
			"/api/token",
			"/api/account",
		},
		LoginPath: "/auth/login",
	}
}

// LoadRouteTable reads a route policy from a YAML file. Missing fields fall
// back to the defaults.
func LoadRouteTable(path string) (*RouteTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}

	table := DefaultRouteTable()
	if err := yaml.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}
	if table.LoginPath == "" {
		table.LoginPath = DefaultRouteTable().LoginPath
	}

	return table, nil
}

// Classify assigns an access class to a request path, first match wins.
func (t *RouteTable) Classify(path string) Classification {
	for _, prefix := range t.Exclusions {
		if strings.HasPrefix(path, prefix) {
			return ClassExcluded
		}
	}
	for _, prefix := range t.Protected {
		if strings.HasPrefix(path, prefix) {
			return ClassProtected
		}
	}
	return ClassPublic
}

// IsAPIPath reports whether a path gets structured-error failure semantics
// (API calls) instead of a login redirect (page navigation).
func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

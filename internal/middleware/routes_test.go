package middleware

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRouteTable_Classify(t *testing.T) {
	t.Parallel()

	table := DefaultRouteTable()

	tests := []struct {
		name string
		path string
		want Classification
	}{
		{name: "root is public", path: "/", want: ClassPublic},
		{name: "arbitrary page is public", path: "/about", want: ClassPublic},
		{name: "progress page is protected", path: "/progress", want: ClassProtected},
		{name: "prefix match protects subpaths", path: "/progress/123", want: ClassProtected},
		{name: "progress api is protected", path: "/api/progress", want: ClassProtected},
		{name: "token api is protected", path: "/api/token", want: ClassProtected},
		{name: "account is protected", path: "/account", want: ClassProtected},
		{name: "account api is protected", path: "/api/account", want: ClassProtected},
		{name: "auth provider routes are excluded", path: "/api/auth/login", want: ClassExcluded},
		{name: "auth callback is excluded", path: "/api/auth/callback", want: ClassExcluded},
		{name: "static assets are excluded", path: "/assets/logo.svg", want: ClassExcluded},
		{name: "images are excluded", path: "/images/flag-es.png", want: ClassExcluded},
		{name: "favicon is excluded", path: "/favicon.ico", want: ClassExcluded},
		{name: "health check is excluded", path: "/healthz", want: ClassExcluded},
		{name: "unprotected api path is public", path: "/api/languages", want: ClassPublic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := table.Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRouteTable_ExclusionsBeforeProtected(t *testing.T) {
	t.Parallel()

	// Even if a protected prefix would sweep up the auth provider's own
	// routes, the exclusion wins so the login handshake stays reachable.
	table := &RouteTable{
		Exclusions: []string{"/api/auth"},
		Protected:  []string{"/api/"},
		LoginPath:  "/auth/login",
	}

	if got := table.Classify("/api/auth/callback"); got != ClassExcluded {
		t.Errorf("Expected auth route to be excluded, got %v", got)
	}
	if got := table.Classify("/api/progress"); got != ClassProtected {
		t.Errorf("Expected api route to be protected, got %v", got)
	}
}

func TestIsAPIPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "/api/progress", want: true},
		{path: "/api/token", want: true},
		{path: "/progress", want: false},
		{path: "/apifake", want: false},
		{path: "/", want: false},
	}

	for _, tt := range tests {
		if got := IsAPIPath(tt.path); got != tt.want {
			t.Errorf("IsAPIPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadRouteTable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")

	content := []byte(`
exclusions:
  - /api/auth
  - /static/
protected:
  - /dashboard
  - /api/dashboard
login_path: /signin
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("Failed to write routes file: %v", err)
	}

	table, err := LoadRouteTable(path)
	if err != nil {
		t.Fatalf("LoadRouteTable failed: %v", err)
	}

	if got := table.Classify("/dashboard/words"); got != ClassProtected {
		t.Errorf("Expected /dashboard/words to be protected, got %v", got)
	}
	if got := table.Classify("/static/app.css"); got != ClassExcluded {
		t.Errorf("Expected /static/app.css to be excluded, got %v", got)
	}
	if table.LoginPath != "/signin" {
		t.Errorf("Expected login path /signin, got %q", table.LoginPath)
	}
}

func TestLoadRouteTable_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadRouteTable(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

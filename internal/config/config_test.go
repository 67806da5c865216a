package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/polyglotta")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("SessionTTL = %v, want 168h", cfg.SessionTTL)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected development fallback session secret")
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for development config")
	}
}

func TestLoadSessionSecretRules(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		secret      string
		wantErr     bool
	}{
		{
			name:        "development without secret uses fallback",
			environment: "development",
			secret:      "",
			wantErr:     false,
		},
		{
			name:        "production without secret",
			environment: "production",
			secret:      "",
			wantErr:     true,
		},
		{
			name:        "production with dev default",
			environment: "production",
			secret:      devSessionSecret,
			wantErr:     true,
		},
		{
			name:        "production with real secret",
			environment: "production",
			secret:      "a-real-secret-from-the-vault",
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/polyglotta")
			t.Setenv("ENVIRONMENT", tt.environment)
			t.Setenv("SESSION_SECRET", tt.secret)

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDurationOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/polyglotta")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("SESSION_TTL", "48h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", cfg.TokenTTL)
	}
	if cfg.SessionTTL != 48*time.Hour {
		t.Errorf("SessionTTL = %v, want 48h", cfg.SessionTTL)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/polyglotta")
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want default 24h", cfg.TokenTTL)
	}
}

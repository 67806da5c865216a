package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/models"
	"go.uber.org/zap"
)

func newAccountRouter(repo *fakeUserRepo) *mux.Router {
	h := NewAccountHandler(repo, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/account").Subrouter())
	return r
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	user := &models.User{
		ID:             uuid.New(),
		Email:          "ada@example.com",
		Name:           "Ada",
		NativeLanguage: "en",
	}
	repo := &fakeUserRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	router := newAccountRouter(repo)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/account", nil), user.ID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data *models.User `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data == nil || envelope.Data.Email != user.Email {
		t.Errorf("expected profile for %s, got %+v", user.Email, envelope.Data)
	}
}

func TestGetAccountWithoutIdentity(t *testing.T) {
	t.Parallel()

	router := newAccountRouter(&fakeUserRepo{users: map[uuid.UUID]*models.User{}})

	req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestUpdateAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid update",
			body:       `{"name": "Ada L.", "native_language": "en", "target_languages": ["fr", "ja"]}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing name",
			body:       `{"native_language": "en"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid native language",
			body:       `{"name": "Ada", "native_language": "english"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid target language",
			body:       `{"name": "Ada", "native_language": "en", "target_languages": ["fr", "nope!"]}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user := &models.User{
				ID:             uuid.New(),
				Email:          "ada@example.com",
				Name:           "Ada",
				NativeLanguage: "en",
			}
			repo := &fakeUserRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
			router := newAccountRouter(repo)

			req := withIdentity(httptest.NewRequest(http.MethodPut, "/api/account", strings.NewReader(tt.body)), user.ID)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				updated := repo.users[user.ID]
				if updated.Name != "Ada L." || len(updated.TargetLanguages) != 2 {
					t.Errorf("profile not updated: %+v", updated)
				}
			}
		})
	}
}

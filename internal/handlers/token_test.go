package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/models"
	"github.com/polyglotta/polyglotta-api/internal/queue"
	"github.com/polyglotta/polyglotta-api/internal/token"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", sql.ErrNoRows)
	}
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("update user: %w", sql.ErrNoRows)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", sql.ErrNoRows)
}

type recordingQueue struct {
	events []*queue.Event
}

func (q *recordingQueue) Publish(_ context.Context, event *queue.Event) error {
	q.events = append(q.events, event)
	return nil
}

func (q *recordingQueue) Close() error { return nil }

func TestIssueToken(t *testing.T) {
	t.Parallel()

	user := &models.User{
		ID:              uuid.New(),
		Email:           "ada@example.com",
		Name:            "Ada",
		NativeLanguage:  "en",
		TargetLanguages: []string{"fr", "ja"},
	}
	repo := &fakeUserRepo{users: map[uuid.UUID]*models.User{user.ID: user}}
	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	events := &recordingQueue{}

	h := NewTokenHandler(codec, repo, events, zap.NewNop())
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/token").Subrouter())

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/token", nil), user.ID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", envelope.Data.TokenType)
	}
	if !envelope.Data.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at %v is not in the future", envelope.Data.ExpiresAt)
	}

	// The issued token must verify and carry the full claim set.
	claims, err := codec.Validate(envelope.Data.Token)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, user.ID)
	}
	if claims.NativeLanguage != "en" || len(claims.TargetLanguages) != 2 {
		t.Errorf("language claims not carried: %+v", claims)
	}

	if len(events.events) != 1 || events.events[0].Type != queue.EventTokenIssued {
		t.Errorf("expected one token_issued audit event, got %+v", events.events)
	}
}

func TestIssueTokenWithoutIdentity(t *testing.T) {
	t.Parallel()

	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	h := NewTokenHandler(codec, &fakeUserRepo{users: map[uuid.UUID]*models.User{}}, nil, zap.NewNop())
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/token").Subrouter())

	req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestIssueTokenUnknownUser(t *testing.T) {
	t.Parallel()

	codec := token.NewCodec([]byte("test-secret"), time.Hour)
	h := NewTokenHandler(codec, &fakeUserRepo{users: map[uuid.UUID]*models.User{}}, nil, zap.NewNop())
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/token").Subrouter())

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/token", nil), uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/polyglotta/polyglotta-api/internal/models"
	"github.com/polyglotta/polyglotta-api/internal/provider"
	"github.com/polyglotta/polyglotta-api/internal/queue"
	"github.com/polyglotta/polyglotta-api/internal/session"
	"go.uber.org/zap"
)

type fakeProvider struct {
	user     *models.User
	password string
	err      error
}

func (f *fakeProvider) Authenticate(_ context.Context, creds provider.Credentials) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && creds.Email == f.user.Email && creds.Password == f.password {
		return f.user, nil
	}
	return nil, provider.ErrInvalidCredentials
}

type memoryStore struct {
	sessions map[string]*session.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: map[string]*session.Session{}}
}

func (m *memoryStore) Create(_ context.Context, sess session.Session) error {
	m.sessions[sess.ID] = &sess
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	return m.sessions[id], nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

type staticResolver struct {
	user *models.User
	err  error
}

func (s *staticResolver) Resolve(_ context.Context, _ *http.Request) (*models.User, error) {
	return s.user, s.err
}

func newAuthRouter(p provider.Provider, store session.Store, resolver session.Resolver, events queue.EventQueue) *mux.Router {
	h := NewAuthHandler(p, store, resolver, time.Hour, false, events, zap.NewNop())
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/auth").Subrouter())
	return r
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCookie bool
		wantEvent  queue.EventType
	}{
		{
			name:       "valid credentials",
			body:       `{"email": "ada@example.com", "password": "correct horse"}`,
			wantStatus: http.StatusOK,
			wantCookie: true,
			wantEvent:  queue.EventLoginSucceeded,
		},
		{
			name:       "unknown account",
			body:       `{"email": "mallory@example.com", "password": "guessing123"}`,
			wantStatus: http.StatusUnauthorized,
			wantEvent:  queue.EventLoginFailed,
		},
		{
			name:       "wrong password for known account",
			body:       `{"email": "ada@example.com", "password": "incorrect horse"}`,
			wantStatus: http.StatusUnauthorized,
			wantEvent:  queue.EventLoginFailed,
		},
		{
			name:       "missing password",
			body:       `{"email": "ada@example.com"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newMemoryStore()
			events := &recordingQueue{}
			router := newAuthRouter(&fakeProvider{user: user, password: "correct horse"}, store, &staticResolver{}, events)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			cookie := sessionCookie(rec)
			if tt.wantCookie {
				if cookie == nil {
					t.Fatal("expected session cookie, got none")
				}
				if !cookie.HttpOnly {
					t.Error("session cookie must be HttpOnly")
				}
				if _, ok := store.sessions[cookie.Value]; !ok {
					t.Error("cookie value does not match a stored session")
				}
			} else if cookie != nil && cookie.MaxAge >= 0 {
				t.Errorf("unexpected session cookie on failed login: %+v", cookie)
			}

			if tt.wantEvent != "" {
				if len(events.events) != 1 || events.events[0].Type != tt.wantEvent {
					t.Errorf("expected one %s event, got %+v", tt.wantEvent, events.events)
				}
			}
		})
	}
}

func TestLoginDoesNotLeakAccountExistence(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	// Unknown account and wrong password must produce identical responses.
	bodies := []string{
		`{"email": "nobody@example.com", "password": "whatever123"}`,
		`{"email": "ada@example.com", "password": "wrongpassword"}`,
	}

	var responses []string
	for _, body := range bodies {
		router := newAuthRouter(&fakeProvider{user: user, password: "correct horse"}, newMemoryStore(), &staticResolver{}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}

		var resp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		responses = append(responses, resp.Error+"/"+resp.Message)
	}

	if responses[0] != responses[1] {
		t.Errorf("unknown-account and wrong-password responses differ: %q vs %q", responses[0], responses[1])
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	sess := session.New(uuid.New(), time.Hour)
	store.sessions[sess.ID] = &sess

	router := newAuthRouter(&fakeProvider{}, store, &staticResolver{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := store.sessions[sess.ID]; ok {
		t.Error("session still present in store after logout")
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("expected expired clearing cookie, got %+v", cookie)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	t.Parallel()

	router := newAuthRouter(&fakeProvider{}, newMemoryStore(), &staticResolver{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetSession(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}

	tests := []struct {
		name     string
		resolver *staticResolver
		wantUser bool
	}{
		{name: "authenticated", resolver: &staticResolver{user: user}, wantUser: true},
		{name: "anonymous", resolver: &staticResolver{}, wantUser: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newAuthRouter(&fakeProvider{}, newMemoryStore(), tt.resolver, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}

			var envelope struct {
				Data struct {
					User *models.User `json:"user"`
				} `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if tt.wantUser && (envelope.Data.User == nil || envelope.Data.User.ID != user.ID) {
				t.Errorf("expected user %s in session response, got %+v", user.ID, envelope.Data.User)
			}
			if !tt.wantUser && envelope.Data.User != nil {
				t.Errorf("expected null user, got %+v", envelope.Data.User)
			}
		})
	}
}

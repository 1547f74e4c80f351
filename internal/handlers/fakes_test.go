package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"notedeck/api/internal/config"
	"notedeck/api/internal/models"
	"notedeck/api/internal/repository"
	"notedeck/api/internal/security"
	"notedeck/api/internal/service"
)

type fakeUserStore struct {
	mu      sync.Mutex
	byID    map[string]models.User
	byEmail map[string]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return repository.ErrDuplicateEmail
	}
	user.Email = email
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return s.byID[id], nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

// fakeNoteStore mirrors the SQL contract: owner-filtered reads, soft deletes
// treated as absent, newest-first listing.
type fakeNoteStore struct {
	mu    sync.Mutex
	notes []models.Note
}

func (s *fakeNoteStore) Create(_ context.Context, note models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.CreatedAt = time.Now()
	s.notes = append([]models.Note{note}, s.notes...)
	return nil
}

func (s *fakeNoteStore) GetForOwner(_ context.Context, ownerID string, id string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, note := range s.notes {
		if note.ID == id && note.UserID == ownerID && note.DeletedAt == nil {
			return note, nil
		}
	}
	return models.Note{}, repository.ErrNoteNotFound
}

func (s *fakeNoteStore) ListByOwner(_ context.Context, ownerID string) ([]models.NoteListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.NoteListItem
	for _, note := range s.notes {
		if note.UserID == ownerID && note.DeletedAt == nil {
			items = append(items, models.NoteListItem{ID: note.ID, Title: note.Title})
		}
	}
	return items, nil
}

func (s *fakeNoteStore) DeleteForOwner(_ context.Context, ownerID string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, note := range s.notes {
		if note.ID == id && note.UserID == ownerID && note.DeletedAt == nil {
			now := time.Now()
			s.notes[i].DeletedAt = &now
			return nil
		}
	}
	return repository.ErrNoteNotFound
}

type testEnv struct {
	router *gin.Engine
	users  *fakeUserStore
	notes  *fakeNoteStore
	cfg    *config.AppConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			SessionSecret: "test-secret",
			SessionTTL:    24 * time.Hour,
			RememberTTL:   7 * 24 * time.Hour,
		},
	}

	users := newFakeUserStore()
	notes := &fakeNoteStore{}

	h := HandlerSet{
		log:         zerolog.Nop(),
		cfg:         cfg,
		authService: service.NewAuthService(users, nil, cfg, zerolog.Nop()),
		users:       users,
		notes:       notes,
	}

	router := gin.New()
	h.Register(router)

	return &testEnv{router: router, users: users, notes: notes, cfg: cfg}
}

// join registers a user through the HTTP surface and returns the session
// cookie it was issued.
func (e *testEnv) join(t *testing.T, email string, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"email": {email}, "password": {password}}
	w := e.do(t, http.MethodPost, "/join", form, nil)
	require.Equal(t, http.StatusFound, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	return cookie
}

func (e *testEnv) do(t *testing.T, method string, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == security.SessionCookieName {
			return cookie
		}
	}
	return nil
}

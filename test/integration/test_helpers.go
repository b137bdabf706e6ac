package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskflow-api/internal/config"
	"taskflow-api/internal/handler"
	"taskflow-api/internal/middleware"
	"taskflow-api/internal/model"
	"taskflow-api/internal/router"
	"taskflow-api/internal/service"
)

// userStore is an in-memory credential store backing the HTTP tests; it
// mirrors the uniqueness guarantee of the real repository.
type userStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newUserStore() *userStore {
	return &userStore{users: map[int64]model.User{}}
}

func (s *userStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *userStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *userStore) Create(_ context.Context, email string, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, model.ErrEmailTaken
		}
	}

	s.nextID++
	now := time.Now().UTC()
	u := model.User{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *userStore) Update(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return model.User{}, model.ErrUserNotFound
	}
	for _, existing := range s.users {
		if existing.Email == u.Email && existing.ID != u.ID {
			return model.User{}, model.ErrEmailTaken
		}
	}

	u.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *userStore) setActive(email string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if u.Email == email {
			u.IsActive = active
			s.users[id] = u
		}
	}
}

type taskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]model.Task
}

func newTaskStore() *taskStore {
	return &taskStore{tasks: map[int64]model.Task{}}
}

func (s *taskStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := time.Now().UTC()
	t.ID = s.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.tasks[t.ID] = t
	return t, nil
}

func (s *taskStore) FindByID(_ context.Context, id int64, userID int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s *taskStore) List(_ context.Context, userID int64, filter model.TaskFilter) ([]model.Task, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *taskStore) Update(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return model.Task{}, model.ErrTaskNotFound
	}

	t.UpdatedAt = time.Now().UTC()
	s.tasks[t.ID] = t
	return t, nil
}

func (s *taskStore) Delete(_ context.Context, id int64, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

type testEnv struct {
	server *httptest.Server
	users  *userStore
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		SecretKey:        "integration-test-secret",
		Algorithm:        "HS256",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  168 * time.Hour,
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	users := newUserStore()
	tasks := newTaskStore()

	tokenService, err := service.NewTokenService(cfg.SecretKey, cfg.Algorithm)
	require.NoError(t, err)

	authService := service.NewAuthService(users, tokenService, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	taskService := service.NewTaskService(tasks)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(authService),
		Task:   handler.NewTaskHandler(taskService),
		Health: handler.NewHealthHandler(nil),
		Docs:   handler.NewDocsHandler(""),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users}
}

func (e *testEnv) do(t *testing.T, method string, path string, body any, accessToken string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	decodeDataMeta(t, resp, out)
}

// decodeDataMeta is decodeData for endpoints that also return pagination meta.
func decodeDataMeta(t *testing.T, resp *http.Response, out any) *model.Meta {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Meta    *model.Meta     `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success, "expected a success envelope")
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Meta
}

// registerAndLogin creates a user and returns its token pair.
func (e *testEnv) registerAndLogin(t *testing.T, email string, password string) model.TokenPair {
	t.Helper()

	resp := e.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair model.TokenPair
	decodeData(t, resp, &pair)
	return pair
}

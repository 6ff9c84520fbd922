package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/identity/application/auth"
	identityDomain "github.com/taskvault/taskvault/internal/identity/domain"
	insightQueries "github.com/taskvault/taskvault/internal/insights/application/queries"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/cache"
	"github.com/taskvault/taskvault/internal/tasks/application/commands"
	taskQueries "github.com/taskvault/taskvault/internal/tasks/application/queries"
	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

// fakeTaskRepo is an in-memory task.Repository with the same owner-scoping
// semantics as the SQL implementations.
type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*task.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[uuid.UUID]*task.Task)}
}

func (r *fakeTaskRepo) Save(ctx context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID()] = t
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id, userID uuid.UUID) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID() != userID {
		return nil, task.ErrTaskNotFound
	}
	return t, nil
}

func (r *fakeTaskRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*task.Task
	for _, t := range r.tasks {
		if t.UserID() == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*task.Task
	for _, t := range r.tasks {
		if t.UserID() == userID && t.IsPending() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID() != userID {
		return task.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// fakeUserRepo is an in-memory domain.UserRepository.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*identityDomain.User
	byEmail map[string]*identityDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*identityDomain.User),
		byEmail: make(map[string]*identityDomain.User),
	}
}

func (r *fakeUserRepo) Save(ctx context.Context, u *identityDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID()] = u
	r.byEmail[u.Email()] = u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, identityDomain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*identityDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, identityDomain.ErrUserNotFound
	}
	return u, nil
}

// testEnv bundles a running test server with direct handles on its fakes.
type testEnv struct {
	server   *httptest.Server
	taskRepo *fakeTaskRepo
	cache    *cache.Memory
	auth     *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	taskRepo := newFakeTaskRepo()
	userRepo := newFakeUserRepo()
	memCache := cache.NewMemory()

	authService := auth.NewService(
		userRepo,
		auth.NewPasswordHasher(),
		auth.NewTokenManager(auth.TokenConfig{
			Secret:     "test-secret",
			Issuer:     "taskvault-test",
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		}),
	)

	taskHandler := NewTaskHandler(TaskHandlerConfig{
		CreateTask: commands.NewCreateTaskHandler(taskRepo),
		UpdateTask: commands.NewUpdateTaskHandler(taskRepo),
		DeleteTask: commands.NewDeleteTaskHandler(taskRepo),
		ListTasks:  taskQueries.NewListTasksHandler(taskRepo),
		Cache:      memCache,
		Logger:     logger,
	})

	statsHandler := NewStatsHandler(StatsHandlerConfig{
		Summary:           insightQueries.NewTaskSummaryHandler(taskRepo),
		PendingBreakdown:  insightQueries.NewPendingBreakdownHandler(taskRepo),
		PriorityBreakdown: insightQueries.NewPriorityBreakdownHandler(taskRepo),
		Cache:             memCache,
		CacheTTL:          time.Minute,
		Logger:            logger,
	})

	s := NewServer(DefaultServerConfig(), NewAuthHandler(authService, logger), taskHandler, statsHandler, authService, logger)

	ts := httptest.NewServer(s.server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{
		server:   ts,
		taskRepo: taskRepo,
		cache:    memCache,
		auth:     authService,
	}
}

// registerAndLogin creates an account and returns its bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	_, err := e.auth.Register(context.Background(), email, "password123")
	require.NoError(t, err)

	pair, err := e.auth.Login(context.Background(), email, "password123")
	require.NoError(t, err)
	return pair.AccessToken
}

// do sends a JSON request with an optional bearer token and decodes the
// response body into out when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasktrack/tasktrack-go/internal/crypto"
	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository/memory"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

const testSecret = "test-secret"

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.New()
	return &testAPI{
		t: t,
		handler: NewRouter(Services{
			Auth:     service.NewAuthService(store.Users(), testSecret, 2*time.Hour),
			Projects: service.NewProjectService(store.Projects()),
			Tasks:    service.NewTaskService(store.Projects(), store.Tasks()),
		}, testSecret),
	}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(username, email, password string) model.AuthResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/users/register", "", model.RegisterRequest{
		Username: username, Email: email, Password: password,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.AuthResponse](a.t, rec)
}

func (a *testAPI) createProject(token, name string) model.Project {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/projects", token, model.CreateProjectRequest{Name: name})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Project](a.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func bodyField(t *testing.T, rec *httptest.ResponseRecorder, key string) string {
	t.Helper()
	return decode[map[string]string](t, rec)[key]
}

func TestEndToEndOwnershipFlow(t *testing.T) {
	api := newTestAPI(t)

	alice := api.register("alice", "a@x.com", "pw")
	require.NotEmpty(t, alice.Token)

	rec := api.do(http.MethodPost, "/api/users/login", "", model.LoginRequest{Email: "a@x.com", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[model.AuthResponse](t, rec)
	claims, err := crypto.ValidateToken(login.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, model.Identity{ID: alice.User.ID, Username: "alice", Email: "a@x.com"}, claims.Data)

	rec = api.do(http.MethodPost, "/api/users/login", "", model.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Wrong password!", bodyField(t, rec, "message"))

	home := api.createProject(alice.Token, "Home")
	assert.Equal(t, "Home", home.Name)
	assert.Equal(t, alice.User.ID, home.UserID)

	bob := api.register("bob", "b@x.com", "pw")
	rec = api.do(http.MethodPost, fmt.Sprintf("/api/projects/%d/tasks", home.ID), bob.Token, model.CreateTaskRequest{Title: "steal"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized for this project", bodyField(t, rec, "message"))
}

func TestLoginUnknownUser(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/api/users/login", "", model.LoginRequest{Email: "ghost@x.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Can't find this user", bodyField(t, rec, "message"))
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "a@x.com", "pw")

	tests := []struct {
		name string
		body any
	}{
		{name: "missing fields", body: model.RegisterRequest{Username: "carol"}},
		{name: "duplicate email", body: model.RegisterRequest{Username: "carol", Email: "a@x.com", Password: "pw"}},
		{name: "duplicate username", body: model.RegisterRequest{Username: "alice", Email: "c@x.com", Password: "pw"}},
		{name: "duplicate username other case", body: model.RegisterRequest{Username: "Alice", Email: "c@x.com", Password: "pw"}},
		{name: "malformed json", body: "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodPost, "/api/users/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, bodyField(t, rec, "error"))
		})
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	api := newTestAPI(t)

	big := `{"username":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := api.do(http.MethodPost, "/api/users/register", "", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/projects"},
		{http.MethodGet, "/api/projects"},
		{http.MethodGet, "/api/projects/1"},
		{http.MethodPut, "/api/projects/1"},
		{http.MethodDelete, "/api/projects/1"},
		{http.MethodPost, "/api/projects/1/tasks"},
		{http.MethodGet, "/api/projects/1/tasks"},
		{http.MethodPut, "/api/projects/tasks/1"},
		{http.MethodDelete, "/api/projects/tasks/1"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := api.do(rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = api.do(rt.method, rt.path, "not-a-token", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice", "a@x.com", "pw")

	rec := api.do(http.MethodGet, "/api/users/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice.User, decode[model.UserResponse](t, rec))
	assert.NotContains(t, rec.Body.String(), "argon2id")
}

func TestHealthAndRoot(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = api.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "API is running...", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

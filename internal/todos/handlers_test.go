package todos_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmpoweredVote/EV-Todo/internal/models"
	"github.com/EmpoweredVote/EV-Todo/internal/session"
	"github.com/EmpoweredVote/EV-Todo/internal/store/memory"
	"github.com/EmpoweredVote/EV-Todo/internal/todos"
)

type testEnv struct {
	sessions *session.Sessions
	handler  http.Handler
	clock    time.Time
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	now := func() time.Time { return env.clock }

	sessions, err := session.NewSessions(session.Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef"),
		MaxAge:    30 * 24 * time.Hour,
		UpdateAge: 24 * time.Hour,
	}, now, nil)
	require.NoError(t, err)
	env.sessions = sessions

	h := todos.NewHandler(memory.NewTodoStore(), func() time.Time {
		env.clock = env.clock.Add(time.Second)
		return env.clock
	})
	env.handler = todos.SetupRoutes(h, sessions, session.Cookies{Now: now})
	return env
}

func (e *testEnv) cookieFor(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	tok, err := e.sessions.Issue(models.Identity{ID: userID, Email: userID + "@x.io"})
	require.NoError(t, err)
	return &http.Cookie{Name: session.DefaultCookieName, Value: tok.Value}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) create(t *testing.T, cookie *http.Cookie, content string) models.Todo {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/", todos.CreateRequest{Content: content}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp todos.CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Message)
	require.NotNil(t, resp.Todo)
	return *resp.Todo
}

func (e *testEnv) list(t *testing.T, cookie *http.Cookie, filter string) []models.Todo {
	t.Helper()
	path := "/"
	if filter != "" {
		path += "?filter=" + filter
	}
	rec := e.do(t, http.MethodGet, path, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out []models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func contents(todos []models.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.Content)
	}
	return out
}

func TestTodos_RequireSession(t *testing.T) {
	env := newEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTodos_Lifecycle(t *testing.T) {
	env := newEnv(t)
	alice := env.cookieFor(t, "alice")

	milk := env.create(t, alice, "buy milk")
	taxes := env.create(t, alice, "file taxes")
	assert.False(t, milk.Done)
	assert.False(t, milk.Important)
	assert.Equal(t, "alice", milk.UserID)

	assert.Equal(t, []string{"file taxes", "buy milk"}, contents(env.list(t, alice, "")))

	rec := env.do(t, http.MethodPatch, "/"+taxes.TodoID, map[string]bool{"important": true}, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPatch, "/"+milk.TodoID, map[string]bool{"task_done": true}, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Done)

	assert.Equal(t, []string{"file taxes"}, contents(env.list(t, alice, "pending")))
	assert.Equal(t, []string{"file taxes"}, contents(env.list(t, alice, "important")))
	assert.Len(t, env.list(t, alice, "all"), 2)

	rec = env.do(t, http.MethodDelete, "/"+milk.TodoID, nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"file taxes"}, contents(env.list(t, alice, "")))
}

func TestTodos_OtherUsersTodosAreHidden(t *testing.T) {
	env := newEnv(t)
	alice := env.cookieFor(t, "alice")
	bob := env.cookieFor(t, "bob")

	todo := env.create(t, alice, "secret plan")

	assert.Empty(t, env.list(t, bob, ""))

	rec := env.do(t, http.MethodPatch, "/"+todo.TodoID, map[string]bool{"task_done": true}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/"+todo.TodoID, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Len(t, env.list(t, alice, ""), 1)
}

func TestTodos_Validation(t *testing.T) {
	env := newEnv(t)
	alice := env.cookieFor(t, "alice")

	rec := env.do(t, http.MethodPost, "/", todos.CreateRequest{Content: "   "}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/?filter=someday", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	todo := env.create(t, alice, "x")
	rec = env.do(t, http.MethodPatch, "/"+todo.TodoID, map[string]any{}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/missing", nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

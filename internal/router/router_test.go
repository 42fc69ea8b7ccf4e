package router

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	apiHandler "github.com/fastygo/careflow/api/handler"
	"github.com/fastygo/careflow/internal/infrastructure/journal"
	"github.com/fastygo/careflow/internal/infrastructure/monitor"
	"github.com/fastygo/careflow/internal/middleware"
	"github.com/fastygo/careflow/pkg/httpcontext"
	"github.com/fastygo/careflow/pkg/password"
	"github.com/fastygo/careflow/pkg/token"
	"github.com/fastygo/careflow/repository/memory"
	authUC "github.com/fastygo/careflow/usecase/auth"
	commentUC "github.com/fastygo/careflow/usecase/comment"
	dashboardUC "github.com/fastygo/careflow/usecase/dashboard"
	tagUC "github.com/fastygo/careflow/usecase/tag"
	taskUC "github.com/fastygo/careflow/usecase/task"
)

type app struct {
	handler fasthttp.RequestHandler
}

func newApp(t *testing.T) *app {
	t.Helper()

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	tasks := memory.NewTaskRepository(store)
	tags := memory.NewTagRepository(store)
	comments := memory.NewCommentRepository(store)
	stats := memory.NewDashboardRepository(store)
	attempts := memory.NewAttemptRepository(store, 15*time.Minute)

	activity, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = activity.Close() })

	tokens := token.NewManager("test-secret", "careflow", time.Hour)
	adapter := httpcontext.NewAdapter(time.Second)

	mon := monitor.New(time.Minute, nil, monitor.JournalProbe(activity))
	mon.Refresh()

	handlers := Handlers{
		Auth: apiHandler.NewAuthHandler(
			authUC.New(users, attempts, password.NewHasher(bcrypt.MinCost), tokens, activity, authUC.Limits{MaxFailures: 3}, nil),
			adapter, nil),
		Task:      apiHandler.NewTaskHandler(taskUC.New(tasks, activity, nil), adapter, nil),
		Tag:       apiHandler.NewTagHandler(tagUC.New(tags, tasks, activity, nil), adapter, nil),
		Comment:   apiHandler.NewCommentHandler(commentUC.New(comments, tasks, activity, nil), adapter, nil),
		Dashboard: apiHandler.NewDashboardHandler(dashboardUC.New(stats, tasks, nil), adapter, nil),
		Activity:  apiHandler.NewActivityHandler(activity, adapter, nil),
		Health:    apiHandler.NewHealthHandler(mon, adapter, nil),
	}

	r := New(handlers, middleware.JWTAuth(tokens, nil))
	return &app{handler: middleware.CORS([]string{"http://localhost:3247"})(r.Handler)}
}

func (a *app) do(t *testing.T, method, uri, bearer, body string) (int, map[string]interface{}) {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if bearer != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+bearer)
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	a.handler(ctx)

	var out map[string]interface{}
	if raw := ctx.Response.Body(); len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return ctx.Response.StatusCode(), out
}

func (a *app) signup(t *testing.T, email string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/api/auth/signup", "", `{"email":"`+email+`","password":"password123"}`)
	require.Equal(t, http.StatusCreated, status, body)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)
	a.signup(t, "carer@example.com")

	status, _ := a.do(t, http.MethodPost, "/api/auth/signup", "", `{"email":"carer@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, body := a.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"carer@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])

	status, body = a.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"carer@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, status)
	tok := body["token"].(string)

	status, body = a.do(t, http.MethodGet, "/api/auth/me", tok, "")
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "carer@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")

	status, _ = a.do(t, http.MethodPost, "/api/auth/change-password", tok, `{"currentPassword":"password123","newPassword":"password456"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"carer@example.com","password":"password456"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodPost, "/api/auth/logout", tok, "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newApp(t)

	status, body := a.do(t, http.MethodGet, "/api/tasks", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.NotEmpty(t, body["error"])

	status, _ = a.do(t, http.MethodGet, "/api/tasks", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTaskLifecycle(t *testing.T) {
	a := newApp(t)
	tok := a.signup(t, "lead@example.com")

	status, body := a.do(t, http.MethodPost, "/api/tasks", tok, `{
		"category": "school",
		"problem": "Transport to school not arranged",
		"status": "not_started",
		"deadline": "2030-04-01",
		"importance": "high",
		"urgency": "high",
		"causes": [{"cause": "No funding"}],
		"actions": [{"action": "Call the council"}],
		"assignees": [{"name": "Sam", "organization": "Council"}]
	}`)
	require.Equal(t, http.StatusCreated, status, body)
	task := body["task"].(map[string]interface{})
	id := task["id"].(string)
	assert.Equal(t, "2030-04-01", task["deadline"])
	assert.Len(t, task["causes"], 1)
	assert.Len(t, task["assignees"], 1)

	status, _ = a.do(t, http.MethodPost, "/api/tasks", tok, `{"category":"system","problem":"x","status":"not_started"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodGet, "/api/tasks?assignee=Sam&sortBy=deadline&sortOrder=asc", tok, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
	assert.Len(t, body["tasks"], 1)

	status, body = a.do(t, http.MethodPut, "/api/tasks/"+id, tok, `{"status":"in_progress","causes":[]}`)
	require.Equal(t, http.StatusOK, status, body)
	task = body["task"].(map[string]interface{})
	assert.Equal(t, "in_progress", task["status"])
	assert.Empty(t, task["causes"])
	assert.Len(t, task["actions"], 1)

	status, body = a.do(t, http.MethodPost, "/api/tasks/"+id+"/tags", tok, `{"name":"transport"}`)
	require.Equal(t, http.StatusCreated, status, body)
	tagID := body["tag"].(map[string]interface{})["id"].(string)

	status, _ = a.do(t, http.MethodPost, "/api/tasks/"+id+"/tags", tok, `{"name":"transport"}`)
	assert.Equal(t, http.StatusCreated, status)

	status, body = a.do(t, http.MethodGet, "/api/tags?q=trans", tok, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["tags"], 1)

	status, body = a.do(t, http.MethodPost, "/api/tasks/"+id+"/comments", tok, `{"content":"Spoke to the school"}`)
	require.Equal(t, http.StatusCreated, status, body)
	commentID := body["comment"].(map[string]interface{})["id"].(string)

	other := a.signup(t, "other@example.com")
	status, _ = a.do(t, http.MethodPut, "/api/comments/"+commentID, other, `{"content":"hijack"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = a.do(t, http.MethodGet, "/api/tasks/"+id+"/comments", tok, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	status, body = a.do(t, http.MethodGet, "/api/dashboard/stats", tok, "")
	require.Equal(t, http.StatusOK, status)
	summary := body["summary"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["totalTasks"])
	assert.EqualValues(t, 1, summary["inProgressCount"])

	status, body = a.do(t, http.MethodGet, "/api/dashboard/matrix", tok, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["totalTasks"])

	status, _ = a.do(t, http.MethodDelete, "/api/tasks/"+id+"/tags/"+tagID, tok, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(t, http.MethodDelete, "/api/tasks/"+id, tok, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = a.do(t, http.MethodGet, "/api/tasks/"+id, tok, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = a.do(t, http.MethodDelete, "/api/tasks/"+id, tok, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = a.do(t, http.MethodGet, "/api/activity?limit=2", tok, "")
	require.Equal(t, http.StatusOK, status)
	entries := body["activity"].([]interface{})
	require.Len(t, entries, 2)
	assert.Equal(t, "delete", entries[0].(map[string]interface{})["action"])
}

func TestMethodNotAllowed(t *testing.T) {
	a := newApp(t)

	status, body := a.do(t, http.MethodPatch, "/api/tasks", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "method not allowed", body["error"])
}

func TestHealth(t *testing.T) {
	a := newApp(t)

	status, body := a.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	services := body["services"].(map[string]interface{})
	assert.Contains(t, services, "journal")
}

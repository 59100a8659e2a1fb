package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/objectives/internal/repository"
	"github.com/alexanderramin/objectives/internal/service"
	"github.com/alexanderramin/objectives/internal/telemetry"
	"github.com/alexanderramin/objectives/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T, metrics *telemetry.Metrics) *testAPI {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	objs := repository.NewSQLiteObjectiveRepo(database)
	objectives := service.NewObjectiveServiceWithClock(objs, repository.NewSQLiteHistoryRepo(database), uow, testutil.Clock())
	comments := service.NewCommentService(objs, repository.NewSQLiteCommentRepo(database), uow)

	srv := NewServer(objectives, comments, Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		Metrics:        metrics,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &testAPI{t: t, handler: srv.Handler()}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(a.t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) create(title, start, end string, parent *int64) ObjectiveResponse {
	a.t.Helper()
	body := map[string]any{"title": title, "start_date": start, "end_date": end, "status": "open"}
	if parent != nil {
		body["parent_id"] = *parent
	}
	w := a.do(http.MethodPost, "/objectives", body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var resp ObjectiveResponse
	decode(a.t, w, &resp)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decode(t, w, &resp)
	return resp.Code
}

func TestHandleCreateObjective(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodPost, "/objectives", map[string]any{
		"title": "Launch", "description": "v1", "start_date": "2024-01-01",
		"end_date": "2024-01-31", "status": "open",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp ObjectiveResponse
	decode(t, w, &resp)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "Launch", resp.Title)
	require.NotNil(t, resp.Description)
	assert.Equal(t, "v1", *resp.Description)
	assert.Equal(t, "2024-01-01", resp.StartDate)
	assert.Equal(t, "2024-01-31", resp.EndDate)
	assert.Nil(t, resp.ParentID)
}

func TestHandleCreateObjective_BadRequests(t *testing.T) {
	api := newTestAPI(t, nil)

	cases := map[string]any{
		"malformed json": `{"title":`,
		"missing title":  map[string]any{"start_date": "2024-01-01", "end_date": "2024-01-02", "status": "open"},
		"blank title":    map[string]any{"title": "  ", "start_date": "2024-01-01", "end_date": "2024-01-02", "status": "open"},
		"bad date":       map[string]any{"title": "T", "start_date": "01/02/2024", "end_date": "2024-01-02", "status": "open"},
		"missing status": map[string]any{"title": "T", "start_date": "2024-01-01", "end_date": "2024-01-02"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/objectives", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, CodeInvalidInput, errorCode(t, w))
		})
	}
}

func TestHandleCreateObjective_MissingParent(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodPost, "/objectives", map[string]any{
		"title": "Orphan", "start_date": "2024-01-01", "end_date": "2024-01-02",
		"status": "open", "parent_id": 404,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, errorCode(t, w))
}

func TestRollupScenarioOverHTTP(t *testing.T) {
	api := newTestAPI(t, nil)
	r := api.create("R", "2024-01-01", "2024-01-31", nil)
	api.create("C1", "2024-01-05", "2024-01-10", &r.ID)
	c2 := api.create("C2", "2024-01-15", "2024-01-20", &r.ID)

	w := api.do(http.MethodGet, fmt.Sprintf("/objectives/%d", r.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got ObjectiveResponse
	decode(t, w, &got)
	assert.Equal(t, "2024-01-05", got.StartDate)
	assert.Equal(t, "2024-01-20", got.EndDate)

	w = api.do(http.MethodDelete, fmt.Sprintf("/objectives/%d", c2.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodPost, fmt.Sprintf("/objectives/%d/rollup", r.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, "2024-01-05", got.StartDate)
	assert.Equal(t, "2024-01-10", got.EndDate)
}

func TestHandleListObjectives_FlatAndTree(t *testing.T) {
	api := newTestAPI(t, nil)
	r := api.create("R", "2024-01-01", "2024-01-31", nil)
	c := api.create("C", "2024-01-05", "2024-01-10", &r.ID)
	api.do(http.MethodPatch, fmt.Sprintf("/objectives/%d", c.ID), map[string]any{"status": "done"})
	api.create("Other", "2024-02-01", "2024-02-02", nil)

	w := api.do(http.MethodGet, "/objectives", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var flat []ObjectiveResponse
	decode(t, w, &flat)
	assert.Len(t, flat, 3)

	for _, path := range []string{"/objectives?tree=1", "/objectives/tree"} {
		w = api.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		var forest []ObjectiveNodeResponse
		decode(t, w, &forest)
		require.Len(t, forest, 2, path)
		assert.Equal(t, r.ID, forest[0].ID)
		require.Len(t, forest[0].Children, 1)
		assert.Equal(t, c.ID, forest[0].Children[0].ID)
		assert.Equal(t, 100.0, forest[0].Progress)
		assert.Empty(t, forest[1].Children)
		assert.Equal(t, 0.0, forest[1].Progress)
	}

	w = api.do(http.MethodGet, "/objectives?tree=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetSubtree(t *testing.T) {
	api := newTestAPI(t, nil)
	r := api.create("R", "2024-01-01", "2024-01-31", nil)
	c := api.create("C", "2024-01-05", "2024-01-10", &r.ID)
	api.create("G", "2024-01-06", "2024-01-07", &c.ID)

	w := api.do(http.MethodGet, fmt.Sprintf("/objectives/%d/tree", c.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var node ObjectiveNodeResponse
	decode(t, w, &node)
	assert.Equal(t, c.ID, node.ID)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "G", node.Children[0].Title)
	assert.NotNil(t, node.Children[0].Children, "leaves carry an empty children list")
}

func TestHandleGetObjective_Errors(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodGet, "/objectives/77", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, errorCode(t, w))

	w = api.do(http.MethodGet, "/objectives/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, errorCode(t, w))
}

func TestHandlePatchStatus(t *testing.T) {
	api := newTestAPI(t, nil)
	o := api.create("Task", "2024-01-01", "2024-01-02", nil)
	path := fmt.Sprintf("/objectives/%d", o.ID)

	w := api.do(http.MethodPatch, path, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidInput, errorCode(t, w))

	w = api.do(http.MethodPatch, path, map[string]any{"status": "in progress"})
	require.Equal(t, http.StatusOK, w.Code)
	var got ObjectiveResponse
	decode(t, w, &got)
	assert.Equal(t, "in progress", got.Status)

	w = api.do(http.MethodGet, path+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []HistoryEntryResponse
	decode(t, w, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "status_changed", entries[0].ChangeType)
	assert.Equal(t, "open", *entries[0].OldValue)
	assert.Equal(t, "in progress", *entries[0].NewValue)
	assert.Equal(t, "created", entries[1].ChangeType)
}

func TestHandleReplaceObjective(t *testing.T) {
	api := newTestAPI(t, nil)
	a := api.create("A", "2024-01-01", "2024-01-31", nil)
	child := api.create("Child", "2024-01-10", "2024-01-12", &a.ID)

	w := api.do(http.MethodPut, fmt.Sprintf("/objectives/%d", child.ID), map[string]any{
		"title": "Child renamed", "start_date": "2024-01-10", "end_date": "2024-01-12", "status": "open",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var got ObjectiveResponse
	decode(t, w, &got)
	assert.Equal(t, "Child renamed", got.Title)
	assert.Nil(t, got.ParentID)

	w = api.do(http.MethodPut, fmt.Sprintf("/objectives/%d", a.ID), map[string]any{
		"title": "A", "start_date": "2024-01-01", "end_date": "2024-01-31", "status": "open", "parent_id": a.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeConflict, errorCode(t, w))
}

func TestHandleDeleteObjective(t *testing.T) {
	api := newTestAPI(t, nil)
	r := api.create("R", "2024-01-01", "2024-01-31", nil)
	api.create("C", "2024-01-05", "2024-01-10", &r.ID)
	path := fmt.Sprintf("/objectives/%d", r.ID)

	w := api.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeConflict, errorCode(t, w))

	w = api.do(http.MethodDelete, path+"?cascade=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/objectives", nil)
	var flat []ObjectiveResponse
	decode(t, w, &flat)
	assert.Empty(t, flat)

	w = api.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComments(t *testing.T) {
	api := newTestAPI(t, nil)
	o := api.create("Talk", "2024-01-01", "2024-01-02", nil)
	path := fmt.Sprintf("/objectives/%d/comments", o.ID)

	w := api.do(http.MethodPost, path, map[string]any{"content": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	var first CommentResponse
	decode(t, w, &first)

	w = api.do(http.MethodPost, path, map[string]any{"content": "second"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPost, path, map[string]any{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []CommentResponse
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)

	w = api.do(http.MethodDelete, fmt.Sprintf("/comments/%d", first.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodDelete, fmt.Sprintf("/comments/%d", first.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/objectives/999/comments", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, telemetry.NewMetrics())

	w := api.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	decode(t, w, &health)
	assert.Equal(t, "ok", health.Status)

	api.do(http.MethodGet, "/objectives/5", nil)

	w = api.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `objectives_http_requests_total{method="GET",route="/objectives/:id",status="404"} 1`)
}

func TestMetricsRouteAbsentWithoutMetrics(t *testing.T) {
	api := newTestAPI(t, nil)
	w := api.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

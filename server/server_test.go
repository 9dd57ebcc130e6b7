package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"campus-steps-server/preprocessing"
	"campus-steps-server/routing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testGraph() *routing.Graph {
	g := routing.NewGraph()
	g.AddEdge("A", "B", 10)
	g.AddEdge("B", "C", 15)
	g.AddEdge("A", "C", 30)
	g.AddNode("D")
	return g
}

func doRequest(t *testing.T, r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	r := New(preprocessing.NewStoreFromGraph(testGraph())).Router()
	w := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRooms(t *testing.T) {
	r := New(preprocessing.NewStoreFromGraph(testGraph())).Router()
	w := doRequest(t, r, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rooms":["A","B","C","D"],"count":4}`, w.Body.String())
}

func TestRates(t *testing.T) {
	r := New(preprocessing.NewStoreFromGraph(testGraph())).Router()
	w := doRequest(t, r, http.MethodGet, "/api/rates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"rates": [
			{"intensity":"low","caloriesPerStep":0.03},
			{"intensity":"moderate","caloriesPerStep":0.045},
			{"intensity":"high","caloriesPerStep":0.06}
		],
		"stairsMultiplier": 1.5
	}`, w.Body.String())
}

func TestDistance(t *testing.T) {
	r := New(preprocessing.NewStoreFromGraph(testGraph())).Router()

	w := doRequest(t, r, http.MethodGet, "/api/distance?from=A&to=C", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"from":"A","to":"C","steps":25}`, w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/api/distance?from=A&to=D", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no path exists between A and D")

	w = doRequest(t, r, http.MethodGet, "/api/distance?from=A", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRoute(t *testing.T) {
	r := New(preprocessing.NewStoreFromGraph(testGraph())).Router()

	w := doRequest(t, r, http.MethodPost, "/api/route", routing.RouteRequest{
		Rooms:     []string{"A", "B", "C", "D"},
		Stairs:    []bool{false, false, true},
		Intensity: "high",
		WeightKg:  70,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res routing.RouteResult
	decode(t, w, &res)
	require.Len(t, res.Segments, 3)
	assert.Equal(t, 25, res.TotalSteps)
	assert.InDelta(t, 1.75, res.TotalCalories, 1e-9)
	assert.Equal(t, 1, res.FailedSegments)
	assert.Equal(t, routing.SegmentNoPath, res.Segments[2].Status)
	assert.Equal(t, []string{"A", "B", "C", "D"}, res.Stops)
	assert.NotEmpty(t, res.RequestID)
}

func TestRouteRejectsInvalidRequests(t *testing.T) {
	r := New(preprocessing.NewStoreFromGraph(testGraph())).Router()

	tests := []struct {
		name string
		body interface{}
	}{
		{"bad json", `{"rooms": [`},
		{"stairs mismatch", routing.RouteRequest{Rooms: []string{"A", "B"}, Stairs: []bool{}, Intensity: "low", WeightKg: 70}},
		{"unknown room", routing.RouteRequest{Rooms: []string{"A", "Q"}, Stairs: []bool{true}, Intensity: "low", WeightKg: 70}},
		{"unknown intensity", routing.RouteRequest{Rooms: []string{"A", "B"}, Stairs: []bool{true}, Intensity: "walk", WeightKg: 70}},
		{"missing weight", routing.RouteRequest{Rooms: []string{"A", "B"}, Stairs: []bool{true}, Intensity: "low"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/api/route", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			decode(t, w, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steps.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"classroom1":"101","classroom2":"102","steps_between":45}]`), 0o644))

	store := preprocessing.NewStore(path)
	r := New(store).Router()

	w := doRequest(t, r, http.MethodGet, "/api/rooms", nil)
	assert.JSONEq(t, `{"rooms":["101","102"],"count":2}`, w.Body.String())

	require.NoError(t, os.WriteFile(path, []byte(`[{"classroom1":"101","classroom2":"103","steps_between":5}]`), 0o644))
	w = doRequest(t, r, http.MethodPost, "/api/admin/reload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"reloaded","rooms":2}`, w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/api/rooms", nil)
	assert.JSONEq(t, `{"rooms":["101","103"],"count":2}`, w.Body.String())

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	w = doRequest(t, r, http.MethodPost, "/api/admin/reload", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/rooms", nil)
	assert.JSONEq(t, `{"rooms":["101","103"],"count":2}`, w.Body.String())
}

func TestMissingDatasetReturns500(t *testing.T) {
	store := preprocessing.NewStore(filepath.Join(t.TempDir(), "missing.json"))
	r := New(store).Router()

	w := doRequest(t, r, http.MethodGet, "/api/rooms", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/linkrace/services/pathfind"
)

func postJSON(t *testing.T, env *testEnv, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, env *testEnv, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	env.router.ServeHTTP(w, req)
	return w
}

func TestHandleShortestPath(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/v1/paths", `{"source":"Dog","target":"Cat"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res pathfind.PathResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Degrees)
	assert.Len(t, res.Path, 3)
}

func TestHandleShortestPathNoPath(t *testing.T) {
	env := newTestEnv(t)

	// Bone links nowhere near Cat; still a 200, with degrees -1.
	w := postJSON(t, env, "/v1/paths", `{"source":"Bone","target":"Cat"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res pathfind.PathResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, -1, res.Degrees)
}

func TestHandleShortestPathUnknownTitle(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/v1/paths", `{"source":"Zebra","target":"Cat"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleShortestPathValidation(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/v1/paths", `{"source":"Dog"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, env, "/v1/paths", `{"source":"Dog","target":"Cat","max_depth":99}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGraph(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/v1/graphs", `{"root":"Dog","max_depth":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res pathfind.GraphResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	// Dog plus its direct neighbors Mammal and Bone.
	assert.Equal(t, 3, res.NodeCount)
	assert.Equal(t, 2, res.LinkCount)
}

func TestHandleGraphUnknownRoot(t *testing.T) {
	env := newTestEnv(t)

	w := postJSON(t, env, "/v1/graphs", `{"root":"Zebra"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleNeighbors(t *testing.T) {
	env := newTestEnv(t)

	w := getPath(t, env, "/v1/graphs/neighbors?title=Dog")
	require.Equal(t, http.StatusOK, w.Code)

	var res pathfind.NeighborsResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Neighbors, 2)

	w = getPath(t, env, "/v1/graphs/neighbors?title=Dog&max_neighbors=1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Neighbors, 1)

	w = getPath(t, env, "/v1/graphs/neighbors?title=Dog&max_neighbors=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(t, env, "/v1/graphs/neighbors")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

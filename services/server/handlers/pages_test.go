package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/linkrace/services/server/datatypes"
)

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	w := getPath(t, env, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 5, body["pages"])
	assert.EqualValues(t, 1, body["redirects"])
}

func TestGetPage(t *testing.T) {
	env := newTestEnv(t)

	w := getPath(t, env, "/v1/pages?title=dog")
	require.Equal(t, http.StatusOK, w.Code)

	var page datatypes.PageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, "Dog", page.Title)
	assert.False(t, page.IsRedirect)

	// An alias reports its resolution target.
	w = getPath(t, env, "/v1/pages?title=Doggo")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.True(t, page.IsRedirect)
	assert.Equal(t, "Dog", page.ResolvedTo)
	assert.EqualValues(t, 1, page.ResolvedID)

	w = getPath(t, env, "/v1/pages?title=Zebra")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = getPath(t, env, "/v1/pages")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchPages(t *testing.T) {
	env := newTestEnv(t)

	w := getPath(t, env, "/v1/pages/search?q=D")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []datatypes.PageResponse `json:"results"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// Doggo is a redirect and must not surface.
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Dog", body.Results[0].Title)

	w = getPath(t, env, "/v1/pages/search?q=D&limit=bogus")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(t, env, "/v1/pages/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRandomPage(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 10; i++ {
		w := getPath(t, env, "/v1/pages/random")
		require.Equal(t, http.StatusOK, w.Code)

		var page datatypes.PageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.NotEqual(t, "Doggo", page.Title, "random never returns a redirect")
	}
}

func TestGameStatsEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := getPath(t, env, "/v1/game/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats datatypes.GameStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Zero(t, stats.Rooms)
	assert.Zero(t, stats.Players)
	assert.Zero(t, stats.Playing)
}

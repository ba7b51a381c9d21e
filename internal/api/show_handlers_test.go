package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpsboard/corpsboard-server/internal/service"
)

func listShows(t *testing.T, ts *testServer, query string) ListShowsResponse {
	t.Helper()
	resp := ts.api.Get("/api/v1/shows" + query)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out ListShowsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestListShows(t *testing.T) {
	ts := setupTestServer(t, Options{})
	admin, _ := ts.register(t, "admin")

	empty := listShows(t, ts, "")
	assert.Empty(t, empty.Shows)
	assert.Equal(t, "year_desc", string(empty.Sort))

	metamorph := ts.addShow(t, admin, 2017, "Blue Devils", "Metamorph")
	ts.addShow(t, admin, 2014, "Carolina Crown", "Inferno")
	ts.addShow(t, admin, 2016, "Blue Devils", "Ink")

	all := listShows(t, ts, "")
	require.Len(t, all.Shows, 3)
	assert.Equal(t, metamorph, all.Shows[0].ID)

	asc := listShows(t, ts, "?sort=year_asc")
	assert.Equal(t, 2014, asc.Shows[0].Year)

	unknown := listShows(t, ts, "?sort=sideways")
	assert.Equal(t, "year_desc", string(unknown.Sort))

	byYear := listShows(t, ts, "?year=2016")
	require.Len(t, byYear.Shows, 1)
	assert.Equal(t, "Ink", byYear.Shows[0].Title)

	byCorps := listShows(t, ts, "?corps=blue%20devils")
	assert.Len(t, byCorps.Shows, 2)
}

func TestGetShow(t *testing.T) {
	ts := setupTestServer(t, Options{})
	admin, _ := ts.register(t, "admin")
	alice, _ := ts.register(t, "alice")
	show := ts.addShow(t, admin, 2017, "Blue Devils", "Metamorph")

	require.Equal(t, http.StatusOK, ts.api.Put(fmt.Sprintf("/api/v1/shows/%d/rating", show), alice, map[string]any{"rating_half": 9}).Code)
	require.Equal(t, http.StatusOK, ts.api.Put(fmt.Sprintf("/api/v1/shows/%d/review", show), alice, map[string]any{"review_text": "Incredible brass book."}).Code)

	// Anonymous visitors see aggregates and reviews but nothing personal.
	resp := ts.api.Get(fmt.Sprintf("/api/v1/shows/%d", show))
	require.Equal(t, http.StatusOK, resp.Code)
	var anon service.ShowPage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &anon))
	assert.Equal(t, 4.5, anon.Show.AvgRating)
	assert.Equal(t, 1, anon.Show.Count)
	assert.Nil(t, anon.MyRating)
	require.Len(t, anon.Reviews, 1)
	assert.Equal(t, "alice", anon.Reviews[0].Username)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/shows/%d", show), alice)
	require.Equal(t, http.StatusOK, resp.Code)
	var mine service.ShowPage
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &mine))
	require.NotNil(t, mine.MyRating)
	assert.Equal(t, 9, *mine.MyRating)
	require.NotNil(t, mine.MyReview)
	assert.Equal(t, "Incredible brass book.", *mine.MyReview)
}

func TestGetShow_UnixTimestamps(t *testing.T) {
	ts := setupTestServer(t, Options{})
	admin, _ := ts.register(t, "admin")
	show := ts.addShow(t, admin, 2017, "Blue Devils", "Metamorph")

	before := time.Now().Unix()
	require.Equal(t, http.StatusOK, ts.api.Put(fmt.Sprintf("/api/v1/shows/%d/review", show), admin, map[string]any{"review_text": "Great show"}).Code)
	after := time.Now().Unix()

	resp := ts.api.Get(fmt.Sprintf("/api/v1/shows/%d", show))
	require.Equal(t, http.StatusOK, resp.Code)

	var page struct {
		Show struct {
			CreatedTS json.Number `json:"created_ts"`
		} `json:"show"`
		Reviews []struct {
			TS json.RawMessage `json:"ts"`
		} `json:"reviews"`
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	require.NoError(t, dec.Decode(&page))
	require.Len(t, page.Reviews, 1)

	var reviewTS int64
	require.NoError(t, json.Unmarshal(page.Reviews[0].TS, &reviewTS), "ts must be a JSON integer, got %s", page.Reviews[0].TS)
	assert.GreaterOrEqual(t, reviewTS, before)
	assert.LessOrEqual(t, reviewTS, after)

	created, err := page.Show.CreatedTS.Int64()
	require.NoError(t, err)
	assert.LessOrEqual(t, created, after)

	resp = ts.api.Post("/api/v1/admin/roles", admin, map[string]any{"name": "Judge"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var role map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &role))
	assert.IsType(t, float64(0), role["created_ts"])
}

func TestGetShow_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/shows/999")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body.Bytes()).Code)

	resp = ts.api.Get("/api/v1/shows/abc")
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp.Body.Bytes()).Code)
}

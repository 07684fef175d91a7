package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlemaps/huddle/backend/internal/model/search"
	searchService "github.com/huddlemaps/huddle/backend/internal/service/search"
	sessionService "github.com/huddlemaps/huddle/backend/internal/service/session"
)

type staticFinder []search.Place

func (f staticFinder) FindPlaces(context.Context, string) ([]search.Place, error) {
	return f, nil
}

type nopHandle struct{}

func (nopHandle) Send(any) error { return nil }

func newTestRouter(buf *bytes.Buffer) (http.Handler, *sessionService.Registry, *searchService.Registry) {
	sessions := sessionService.NewRegistry()
	searches := searchService.NewRegistry()
	router := NewRouter(Dependencies{
		Sessions: sessions,
		Searches: searches,
		Places:   staticFinder{{ID: "p1", Relevancy: 1}},
	}, zerolog.New(buf))
	return router, sessions, searches
}

func TestHealthzReportsCounts(t *testing.T) {
	var logs bytes.Buffer
	router, sessions, searches := newTestRouter(&logs)
	sessions.Create(nopHandle{})
	searches.Create("coffee", "conn-a", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok","connections":1,"searches":1}`, resp.Body.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "/healthz", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestAPIRoutesMounted(t *testing.T) {
	router, _, _ := newTestRouter(&bytes.Buffer{})

	for target, want := range map[string]int{
		"/api/searches":                http.StatusOK,
		"/api/searches/missing":        http.StatusNotFound,
		"/api/places?search_query=tea": http.StatusOK,
		"/api/chat":                    http.StatusNotFound,
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		assert.Equal(t, want, resp.Code, target)
	}
}

package places

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlemaps/huddle/backend/internal/model/search"
)

type finderFunc func(ctx context.Context, query string) ([]search.Place, error)

func (f finderFunc) FindPlaces(ctx context.Context, query string) ([]search.Place, error) {
	return f(ctx, query)
}

func setupRouter(finder Finder) *chi.Mux {
	r := chi.NewRouter()
	New(finder).RegisterRoutes(r)
	return r
}

func TestSearchPlaces(t *testing.T) {
	var gotQuery string
	r := setupRouter(finderFunc(func(_ context.Context, query string) ([]search.Place, error) {
		gotQuery = query
		return []search.Place{{ID: "p1", Name: "Blue Bottle", Relevancy: 1}}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/places?search_query=coffee+shops", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "coffee shops", gotQuery)

	var places []search.Place
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &places))
	require.Len(t, places, 1)
	assert.Equal(t, "Blue Bottle", places[0].Name)
}

func TestSearchPlacesRequiresQuery(t *testing.T) {
	r := setupRouter(finderFunc(func(context.Context, string) ([]search.Place, error) {
		t.Fatal("finder must not be called")
		return nil, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/places?search_query=%20", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSearchPlacesUpstreamFailure(t *testing.T) {
	r := setupRouter(finderFunc(func(context.Context, string) ([]search.Place, error) {
		return nil, errors.New("provider down")
	}))

	req := httptest.NewRequest(http.MethodGet, "/places?search_query=tacos", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.NotContains(t, resp.Body.String(), "provider down")
}

package coordinator

//go:generate mockgen -source=collaborators.go -destination=mocks/collaborators.go -package=mocks

import (
	"context"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
	"github.com/huddlemaps/huddle/backend/internal/service/places"
)

// QueryResolver turns a conversation into a free-text place search query.
type QueryResolver interface {
	ResolveQuery(ctx context.Context, conversation []chat.Turn) (string, error)
}

// Ranker produces free-text output about a candidate list. DescribePlaces
// returns a narrative; RankPlaces returns text expected to hold a JSON object
// with a narrative and per-place relevancies.
type Ranker interface {
	DescribePlaces(ctx context.Context, conversation []chat.Turn, places []search.Place) (string, error)
	RankPlaces(ctx context.Context, conversation []chat.Turn, places []search.Place) (string, error)
}

// PlaceSearcher runs the geographic text search.
type PlaceSearcher interface {
	SearchText(ctx context.Context, query string) ([]places.Candidate, error)
}

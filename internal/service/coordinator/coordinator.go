package coordinator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
)

// Result is the outcome of a search operation. Query is only set by
// NewSearch and Gather.
type Result struct {
	Query    string
	Response string
	Places   []search.Place
}

// Coordinator orchestrates query resolution, place search and ranking. It
// keeps no state between calls and never retries a failed collaborator.
type Coordinator struct {
	resolver QueryResolver
	ranker   Ranker
	searcher PlaceSearcher
	logger   zerolog.Logger
}

// New wires a coordinator to its collaborators.
func New(resolver QueryResolver, ranker Ranker, searcher PlaceSearcher, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		resolver: resolver,
		ranker:   ranker,
		searcher: searcher,
		logger:   logger.With().Str("component", "coordinator").Logger(),
	}
}

// NewSearch resolves a query from the conversation, searches for candidates,
// filters them and asks the ranker for a narrative. Relevancy stays at the
// baseline.
func (c *Coordinator) NewSearch(ctx context.Context, conversation []chat.Turn) (Result, error) {
	result, err := c.Gather(ctx, conversation)
	if err != nil {
		return Result{}, err
	}

	narrative, err := c.ranker.DescribePlaces(ctx, conversation, result.Places)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRanking, err)
	}
	result.Response = narrative

	c.logger.Info().
		Str("query", result.Query).
		Int("places", len(result.Places)).
		Msg("new search completed")
	return result, nil
}

// Gather runs the resolution and search steps of NewSearch without asking for
// a narrative.
func (c *Coordinator) Gather(ctx context.Context, conversation []chat.Turn) (Result, error) {
	raw, err := c.resolver.ResolveQuery(ctx, conversation)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrResolution, err)
	}
	query := cleanQuery(raw)
	if query == "" {
		return Result{}, fmt.Errorf("%w: resolver returned no usable query", ErrResolution)
	}

	found, err := c.FindPlaces(ctx, query)
	if err != nil {
		return Result{}, err
	}
	return Result{Query: query, Places: found}, nil
}

// FindPlaces runs a text search and applies the quality floor.
func (c *Coordinator) FindPlaces(ctx context.Context, query string) ([]search.Place, error) {
	candidates, err := c.searcher.SearchText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchProvider, err)
	}

	filtered := FilterCandidates(candidates)
	c.logger.Debug().
		Str("query", query).
		Int("candidates", len(candidates)).
		Int("kept", len(filtered)).
		Msg("candidates filtered")
	return filtered, nil
}

// RefineSearch re-scores places using the conversation. The output has the
// same places in the same order; only ids returned by the ranker change
// relevancy. Unparsable ranker output fails the whole call.
func (c *Coordinator) RefineSearch(ctx context.Context, conversation []chat.Turn, places []search.Place) (Result, error) {
	raw, err := c.ranker.RankPlaces(ctx, conversation, places)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRanking, err)
	}

	parsed, err := parseRanking(raw)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRanking, err)
	}

	refined := search.ClonePlaces(places)
	if refined == nil {
		refined = []search.Place{}
	}
	updated := 0
	for i := range refined {
		if score, ok := parsed.relevancies[refined[i].ID]; ok {
			refined[i].Relevancy = score
			updated++
		}
	}

	c.logger.Info().
		Int("places", len(refined)).
		Int("rescored", updated).
		Msg("search refined")
	return Result{Response: parsed.narrative, Places: refined}, nil
}

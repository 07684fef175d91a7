package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
	"github.com/huddlemaps/huddle/backend/internal/service/coordinator"
	"github.com/huddlemaps/huddle/backend/pkg/utils"
)

// SSE event names.
const (
	EventResponse = "response"
	EventEnd      = "end"
	EventError    = "error"
)

// Gatherer resolves a conversation into filtered places.
type Gatherer interface {
	Gather(ctx context.Context, conversation []chat.Turn) (coordinator.Result, error)
}

// Describer streams a narrative about places.
type Describer interface {
	StreamDescription(ctx context.Context, conversation []chat.Turn, places []search.Place) (*schema.StreamReader[*schema.Message], error)
}

// Handler streams search answers via Server-Sent Events.
type Handler struct {
	gatherer  Gatherer
	describer Describer
	logger    zerolog.Logger
}

// New creates a new stream handler
func New(gatherer Gatherer, describer Describer, logger zerolog.Logger) *Handler {
	return &Handler{
		gatherer:  gatherer,
		describer: describer,
		logger:    logger.With().Str("component", "stream").Logger(),
	}
}

// RegisterRoutes mounts the chat stream route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// ChatRequest is the body of a chat stream request.
type ChatRequest struct {
	Messages []chat.Turn `json:"messages"`
}

// Frame is the payload of every response event. Response accumulates the
// narrative so far; Places is only filled on the last frame.
type Frame struct {
	Response string         `json:"response"`
	Places   []search.Place `json:"places"`
}

type errorFrame struct {
	Error string `json:"error"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if err := h.streamAnswer(r.Context(), w, flusher, req.Messages); err != nil {
		h.logger.Error().Err(err).Msg("chat stream failed")
		if sendErr := utils.SendSSEEvent(w, flusher, EventError, errorFrame{Error: clientMessage(err)}); sendErr != nil {
			h.logger.Debug().Err(sendErr).Msg("failed to report stream error")
		}
	}
}

func (h *Handler) streamAnswer(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, conversation []chat.Turn) error {
	gathered, err := h.gatherer.Gather(ctx, conversation)
	if err != nil {
		return err
	}

	stream, err := h.describer.StreamDescription(ctx, conversation, gathered.Places)
	if err != nil {
		return fmt.Errorf("%w: %w", coordinator.ErrRanking, err)
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	var narrative strings.Builder
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return fmt.Errorf("%w: %w", coordinator.ErrRanking, recvErr)
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		chunks = append(chunks, chunk)
		narrative.WriteString(chunk.Content)
		if err := utils.SendSSEEvent(w, flusher, EventResponse, Frame{Response: narrative.String(), Places: []search.Place{}}); err != nil {
			return err
		}
	}

	final := Frame{Places: gathered.Places}
	if len(chunks) > 0 {
		message, err := schema.ConcatMessages(chunks)
		if err != nil {
			return fmt.Errorf("%w: %w", coordinator.ErrRanking, err)
		}
		final.Response = message.Content
	}
	if final.Places == nil {
		final.Places = []search.Place{}
	}

	if err := utils.SendSSEEvent(w, flusher, EventResponse, final); err != nil {
		return err
	}
	if err := utils.SendSSEEvent(w, flusher, EventEnd, struct{}{}); err != nil {
		return err
	}

	h.logger.Info().Str("query", gathered.Query).Int("places", len(final.Places)).Msg("chat stream completed")
	return nil
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrResolution):
		return "could not understand the request"
	case errors.Is(err, coordinator.ErrSearchProvider):
		return "place search failed"
	case errors.Is(err, coordinator.ErrRanking):
		return "could not describe the places"
	default:
		return "chat stream failed"
	}
}

package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
	"github.com/huddlemaps/huddle/backend/internal/service/coordinator"
)

type stubGatherer struct {
	result coordinator.Result
	err    error
	got    []chat.Turn
}

func (s *stubGatherer) Gather(_ context.Context, conversation []chat.Turn) (coordinator.Result, error) {
	s.got = conversation
	return s.result, s.err
}

type stubDescriber struct {
	chunks []string
	err    error
}

func (s *stubDescriber) StreamDescription(context.Context, []chat.Turn, []search.Place) (*schema.StreamReader[*schema.Message], error) {
	if s.err != nil {
		return nil, s.err
	}
	msgs := make([]*schema.Message, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		msgs = append(msgs, schema.AssistantMessage(chunk, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func postChat(h *Handler, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatStreamsAccumulatedResponse(t *testing.T) {
	gatherer := &stubGatherer{result: coordinator.Result{
		Query:  "coffee shops",
		Places: []search.Place{{ID: "p1", Name: "Blue Bottle", Relevancy: 1}},
	}}
	describer := &stubDescriber{chunks: []string{"One ", "", "good spot."}}

	resp := postChat(New(gatherer, describer, zerolog.Nop()), `{"messages":[{"role":"user","content":"coffee?"}]}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	assert.Equal(t, []chat.Turn{{Role: "user", Content: "coffee?"}}, gatherer.got)

	want := strings.Join([]string{
		"event: response\ndata: {\"response\":\"One \",\"places\":[]}\n\n",
		"event: response\ndata: {\"response\":\"One good spot.\",\"places\":[]}\n\n",
		"event: response\ndata: {\"response\":\"One good spot.\",\"places\":[{\"id\":\"p1\",\"name\":\"Blue Bottle\",\"latitude\":0,\"longitude\":0,\"relevancy\":1}]}\n\n",
		"event: end\ndata: {}\n\n",
	}, "")
	assert.Equal(t, want, resp.Body.String())
}

func TestChatWithNoPlaces(t *testing.T) {
	gatherer := &stubGatherer{result: coordinator.Result{Query: "coffee shops"}}
	describer := &stubDescriber{}

	resp := postChat(New(gatherer, describer, zerolog.Nop()), `{"messages":[]}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "event: response\ndata: {\"response\":\"\",\"places\":[]}\n\nevent: end\ndata: {}\n\n", resp.Body.String())
}

func TestChatReportsFailures(t *testing.T) {
	cases := map[string]struct {
		gatherer  *stubGatherer
		describer *stubDescriber
		message   string
	}{
		"resolution": {
			gatherer:  &stubGatherer{err: fmt.Errorf("%w: empty", coordinator.ErrResolution)},
			describer: &stubDescriber{},
			message:   "could not understand the request",
		},
		"search provider": {
			gatherer:  &stubGatherer{err: fmt.Errorf("%w: 503", coordinator.ErrSearchProvider)},
			describer: &stubDescriber{},
			message:   "place search failed",
		},
		"describe": {
			gatherer:  &stubGatherer{},
			describer: &stubDescriber{err: errors.New("model offline")},
			message:   "could not describe the places",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := postChat(New(tc.gatherer, tc.describer, zerolog.Nop()), `{"messages":[]}`)

			require.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, fmt.Sprintf("event: error\ndata: {\"error\":%q}\n\n", tc.message), resp.Body.String())
		})
	}
}

func TestChatRejectsInvalidBody(t *testing.T) {
	resp := postChat(New(&stubGatherer{}, &stubDescriber{}, zerolog.Nop()), `{"messages":`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

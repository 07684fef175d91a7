package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
)

type fakeChatModel struct {
	mu     sync.Mutex
	reply  string
	chunks []string
	err    error
	lastIn []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIn = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIn = input
	if f.err != nil {
		return nil, f.err
	}
	msgs := make([]*schema.Message, 0, len(f.chunks))
	for _, chunk := range f.chunks {
		msgs = append(msgs, schema.AssistantMessage(chunk, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func (f *fakeChatModel) input() []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastIn
}

func newTestService(t *testing.T, fake *fakeChatModel) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), fake, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func samplePlaces() []search.Place {
	rating := 4.6
	return []search.Place{
		{ID: "p1", Name: "Blue Bottle", Type: "cafe", Rating: &rating, Relevancy: 1},
		{ID: "p2", Name: "Ramen {Ya}", Type: "restaurant", Relevancy: 1},
	}
}

func TestNewServiceRequiresModel(t *testing.T) {
	_, err := NewService(context.Background(), nil, zerolog.Nop())
	require.Error(t, err)
}

func TestResolveQuerySendsConversation(t *testing.T) {
	fake := &fakeChatModel{reply: "  coffee near Shibuya \n"}
	svc := newTestService(t, fake)

	conversation := []chat.Turn{
		{Role: "user", Content: "we want coffee"},
		{Role: "assistant", Content: "any area?"},
		{Role: "user", Content: "Shibuya"},
		{Role: "user", Content: "   "},
	}

	query, err := svc.ResolveQuery(context.Background(), conversation)
	require.NoError(t, err)
	assert.Equal(t, "coffee near Shibuya", query)

	input := fake.input()
	require.Len(t, input, 5)
	assert.Equal(t, schema.System, input[0].Role)
	assert.Equal(t, schema.User, input[1].Role)
	assert.Equal(t, "we want coffee", input[1].Content)
	assert.Equal(t, schema.Assistant, input[2].Role)
	assert.Equal(t, "Shibuya", input[3].Content)
	assert.Equal(t, schema.User, input[4].Role)
	assert.Equal(t, resolveUserPrompt, input[4].Content)
}

func TestResolveQueryEmptyCompletion(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: " \n "})

	_, err := svc.ResolveQuery(context.Background(), []chat.Turn{{Role: "user", Content: "hi"}})
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestResolveQueryModelFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := newTestService(t, &fakeChatModel{err: boom})

	_, err := svc.ResolveQuery(context.Background(), []chat.Turn{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDescribePlacesRendersPlaces(t *testing.T) {
	fake := &fakeChatModel{reply: "Two solid picks."}
	svc := newTestService(t, fake)

	narrative, err := svc.DescribePlaces(context.Background(), nil, samplePlaces())
	require.NoError(t, err)
	assert.Equal(t, "Two solid picks.", narrative)

	input := fake.input()
	require.Len(t, input, 2)
	last := input[len(input)-1].Content
	assert.Contains(t, last, `"id":"p1"`)
	assert.Contains(t, last, `"name":"Ramen {Ya}"`)
	assert.Contains(t, last, `"rating":4.6`)
}

func TestDescribePlacesWithNoPlaces(t *testing.T) {
	fake := &fakeChatModel{reply: "Nothing matched."}
	svc := newTestService(t, fake)

	_, err := svc.DescribePlaces(context.Background(), nil, nil)
	require.NoError(t, err)

	input := fake.input()
	assert.True(t, strings.HasSuffix(input[len(input)-1].Content, "[]"))
}

func TestDescribePlacesAllowsEmptyNarrative(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: " \n "})

	narrative, err := svc.DescribePlaces(context.Background(), nil, samplePlaces())
	require.NoError(t, err)
	assert.Empty(t, narrative)
}

func TestRankPlacesEmptyCompletion(t *testing.T) {
	svc := newTestService(t, &fakeChatModel{reply: ""})

	_, err := svc.RankPlaces(context.Background(), nil, samplePlaces())
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestRankPlacesIncludesFormatExample(t *testing.T) {
	fake := &fakeChatModel{reply: `{"response":"ok","relevancies":[]}`}
	svc := newTestService(t, fake)

	raw, err := svc.RankPlaces(context.Background(), []chat.Turn{{Role: "user", Content: "cheap"}}, samplePlaces())
	require.NoError(t, err)
	assert.Equal(t, `{"response":"ok","relevancies":[]}`, raw)

	input := fake.input()
	require.NotEmpty(t, input)
	assert.Contains(t, input[0].Content, rankFormatExample)
}

func TestStreamDescription(t *testing.T) {
	fake := &fakeChatModel{chunks: []string{"Two ", "solid ", "picks."}}
	svc := newTestService(t, fake)

	stream, err := svc.StreamDescription(context.Background(), nil, samplePlaces())
	require.NoError(t, err)
	defer stream.Close()

	var builder strings.Builder
	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		builder.WriteString(msg.Content)
	}
	assert.Equal(t, "Two solid picks.", builder.String())
}

func TestBuildHistoryKeepsMostRecentTurns(t *testing.T) {
	turns := make([]chat.Turn, 0, historyLimit+5)
	for i := 0; i < historyLimit+5; i++ {
		turns = append(turns, chat.Turn{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}

	history := buildHistory(turns)
	require.Len(t, history, historyLimit)
	assert.Equal(t, "turn 5", history[0].Content)
	assert.Equal(t, fmt.Sprintf("turn %d", historyLimit+4), history[len(history)-1].Content)
}

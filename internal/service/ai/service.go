package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
)

// historyLimit caps how many trailing conversation turns reach the model.
const historyLimit = 20

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

type runnable = compose.Runnable[map[string]any, *schema.Message]

// Service runs the query resolution, description and ranking prompts against
// a chat model.
type Service struct {
	chatModel model.BaseChatModel
	resolver  runnable
	describer runnable
	ranker    runnable
	logger    zerolog.Logger
}

// NewService compiles one chain per prompt on top of chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel, logger zerolog.Logger) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	resolver, err := compileChain(ctx, chatModel, resolveSystemPrompt, resolveUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to compile resolve chain: %w", err)
	}
	describer, err := compileChain(ctx, chatModel, describeSystemPrompt, describeUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to compile describe chain: %w", err)
	}
	ranker, err := compileChain(ctx, chatModel, rankSystemPrompt, rankUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rank chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		resolver:  resolver,
		describer: describer,
		ranker:    ranker,
		logger:    logger.With().Str("component", "ai").Logger(),
	}, nil
}

func compileChain(ctx context.Context, chatModel model.BaseChatModel, system, user string) (runnable, error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage(user),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// ResolveQuery asks the model for a single search query that captures the
// conversation. The raw completion is returned; callers clean it up.
func (s *Service) ResolveQuery(ctx context.Context, conversation []chat.Turn) (string, error) {
	msg, err := s.resolver.Invoke(ctx, map[string]any{
		"history": buildHistory(conversation),
	})
	if err != nil {
		return "", fmt.Errorf("failed to run resolve chain: %w", err)
	}
	content, err := completionText(msg)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("query", content).Msg("query resolved")
	return content, nil
}

// DescribePlaces returns a short narrative about places. The narrative may be
// empty.
func (s *Service) DescribePlaces(ctx context.Context, conversation []chat.Turn, places []search.Place) (string, error) {
	msg, err := s.describer.Invoke(ctx, s.placesInput(conversation, places))
	if err != nil {
		return "", fmt.Errorf("failed to run describe chain: %w", err)
	}
	if msg == nil {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(msg.Content)

	s.logger.Debug().Int("places", len(places)).Int("length", len(content)).Msg("places described")
	return content, nil
}

// StreamDescription is the streaming form of DescribePlaces.
func (s *Service) StreamDescription(ctx context.Context, conversation []chat.Turn, places []search.Place) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.describer.Stream(ctx, s.placesInput(conversation, places))
	if err != nil {
		return nil, fmt.Errorf("failed to stream describe chain: %w", err)
	}
	return stream, nil
}

// RankPlaces asks the model to score places. The raw completion is returned
// and is expected to hold a JSON object with a narrative and relevancies.
func (s *Service) RankPlaces(ctx context.Context, conversation []chat.Turn, places []search.Place) (string, error) {
	input := s.placesInput(conversation, places)
	input["format"] = rankFormatExample

	msg, err := s.ranker.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run rank chain: %w", err)
	}
	content, err := completionText(msg)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Int("places", len(places)).Int("length", len(content)).Msg("places ranked")
	return content, nil
}

// ChatModel returns the underlying model.
func (s *Service) ChatModel() model.BaseChatModel {
	return s.chatModel
}

func (s *Service) placesInput(conversation []chat.Turn, places []search.Place) map[string]any {
	return map[string]any{
		"history": buildHistory(conversation),
		"places":  renderPlaces(places),
	}
}

func completionText(msg *schema.Message) (string, error) {
	if msg == nil {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

func buildHistory(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	startIdx := 0
	if len(turns) > historyLimit {
		startIdx = len(turns) - historyLimit
	}

	history := make([]*schema.Message, 0, len(turns)-startIdx)
	for _, turn := range turns[startIdx:] {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		if turn.IsAssistant() {
			history = append(history, schema.AssistantMessage(content, nil))
			continue
		}
		history = append(history, schema.UserMessage(content))
	}
	return history
}

// promptPlace is the subset of a place the model gets to see.
type promptPlace struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	Relevancy float64  `json:"relevancy"`
}

func renderPlaces(places []search.Place) string {
	if len(places) == 0 {
		return "[]"
	}

	view := make([]promptPlace, 0, len(places))
	for _, place := range places {
		view = append(view, promptPlace{
			ID:        place.ID,
			Name:      place.Name,
			Type:      place.Type,
			Rating:    place.Rating,
			Relevancy: place.Relevancy,
		})
	}

	data, err := json.Marshal(view)
	if err != nil {
		return "[]"
	}
	return string(data)
}

package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huddlemaps/huddle/backend/internal/model/chat"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
)

// Inbound message types.
const (
	TypeNewSearchSession  = "NEW_SEARCH_SESSION"
	TypeRefineSearch      = "REFINE_SEARCH"
	TypeJoinSearchSession = "JOIN_SEARCH_SESSION"
)

// Outbound message types.
const (
	TypeSessionCreated       = "sessionCreated"
	TypeSessionUpdate        = "sessionUpdate"
	TypeSearchSessionCreated = "searchSessionCreated"
	TypeSearchSessionJoined  = "searchSessionJoined"
	TypeSearchRefined        = "searchRefined"
	TypeError                = "error"
)

// ErrMalformedMessage marks frames that are not a JSON object.
var ErrMalformedMessage = errors.New("malformed message")

// Inbound is a decoded client frame. Payload is the whole object and becomes
// the connection's stored state.
type Inbound struct {
	Type    string
	Payload map[string]any
	raw     []byte
}

// Decode parses a raw frame. Anything other than a JSON object is rejected
// with ErrMalformedMessage.
func Decode(raw []byte) (Inbound, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Inbound{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	if payload == nil {
		return Inbound{}, fmt.Errorf("%w: expected a JSON object", ErrMalformedMessage)
	}

	msgType, _ := payload["type"].(string)
	return Inbound{Type: msgType, Payload: payload, raw: raw}, nil
}

// Has reports whether key is present with a non-null value.
func (in Inbound) Has(key string) bool {
	value, ok := in.Payload[key]
	return ok && value != nil
}

// NewSearchSession is sent by a client that wants to start a search.
type NewSearchSession struct {
	Query    string      `json:"query,omitempty"`
	Messages []chat.Turn `json:"messages"`
}

// RefineSearch asks for the given places to be re-scored. SearchID is
// optional and binds the refinement to a shared search.
type RefineSearch struct {
	SearchID string         `json:"searchId,omitempty"`
	Messages []chat.Turn    `json:"messages"`
	Places   []search.Place `json:"places"`
}

// JoinSearchSession adds the sender to an existing search.
type JoinSearchSession struct {
	SearchID string `json:"searchId"`
}

// AsNewSearchSession decodes the frame as a NEW_SEARCH_SESSION request.
func (in Inbound) AsNewSearchSession() (NewSearchSession, error) {
	var msg NewSearchSession
	if err := json.Unmarshal(in.raw, &msg); err != nil {
		return NewSearchSession{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return msg, nil
}

// AsRefineSearch decodes the frame as a REFINE_SEARCH request.
func (in Inbound) AsRefineSearch() (RefineSearch, error) {
	var msg RefineSearch
	if err := json.Unmarshal(in.raw, &msg); err != nil {
		return RefineSearch{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return msg, nil
}

// AsJoinSearchSession decodes the frame as a JOIN_SEARCH_SESSION request.
func (in Inbound) AsJoinSearchSession() (JoinSearchSession, error) {
	var msg JoinSearchSession
	if err := json.Unmarshal(in.raw, &msg); err != nil {
		return JoinSearchSession{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return msg, nil
}

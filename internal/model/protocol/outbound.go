package protocol

import "github.com/huddlemaps/huddle/backend/internal/model/search"

// SessionCreated greets a freshly opened connection.
type SessionCreated struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// SessionUpdate echoes the state stored for the connection.
type SessionUpdate struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId"`
	Data      map[string]any `json:"data"`
}

// SearchResult carries a narrative and the places it describes.
type SearchResult struct {
	Response string         `json:"response"`
	Places   []search.Place `json:"places"`
}

// SearchSessionData flattens the search session next to the search result.
// The outer Places field shadows the embedded one when encoded.
type SearchSessionData struct {
	search.Session
	Response string         `json:"response"`
	Places   []search.Place `json:"places"`
}

// SearchSessionCreated answers NEW_SEARCH_SESSION.
type SearchSessionCreated struct {
	Type     string            `json:"type"`
	SearchID string            `json:"searchId"`
	Data     SearchSessionData `json:"data"`
}

// SearchSessionJoined answers a successful JOIN_SEARCH_SESSION.
type SearchSessionJoined struct {
	Type     string         `json:"type"`
	SearchID string         `json:"searchId"`
	Data     search.Session `json:"data"`
}

// SearchRefined answers REFINE_SEARCH.
type SearchRefined struct {
	Type     string       `json:"type"`
	SearchID string       `json:"searchId,omitempty"`
	Data     SearchResult `json:"data"`
}

// Error reports a recoverable failure to the client.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewSessionCreated(sessionID string) SessionCreated {
	return SessionCreated{Type: TypeSessionCreated, SessionID: sessionID}
}

func NewSessionUpdate(sessionID string, data map[string]any) SessionUpdate {
	return SessionUpdate{Type: TypeSessionUpdate, SessionID: sessionID, Data: data}
}

func NewSearchSessionCreated(session search.Session, response string, places []search.Place) SearchSessionCreated {
	return SearchSessionCreated{
		Type:     TypeSearchSessionCreated,
		SearchID: session.ID,
		Data: SearchSessionData{
			Session:  session,
			Response: response,
			Places:   places,
		},
	}
}

func NewSearchSessionJoined(session search.Session) SearchSessionJoined {
	return SearchSessionJoined{Type: TypeSearchSessionJoined, SearchID: session.ID, Data: session}
}

func NewSearchRefined(searchID, response string, places []search.Place) SearchRefined {
	return SearchRefined{
		Type:     TypeSearchRefined,
		SearchID: searchID,
		Data:     SearchResult{Response: response, Places: places},
	}
}

func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}

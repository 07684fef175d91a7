package session

// Session is the lightweight per-connection record. Data holds the last JSON
// object the client sent and is replaced wholesale on every inbound message.
type Session struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data,omitempty"`
}

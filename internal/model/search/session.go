package search

import "time"

// Session is a collaborative search shared by its members.
type Session struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy"`
	Members   []string  `json:"members"`
	Places    []Place   `json:"places"`
}

// HasMember reports whether connectionID is part of the search.
func (s Session) HasMember(connectionID string) bool {
	for _, member := range s.Members {
		if member == connectionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices with the registry.
func (s Session) Clone() Session {
	cloned := s
	cloned.Members = append([]string(nil), s.Members...)
	cloned.Places = ClonePlaces(s.Places)
	return cloned
}

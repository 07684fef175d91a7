package session

import (
	"maps"
	"sync"

	"github.com/google/uuid"
	"github.com/huddlemaps/huddle/backend/internal/model/session"
)

// Handle is the transport side of a connection. The registry only stores it
// so replies can be routed back by session id.
type Handle interface {
	Send(v any) error
}

type entry struct {
	session session.Session
	handle  Handle
}

// Registry tracks one session per open connection.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry. Construct one per process and inject
// it where needed.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Create allocates a session for a newly opened connection.
func (r *Registry) Create(handle Handle) session.Session {
	created := session.Session{ID: uuid.NewString()}

	r.mu.Lock()
	r.entries[created.ID] = &entry{session: created, handle: handle}
	r.mu.Unlock()

	return created
}

// Get returns a copy of the session.
func (r *Registry) Get(id string) (session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return session.Session{}, false
	}
	return session.Session{ID: e.session.ID, Data: maps.Clone(e.session.Data)}, true
}

// Handle returns the transport handle bound to the session.
func (r *Registry) Handle(id string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok || e.handle == nil {
		return nil, false
	}
	return e.handle, true
}

// Update replaces the stored client data. Unknown ids are ignored since a
// message can race with the connection going away.
func (r *Registry) Update(id string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return
	}
	e.session.Data = maps.Clone(data)
}

// Delete removes the session and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Count returns the number of open sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

package search

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huddlemaps/huddle/backend/internal/model/search"
)

// Patch lists the fields Update may change. Nil fields are left untouched.
// Membership is deliberately absent: it only changes through Join.
type Patch struct {
	Query  *string
	Places []search.Place
}

// Registry stores collaborative searches in memory. Every method runs as a
// single critical section; concurrent updates to the same search are
// last-writer-wins.
type Registry struct {
	mu       sync.RWMutex
	searches map[string]*search.Session
	now      func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		searches: make(map[string]*search.Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new search whose only member is its creator.
func (r *Registry) Create(query, creatorID string, places []search.Place) search.Session {
	now := r.now()
	created := &search.Session{
		ID:        uuid.NewString(),
		Query:     query,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: creatorID,
		Members:   []string{creatorID},
		Places:    search.ClonePlaces(places),
	}
	if created.Places == nil {
		created.Places = []search.Place{}
	}

	r.mu.Lock()
	r.searches[created.ID] = created
	r.mu.Unlock()

	return created.Clone()
}

// Get returns a copy of the search.
func (r *Registry) Get(id string) (search.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.searches[id]
	if !ok {
		return search.Session{}, false
	}
	return found.Clone(), true
}

// Join appends connectionID to the members unless it is already there. It
// reports false when the search does not exist.
func (r *Registry) Join(id, connectionID string) (search.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, ok := r.searches[id]
	if !ok {
		return search.Session{}, false
	}
	if !found.HasMember(connectionID) {
		found.Members = append(found.Members, connectionID)
		found.UpdatedAt = r.now()
	}
	return found.Clone(), true
}

// IsMember reports whether connectionID belongs to the search.
func (r *Registry) IsMember(id, connectionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.searches[id]
	return ok && found.HasMember(connectionID)
}

// Update merges the patch into the search and refreshes UpdatedAt.
func (r *Registry) Update(id string, patch Patch) (search.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found, ok := r.searches[id]
	if !ok {
		return search.Session{}, false
	}
	if patch.Query != nil {
		found.Query = *patch.Query
	}
	if patch.Places != nil {
		found.Places = search.ClonePlaces(patch.Places)
	}
	found.UpdatedAt = r.now()
	return found.Clone(), true
}

// Delete removes the search and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.searches[id]; !ok {
		return false
	}
	delete(r.searches, id)
	return true
}

// List returns every search, oldest first.
func (r *Registry) List() []search.Session {
	r.mu.RLock()
	all := make([]search.Session, 0, len(r.searches))
	for _, s := range r.searches {
		all = append(all, s.Clone())
	}
	r.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all
}

// Count returns the number of stored searches.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.searches)
}

package chat

import (
	"sort"
	"sync"
)

type entry struct {
	userID   uint
	adapters map[Kind]Adapter
}

// Registry is the single source of truth for which users are reachable and
// over which adapters. All mutations and their first/last transition checks
// happen under one lock, so two connections racing for the same user can
// never both observe a 0→1 or 1→0 transition.
type Registry struct {
	mu    sync.RWMutex
	users map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[string]*entry)}
}

// Admit inserts or replaces the adapter of the given kind for username. It
// returns the superseded adapter of the same kind, if any (closing it is the
// caller's job), and whether this is the user's first live adapter.
func (r *Registry) Admit(userID uint, username string, kind Kind, a Adapter) (prev Adapter, first bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.users[username]
	if !ok {
		e = &entry{userID: userID, adapters: make(map[Kind]Adapter, 2)}
		r.users[username] = e
	}
	e.userID = userID
	first = len(e.adapters) == 0
	prev = e.adapters[kind]
	e.adapters[kind] = a
	return prev, first
}

// Evict removes the adapter of the given kind, but only if a is still the
// registered handle for that slot; a superseded adapter closing late must
// not evict its replacement. It reports whether the user's adapter set is
// now empty.
func (r *Registry) Evict(username string, kind Kind, a Adapter) (last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.users[username]
	if !ok || e.adapters[kind] != a {
		return false
	}
	delete(e.adapters, kind)
	if len(e.adapters) == 0 {
		delete(r.users, username)
		return true
	}
	return false
}

// Resolve returns all live adapters for a username (0, 1, or 2 entries).
func (r *Registry) Resolve(username string) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return adaptersOf(r.users[username])
}

// ResolveID returns all live adapters for a user id.
func (r *Registry) ResolveID(userID uint) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.users {
		if e.userID == userID {
			return adaptersOf(e)
		}
	}
	return nil
}

// Others returns the live adapters of every user except the named one, for
// presence and typing broadcasts.
func (r *Registry) Others(username string) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Adapter
	for name, e := range r.users {
		if name == username {
			continue
		}
		out = append(out, adaptersOf(e)...)
	}
	return out
}

// OnlineUsers answers "who is online now", sorted by username for stable
// snapshots.
func (r *Registry) OnlineUsers() []UserRef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]UserRef, 0, len(r.users))
	for name, e := range r.users {
		out = append(out, UserRef{ID: e.userID, Username: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func adaptersOf(e *entry) []Adapter {
	if e == nil {
		return nil
	}
	out := make([]Adapter, 0, len(e.adapters))
	if a, ok := e.adapters[KindEvent]; ok {
		out = append(out, a)
	}
	if a, ok := e.adapters[KindLine]; ok {
		out = append(out, a)
	}
	return out
}

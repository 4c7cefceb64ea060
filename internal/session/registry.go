package session

import (
	"sort"
	"sync"

	"github.com/chrisdamba/fooder/internal/graph"
)

// Registry hands out one Session per user name, creating it on first use.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	graph    *graph.Graph
	opts     Options
	sessions map[string]*Session
}

func NewRegistry(g *graph.Graph, opts Options) *Registry {
	return &Registry{
		graph:    g,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for user, creating it if needed. The second result
// reports whether the session already existed.
func (r *Registry) Get(user string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[user]; ok {
		return s, true
	}
	s := New(user, r.graph, r.opts)
	r.sessions[user] = s
	return s, false
}

// Users lists the known user names in order.
func (r *Registry) Users() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]string, 0, len(r.sessions))
	for u := range r.sessions {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

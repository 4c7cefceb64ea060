// Package graph holds the restaurant similarity graph: the catalog of
// restaurant vertices, the symmetric weighted adjacency between them, and the
// queries that drive recommendations.
//
// # Invariants
//
//   - A vertex never lists itself as a neighbour.
//   - If A lists B with weight w, B lists A with weight w.
//   - Vertices are never removed; only review scores and edges change.
//
// # Thread Safety
//
// A Graph is safe for concurrent use. Queries take a shared lock and score
// snapshots of the vertices; feedback, edge insertion and Build take the
// exclusive lock, so review-score updates are serialised.
package graph

import (
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/chrisdamba/fooder/internal/models"
	"github.com/chrisdamba/fooder/internal/similarity"
	"github.com/rs/zerolog"
)

// DefaultMaxVertices bounds the O(n²) construction pass.
const DefaultMaxVertices = 5000

var ErrSelfLoop = errors.New("a restaurant cannot be its own neighbour")

type Options struct {
	// MaxVertices is the largest catalog Build accepts. Default: DefaultMaxVertices.
	MaxVertices int
	// Workers is the number of goroutines used by Build. Default: runtime.NumCPU().
	Workers int
	// Seed feeds the random source used for random picks and samples.
	Seed int64
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Match is one entry of a top-k result.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Edge is one undirected adjacency entry, reported with From < To.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

type Graph struct {
	mu        sync.RWMutex
	scorer    similarity.Scorer
	vertices  map[string]*models.Restaurant
	order     []string // catalog order, for deterministic iteration
	adjacency map[string]map[string]float64

	maxVertices int
	workers     int
	log         zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates an empty graph that ranks and builds edges with scorer.
func New(scorer similarity.Scorer, opts Options) *Graph {
	if opts.MaxVertices <= 0 {
		opts.MaxVertices = DefaultMaxVertices
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "graph").Logger()
	}
	return &Graph{
		scorer:      scorer,
		vertices:    make(map[string]*models.Restaurant),
		adjacency:   make(map[string]map[string]float64),
		maxVertices: opts.MaxVertices,
		workers:     opts.Workers,
		log:         log,
		rng:         rand.New(rand.NewSource(opts.Seed)),
	}
}

// Scorer returns the similarity formulation this graph was built with.
func (g *Graph) Scorer() similarity.Scorer {
	return g.scorer
}

// AddVertex validates r and stores a copy of it. Names are unique: a second
// record with the same name is rejected.
func (g *Graph) AddVertex(r models.Restaurant) error {
	if err := r.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.vertices[r.Name]; exists {
		return &models.InvalidRecordError{Name: r.Name, Field: "name", Reason: "duplicate restaurant name"}
	}
	g.vertices[r.Name] = &r
	g.order = append(g.order, r.Name)
	return nil
}

// Load adds every record in order, stopping at the first invalid one.
func (g *Graph) Load(records []models.Restaurant) error {
	for _, r := range records {
		if err := g.AddVertex(r); err != nil {
			return err
		}
	}
	g.log.Debug().Int("vertices", g.Len()).Msg("catalog loaded")
	return nil
}

// AddEdge inserts or overwrites the symmetric edge between a and b.
func (g *Graph) AddEdge(a, b string, weight float64) error {
	if a == b {
		return ErrSelfLoop
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireLocked(a, b); err != nil {
		return err
	}
	g.setEdgeLocked(a, b, weight)
	return nil
}

func (g *Graph) setEdgeLocked(a, b string, weight float64) {
	if g.adjacency[a] == nil {
		g.adjacency[a] = make(map[string]float64)
	}
	if g.adjacency[b] == nil {
		g.adjacency[b] = make(map[string]float64)
	}
	g.adjacency[a][b] = weight
	g.adjacency[b][a] = weight
}

func (g *Graph) requireLocked(names ...string) error {
	for _, name := range names {
		if _, ok := g.vertices[name]; !ok {
			return &models.NotFoundError{Name: name}
		}
	}
	return nil
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Restaurant returns a copy of the named vertex.
func (g *Graph) Restaurant(name string) (models.Restaurant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.vertices[name]
	if !ok {
		return models.Restaurant{}, &models.NotFoundError{Name: name}
	}
	return *r, nil
}

// Names returns the sorted vertex names, restricted to category unless it is
// models.CategoryUnknown.
func (g *Graph) Names(category models.Category) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.order))
	for _, name := range g.order {
		if category == models.CategoryUnknown || g.vertices[name].Category == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Adjacent reports whether a and b share an edge. Unknown names are never adjacent.
func (g *Graph) Adjacent(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adjacency[a][b]
	return ok
}

// Weight returns the weight of the edge between a and b, if any.
func (g *Graph) Weight(a, b string) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	w, ok := g.adjacency[a][b]
	return w, ok
}

// Neighbours returns a copy of name's adjacency.
func (g *Graph) Neighbours(name string) (map[string]float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.requireLocked(name); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(g.adjacency[name]))
	for n, w := range g.adjacency[name] {
		out[n] = w
	}
	return out, nil
}

// Degree returns the number of neighbours of name.
func (g *Graph) Degree(name string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if err := g.requireLocked(name); err != nil {
		return 0, err
	}
	return len(g.adjacency[name]), nil
}

// Edges lists every edge once, sorted by (From, To).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var edges []Edge
	for from, neighbours := range g.adjacency {
		for to, w := range neighbours {
			if from < to {
				edges = append(edges, Edge{From: from, To: to, Weight: w})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

func (g *Graph) String() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var edges int
	for _, n := range g.adjacency {
		edges += len(n)
	}
	return fmt.Sprintf("graph(%s): %d vertices, %d edges", g.scorer.Name(), len(g.order), edges/2)
}

package graph

import (
	"sort"

	"github.com/chrisdamba/fooder/internal/geo"
	"github.com/chrisdamba/fooder/internal/models"
)

// Constraints select restaurants by exact category, exact price tier and a
// haversine radius around Origin.
type Constraints struct {
	Category      models.Category
	PriceTier     models.PriceTier
	MaxDistanceKm float64
	Origin        models.Location
}

// TopKSimilar scores name against every other vertex, not just its existing
// edges, and returns the k closest. Ties are broken by name. With connectAll
// the returned matches are written back as edges, overwriting older weights.
func (g *Graph) TopKSimilar(name string, k int, connectAll bool) ([]Match, error) {
	matches, err := g.rank(name)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Match{}, nil
	}
	if len(matches) > k {
		matches = matches[:k]
	}

	if connectAll && len(matches) > 0 {
		g.mu.Lock()
		for _, m := range matches {
			g.setEdgeLocked(name, m.Name, m.Score)
		}
		g.mu.Unlock()
	}
	return matches, nil
}

func (g *Graph) rank(name string) ([]Match, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	anchor, ok := g.vertices[name]
	if !ok {
		return nil, &models.NotFoundError{Name: name}
	}
	matches := make([]Match, 0, len(g.order)-1)
	for _, other := range g.order {
		if other == name {
			continue
		}
		matches = append(matches, Match{Name: other, Score: g.scorer.Score(*anchor, *g.vertices[other])})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return g.scorer.Closer(matches[i].Score, matches[j].Score)
		}
		return matches[i].Name < matches[j].Name
	})
	return matches, nil
}

// FilterByConstraints returns copies of the matching restaurants ordered by
// distance from c.Origin, then by name. An empty result is not an error.
func (g *Graph) FilterByConstraints(c Constraints) []models.Restaurant {
	g.mu.RLock()
	defer g.mu.RUnlock()

	type hit struct {
		r    models.Restaurant
		dist float64
	}
	var hits []hit
	for _, name := range g.order {
		r := g.vertices[name]
		if r.Category != c.Category || r.PriceTier != c.PriceTier {
			continue
		}
		d := geo.Haversine(c.Origin, r.Location)
		if d <= c.MaxDistanceKm {
			hits = append(hits, hit{r: *r, dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].r.Name < hits[j].r.Name
	})

	out := make([]models.Restaurant, len(hits))
	for i, h := range hits {
		out[i] = h.r
	}
	return out
}

// RandomRestaurant picks a vertex uniformly at random.
func (g *Graph) RandomRestaurant() (models.Restaurant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.order) == 0 {
		return models.Restaurant{}, &models.EmptyCatalogError{}
	}
	g.rngMu.Lock()
	i := g.rng.Intn(len(g.order))
	g.rngMu.Unlock()
	return *g.vertices[g.order[i]], nil
}

// RandomSample returns up to n distinct restaurants whose names are not in
// exclude. It returns fewer, possibly none, when exclude covers the catalog.
func (g *Graph) RandomSample(n int, exclude map[string]struct{}) ([]models.Restaurant, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.order) == 0 {
		return nil, &models.EmptyCatalogError{}
	}

	candidates := make([]string, 0, len(g.order))
	for _, name := range g.order {
		if _, skip := exclude[name]; !skip {
			candidates = append(candidates, name)
		}
	}

	g.rngMu.Lock()
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	g.rngMu.Unlock()

	if n < 0 {
		n = 0
	}
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]models.Restaurant, len(candidates))
	for i, name := range candidates {
		out[i] = *g.vertices[name]
	}
	return out, nil
}

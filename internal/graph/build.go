package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/fooder/internal/models"
	"golang.org/x/sync/errgroup"
)

// Progress is called once per finished row of the pairwise pass. It is
// called from several goroutines at once.
type Progress func(rows int)

// Build recomputes every edge from scratch: each unordered pair of vertices is
// scored once, and pairs the scorer considers relevant become symmetric edges.
// Rows are handed out to Workers goroutines; each worker collects its own
// edges and the adjacency is only written after all of them return, so a
// query never observes a half-built graph.
func (g *Graph) Build(ctx context.Context, progress Progress) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := len(g.order)
	if n > g.maxVertices {
		return &models.ConfigurationError{
			Field:  "max_vertices",
			Reason: fmt.Sprintf("catalog has %d restaurants, limit is %d", n, g.maxVertices),
		}
	}

	start := time.Now()
	snapshot := make([]models.Restaurant, n)
	for i, name := range g.order {
		snapshot[i] = *g.vertices[name]
	}

	workers := g.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	found := make([][]Edge, workers)
	rows := make(chan int)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(rows)
		for i := 0; i < n; i++ {
			select {
			case rows <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			for i := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				a := snapshot[i]
				for j := i + 1; j < n; j++ {
					b := snapshot[j]
					score := g.scorer.Score(a, b)
					if g.scorer.Relevant(score) {
						found[w] = append(found[w], Edge{From: a.Name, To: b.Name, Weight: score})
					}
				}
				if progress != nil {
					progress(1)
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("building similarity graph: %w", err)
	}

	g.adjacency = make(map[string]map[string]float64, n)
	var edges int
	for _, batch := range found {
		for _, e := range batch {
			g.setEdgeLocked(e.From, e.To, e.Weight)
		}
		edges += len(batch)
	}

	g.log.Info().
		Str("metric", g.scorer.Name()).
		Int("vertices", n).
		Int("edges", edges).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("similarity graph built")
	return nil
}

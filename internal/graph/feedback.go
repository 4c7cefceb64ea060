package graph

import (
	"github.com/chrisdamba/fooder/internal/feedback"
	"github.com/chrisdamba/fooder/internal/models"
)

// ApplyFeedback adjusts the review score of name in place and returns the
// score before and after. Edges are left as they are until the next Build or
// TopKSimilar, which score live.
func (g *Graph) ApplyFeedback(name string, satisfied bool) (previous, updated float64, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.vertices[name]
	if !ok {
		return 0, 0, &models.NotFoundError{Name: name}
	}
	previous = r.ReviewScore
	r.ReviewScore = feedback.Adjust(previous, satisfied)

	g.log.Debug().
		Str("restaurant", name).
		Bool("satisfied", satisfied).
		Float64("previous", previous).
		Float64("updated", r.ReviewScore).
		Msg("feedback applied")
	return previous, r.ReviewScore, nil
}

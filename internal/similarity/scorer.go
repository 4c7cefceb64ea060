package similarity

import (
	"fmt"
	"math"

	"github.com/chrisdamba/fooder/internal/models"
)

// Scorer is one similarity formulation plus the rule deciding which scores
// are good enough to become graph edges.
type Scorer interface {
	Name() string
	Score(a, b models.Restaurant) float64
	// Relevant reports whether score clears the edge threshold.
	Relevant(score float64) bool
	// Closer reports whether x ranks ahead of y.
	Closer(x, y float64) bool
}

// Weighted ranks by Score; larger is closer.
type Weighted struct {
	Weights  Weights
	MinScore float64
}

// NewWeighted validates the weights and threshold.
func NewWeighted(w Weights, minScore float64) (*Weighted, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(minScore) || minScore < 0 || minScore > 1 {
		return nil, &models.ConfigurationError{Field: "similarity.min_similarity", Reason: fmt.Sprintf("%v is outside [0, 1]", minScore)}
	}
	return &Weighted{Weights: w, MinScore: minScore}, nil
}

func (s *Weighted) Name() string { return models.MetricWeighted }

func (s *Weighted) Score(a, b models.Restaurant) float64 { return Score(a, b, s.Weights) }

func (s *Weighted) Relevant(score float64) bool { return score >= s.MinScore }

func (s *Weighted) Closer(x, y float64) bool { return x > y }

// Geo ranks by Dissimilarity relative to a fixed user location; smaller is closer.
type Geo struct {
	Origin      models.Location
	MaxDistance float64
}

func NewGeo(origin models.Location, maxDistance float64) (*Geo, error) {
	if !origin.Finite() {
		return nil, &models.ConfigurationError{Field: "origin", Reason: "coordinates must be finite"}
	}
	if math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) || maxDistance < 0 {
		return nil, &models.ConfigurationError{Field: "similarity.max_dissimilarity", Reason: fmt.Sprintf("%v must be a non-negative number", maxDistance)}
	}
	return &Geo{Origin: origin, MaxDistance: maxDistance}, nil
}

func (s *Geo) Name() string { return models.MetricGeo }

func (s *Geo) Score(a, b models.Restaurant) float64 { return Dissimilarity(a, b, s.Origin) }

func (s *Geo) Relevant(score float64) bool { return score <= s.MaxDistance }

func (s *Geo) Closer(x, y float64) bool { return x < y }

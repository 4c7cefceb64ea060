// Package similarity scores pairs of restaurants.
//
// Two formulations exist and they rank in opposite directions:
//
//	Score:         wc*[same category] + wp*[same tier] + wr*(1 - |Δreview|/5)   higher is closer
//	Dissimilarity: ‖(category, tier, review, km to user)_a - (...)_b‖₂           lower is closer
//
// A graph is built with exactly one Scorer so the two never meet in a ranking.
package similarity

import (
	"fmt"
	"math"

	"github.com/chrisdamba/fooder/internal/geo"
	"github.com/chrisdamba/fooder/internal/models"
)

const (
	DefaultMinSimilarity    = 0.8
	DefaultMaxDissimilarity = 0.1

	weightTolerance = 1e-9
)

// Weights are the per-dimension contributions of the weighted-sum score.
type Weights struct {
	Category float64 `json:"category_weight"`
	Price    float64 `json:"price_weight"`
	Review   float64 `json:"review_weight"`
}

func DefaultWeights() Weights {
	return Weights{Category: 0.5, Price: 0.3, Review: 0.2}
}

// Validate requires each weight to lie in [0, 1] and the three to sum to 1.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"similarity.category_weight", w.Category},
		{"similarity.price_weight", w.Price},
		{"similarity.review_weight", w.Review},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return &models.ConfigurationError{Field: f.name, Reason: fmt.Sprintf("%v is outside [0, 1]", f.v)}
		}
	}
	if sum := w.Category + w.Price + w.Review; math.Abs(sum-1) > weightTolerance {
		return &models.ConfigurationError{Field: "similarity weights", Reason: fmt.Sprintf("sum to %v, want 1.0", sum)}
	}
	return nil
}

// Score is the weighted-sum similarity of a and b. It is symmetric and never
// mutates its arguments.
func Score(a, b models.Restaurant, w Weights) float64 {
	var s float64
	if a.Category == b.Category {
		s += w.Category
	}
	if a.PriceTier == b.PriceTier {
		s += w.Price
	}
	s += w.Review * (1 - math.Abs(a.ReviewScore-b.ReviewScore)/models.MaxReviewScore)
	return s
}

// Dissimilarity is the 4-D Euclidean distance between a and b, where the
// fourth coordinate is each restaurant's haversine distance to origin in km.
func Dissimilarity(a, b models.Restaurant, origin models.Location) float64 {
	pa := point(a, origin)
	pb := point(b, origin)
	var sum float64
	for i := range pa {
		d := pa[i] - pb[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func point(r models.Restaurant, origin models.Location) [4]float64 {
	return [4]float64{
		float64(r.Category.Code()),
		float64(r.PriceTier),
		r.ReviewScore,
		geo.Haversine(origin, r.Location),
	}
}

package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/chrisdamba/fooder/internal/models"
)

func TestNewWeighted(t *testing.T) {
	if _, err := NewWeighted(DefaultWeights(), DefaultMinSimilarity); err != nil {
		t.Fatalf("NewWeighted(defaults) error = %v", err)
	}
	if _, err := NewWeighted(Weights{Category: 0.9}, 0.5); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("NewWeighted(bad weights) error = %v, want ErrConfiguration", err)
	}
	if _, err := NewWeighted(DefaultWeights(), 1.5); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("NewWeighted(threshold 1.5) error = %v, want ErrConfiguration", err)
	}
}

func TestNewGeo(t *testing.T) {
	if _, err := NewGeo(models.Location{Lat: 1, Lon: 1}, DefaultMaxDissimilarity); err != nil {
		t.Fatalf("NewGeo() error = %v", err)
	}
	if _, err := NewGeo(models.Location{Lat: math.NaN()}, 0.1); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("NewGeo(NaN origin) error = %v, want ErrConfiguration", err)
	}
	if _, err := NewGeo(models.Location{}, -1); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("NewGeo(negative threshold) error = %v, want ErrConfiguration", err)
	}
}

func TestScorers_Ordering(t *testing.T) {
	weighted, _ := NewWeighted(DefaultWeights(), 0.8)
	geoScorer, _ := NewGeo(models.Location{}, 0.1)

	tests := []struct {
		name         string
		scorer       Scorer
		better       float64
		worse        float64
		relevant     float64
		irrelevant   float64
		wantMetricID string
	}{
		{"weighted", weighted, 0.9, 0.2, 0.8, 0.79, models.MetricWeighted},
		{"geo", geoScorer, 0.05, 3, 0.1, 0.11, models.MetricGeo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.scorer.Name() != tt.wantMetricID {
				t.Errorf("Name() = %q, want %q", tt.scorer.Name(), tt.wantMetricID)
			}
			if !tt.scorer.Closer(tt.better, tt.worse) || tt.scorer.Closer(tt.worse, tt.better) {
				t.Errorf("Closer(%v, %v) ordering wrong", tt.better, tt.worse)
			}
			if !tt.scorer.Relevant(tt.relevant) {
				t.Errorf("Relevant(%v) = false, want true", tt.relevant)
			}
			if tt.scorer.Relevant(tt.irrelevant) {
				t.Errorf("Relevant(%v) = true, want false", tt.irrelevant)
			}
		})
	}
}

// Package feedback holds the review-score step function applied after a user
// reacts to a restaurant.
package feedback

import "github.com/chrisdamba/fooder/internal/models"

const (
	// LowScoreThreshold separates the fast-climb range from the slow one.
	LowScoreThreshold = 3.0
	LowScoreReward    = 0.5
	Reward            = 0.2
	Penalty           = 0.2
)

// Adjust returns the review score after one piece of feedback. Satisfaction
// below LowScoreThreshold climbs by LowScoreReward, otherwise by Reward;
// dissatisfaction always costs Penalty. The result stays within [0, 5].
func Adjust(score float64, satisfied bool) float64 {
	switch {
	case !satisfied:
		score -= Penalty
	case score < LowScoreThreshold:
		score += LowScoreReward
	case score < models.MaxReviewScore:
		score += Reward
	}
	return round(models.ClampScore(score))
}

// round trims float noise from repeated ±0.2 steps so scores print and
// compare as the decimal values users expect.
func round(v float64) float64 {
	const scale = 1e9
	if v >= 0 {
		return float64(int64(v*scale+0.5)) / scale
	}
	return float64(int64(v*scale-0.5)) / scale
}

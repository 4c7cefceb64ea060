package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MinReviewScore = 0.0
	MaxReviewScore = 5.0
)

var validate = validator.New()

// Restaurant is one vertex of the similarity graph. Everything except
// ReviewScore is fixed once the catalog is loaded.
type Restaurant struct {
	Name        string    `json:"name" validate:"required"`
	Category    Category  `json:"category" validate:"min=1,max=12"`
	Address     string    `json:"address"`
	PriceTier   PriceTier `json:"price_tier" validate:"min=1,max=4"`
	Location    Location  `json:"location"`
	ReviewScore float64   `json:"review_score" validate:"gte=0,lte=5"`
}

// Validate checks the record invariants and returns an *InvalidRecordError
// naming the first offending field.
func (r *Restaurant) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return &InvalidRecordError{Field: "name", Reason: "must not be empty"}
	}
	if !r.Location.Finite() {
		return &InvalidRecordError{Name: r.Name, Field: "location", Reason: "coordinates must be finite"}
	}
	if math.IsNaN(r.ReviewScore) || math.IsInf(r.ReviewScore, 0) {
		return &InvalidRecordError{Name: r.Name, Field: "review_score", Reason: "must be finite"}
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &InvalidRecordError{
			Name:   r.Name,
			Field:  fieldName(fe.Namespace()),
			Reason: fmt.Sprintf("failed %q constraint (value %v)", fe.Tag(), fe.Value()),
		}
	}
	return &InvalidRecordError{Name: r.Name, Reason: err.Error()}
}

// ClampScore bounds a review score to [MinReviewScore, MaxReviewScore].
func ClampScore(score float64) float64 {
	return math.Max(MinReviewScore, math.Min(MaxReviewScore, score))
}

func fieldName(namespace string) string {
	switch {
	case strings.HasSuffix(namespace, "Location.Lat"):
		return "latitude"
	case strings.HasSuffix(namespace, "Location.Lon"):
		return "longitude"
	case strings.HasSuffix(namespace, "PriceTier"):
		return "price_tier"
	case strings.HasSuffix(namespace, "ReviewScore"):
		return "review_score"
	case strings.HasSuffix(namespace, "Category"):
		return "category"
	default:
		return strings.ToLower(namespace)
	}
}

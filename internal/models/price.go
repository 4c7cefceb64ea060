package models

import (
	"fmt"
	"strconv"
	"strings"
)

// PriceTier is the ordinal price range of a restaurant, from 1 (cheapest) to 4.
type PriceTier int

const (
	PriceTierLow PriceTier = iota + 1
	PriceTierModerate
	PriceTierHigh
	PriceTierLuxury
)

// ParsePriceTier accepts a digit ("1".."4") or a dollar-sign rendering ("$".."$$$$").
func ParsePriceTier(s string) (PriceTier, error) {
	s = strings.TrimSpace(s)
	var tier PriceTier
	if s != "" && strings.Trim(s, "$") == "" {
		tier = PriceTier(len(s))
	} else {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid price tier %q", s)
		}
		tier = PriceTier(n)
	}
	if !tier.Valid() {
		return 0, fmt.Errorf("price tier %q out of range", s)
	}
	return tier, nil
}

func (p PriceTier) Valid() bool {
	return p >= PriceTierLow && p <= PriceTierLuxury
}

func (p PriceTier) String() string {
	if !p.Valid() {
		return "?"
	}
	return strings.Repeat("$", int(p))
}

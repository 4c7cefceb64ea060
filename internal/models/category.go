package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the cuisine tag of a restaurant. The numeric values match the
// codes used in the catalog CSV.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAmerican
	CategoryChinese
	CategoryFastFood
	CategoryFrench
	CategoryIndian
	CategoryItalian
	CategoryJapanese
	CategoryKorean
	CategoryMexican
	CategoryThai
	CategoryVegan
	CategoryVietnamese
)

var categoryNames = [...]string{
	CategoryUnknown:    "unknown",
	CategoryAmerican:   "american",
	CategoryChinese:    "chinese",
	CategoryFastFood:   "fast food",
	CategoryFrench:     "french",
	CategoryIndian:     "indian",
	CategoryItalian:    "italian",
	CategoryJapanese:   "japanese",
	CategoryKorean:     "korean",
	CategoryMexican:    "mexican",
	CategoryThai:       "thai",
	CategoryVegan:      "vegan",
	CategoryVietnamese: "vietnamese",
}

// Categories returns every valid category in code order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames)-1)
	for c := CategoryAmerican; c <= CategoryVietnamese; c++ {
		out = append(out, c)
	}
	return out
}

// ParseCategory accepts either the cuisine name (case-insensitive) or its
// numeric code.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		c := Category(code)
		if !c.Valid() {
			return CategoryUnknown, fmt.Errorf("category code %d out of range", code)
		}
		return c, nil
	}
	name := strings.ToLower(strings.ReplaceAll(s, "_", " "))
	for _, c := range Categories() {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

func (c Category) Valid() bool {
	return c >= CategoryAmerican && c <= CategoryVietnamese
}

// Code is the ordinal used as a coordinate by the 4-D dissimilarity metric.
func (c Category) Code() int {
	return int(c)
}

func (c Category) String() string {
	if !c.Valid() {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

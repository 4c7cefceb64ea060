package models

import (
	"errors"
	"math"
	"testing"
)

func TestRestaurant_Validate(t *testing.T) {
	valid := Restaurant{Name: "Pai", Category: CategoryThai, PriceTier: PriceTierModerate, ReviewScore: 4.7,
		Location: Location{Lat: 43.6479, Lon: -79.3887}}

	tests := []struct {
		name      string
		mutate    func(*Restaurant)
		wantField string
	}{
		{"valid", func(*Restaurant) {}, ""},
		{"blank name", func(r *Restaurant) { r.Name = "  " }, "name"},
		{"unknown category", func(r *Restaurant) { r.Category = CategoryUnknown }, "category"},
		{"category too large", func(r *Restaurant) { r.Category = 13 }, "category"},
		{"tier zero", func(r *Restaurant) { r.PriceTier = 0 }, "price_tier"},
		{"negative score", func(r *Restaurant) { r.ReviewScore = -0.1 }, "review_score"},
		{"nan score", func(r *Restaurant) { r.ReviewScore = math.NaN() }, "review_score"},
		{"latitude", func(r *Restaurant) { r.Location.Lat = -90.5 }, "latitude"},
		{"longitude", func(r *Restaurant) { r.Location.Lon = 180.5 }, "longitude"},
		{"infinite location", func(r *Restaurant) { r.Location.Lon = math.Inf(1) }, "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var invalid *InvalidRecordError
			if !errors.As(err, &invalid) || invalid.Field != tt.wantField {
				t.Errorf("Validate() error = %v, want field %s", err, tt.wantField)
			}
			if !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("errors.Is(%v, ErrInvalidRecord) = false", err)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{{-1, 0}, {0, 0}, {2.5, 2.5}, {5, 5}, {5.2, 5}} {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"thai", CategoryThai, false},
		{" Fast_Food ", CategoryFastFood, false},
		{"fast food", CategoryFastFood, false},
		{"1", CategoryAmerican, false},
		{"12", CategoryVietnamese, false},
		{"13", CategoryUnknown, true},
		{"sushi", CategoryUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
			}
		})
	}
	if n := len(Categories()); n != 12 {
		t.Errorf("len(Categories()) = %d, want 12", n)
	}
}

func TestParsePriceTier(t *testing.T) {
	tests := []struct {
		in      string
		want    PriceTier
		wantErr bool
	}{
		{"1", PriceTierLow, false},
		{"$$$$", PriceTierLuxury, false},
		{" $$ ", PriceTierModerate, false},
		{"0", 0, true},
		{"$$$$$", 0, true},
		{"cheap", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriceTier(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParsePriceTier(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
			}
		})
	}
	if got := PriceTierHigh.String(); got != "$$$" {
		t.Errorf("String() = %q, want $$$", got)
	}
}

func TestLocation_Scan(t *testing.T) {
	var l Location
	if err := l.Scan("POINT(-79.38 43.65)"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if l != (Location{Lat: 43.65, Lon: -79.38}) {
		t.Errorf("Scan() = %v", l)
	}
	if err := l.Scan(42); err == nil {
		t.Error("Scan(int) succeeded")
	}
}

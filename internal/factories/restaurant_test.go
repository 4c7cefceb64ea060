package factories

import (
	"math"
	"testing"

	"github.com/chrisdamba/fooder/internal/geo"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/google/go-cmp/cmp"
)

func testConfig() *models.Config {
	return &models.Config{CityLat: 43.6532, CityLon: -79.3832, UrbanRadius: 10}
}

func TestCreateCatalog_Valid(t *testing.T) {
	cfg := testConfig()
	catalog := NewRestaurantFactory(1).CreateCatalog(cfg, 300)

	centre := models.Location{Lat: cfg.CityLat, Lon: cfg.CityLon}
	seen := make(map[string]bool)
	for _, r := range catalog {
		if err := r.Validate(); err != nil {
			t.Errorf("generated invalid record: %v", err)
		}
		if seen[r.Name] {
			t.Errorf("duplicate name %q", r.Name)
		}
		seen[r.Name] = true
		// The placement box is a square around the centre.
		if d := geo.Haversine(centre, r.Location); d > cfg.UrbanRadius*math.Sqrt2+0.1 {
			t.Errorf("%q is %.2f km from the centre", r.Name, d)
		}
	}
}

func TestCreateCatalog_Deterministic(t *testing.T) {
	a := NewRestaurantFactory(99).CreateCatalog(testConfig(), 25)
	b := NewRestaurantFactory(99).CreateCatalog(testConfig(), 25)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different catalogs (-a +b):\n%s", diff)
	}
}

func TestCreateUniqueName(t *testing.T) {
	rf := NewRestaurantFactory(0)
	got := []string{rf.createUniqueName("Acme"), rf.createUniqueName("Acme"), rf.createUniqueName("Acme")}
	want := []string{"Acme", "Acme #2", "Acme #3"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("createUniqueName() mismatch (-want +got):\n%s", diff)
	}
}

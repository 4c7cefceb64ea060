package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/chrisdamba/fooder/internal/models"
	"github.com/chrisdamba/fooder/internal/similarity"
	"github.com/google/go-cmp/cmp"
)

func weighted(t *testing.T) similarity.Scorer {
	t.Helper()
	s, err := similarity.NewWeighted(similarity.DefaultWeights(), similarity.DefaultMinSimilarity)
	if err != nil {
		t.Fatalf("NewWeighted() error = %v", err)
	}
	return s
}

func testCatalog() []models.Restaurant {
	return []models.Restaurant{
		{Name: "Golden Dragon", Category: models.CategoryChinese, Address: "1 King St", PriceTier: 2, ReviewScore: 3.0,
			Location: models.Location{Lat: 43.6500, Lon: -79.3800}},
		{Name: "Jade Palace", Category: models.CategoryChinese, Address: "2 King St", PriceTier: 2, ReviewScore: 3.5,
			Location: models.Location{Lat: 43.6510, Lon: -79.3810}},
		{Name: "Lucky Noodle", Category: models.CategoryChinese, Address: "3 King St", PriceTier: 2, ReviewScore: 1.0,
			Location: models.Location{Lat: 43.6900, Lon: -79.4000}},
		{Name: "Nonna's", Category: models.CategoryItalian, Address: "4 Queen St", PriceTier: 4, ReviewScore: 1.0,
			Location: models.Location{Lat: 43.6600, Lon: -79.3900}},
		{Name: "Trattoria", Category: models.CategoryItalian, Address: "5 Queen St", PriceTier: 4, ReviewScore: 4.0,
			Location: models.Location{Lat: 43.7000, Lon: -79.4100}},
	}
}

func newTestGraph(t *testing.T, opts Options) *Graph {
	t.Helper()
	g := New(weighted(t), opts)
	if err := g.Load(testCatalog()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return g
}

func TestAddVertex_Rejects(t *testing.T) {
	g := newTestGraph(t, Options{})

	tests := []struct {
		name string
		r    models.Restaurant
	}{
		{"duplicate name", models.Restaurant{Name: "Trattoria", Category: models.CategoryItalian, PriceTier: 1}},
		{"empty name", models.Restaurant{Category: models.CategoryItalian, PriceTier: 1}},
		{"unknown category", models.Restaurant{Name: "x", PriceTier: 1}},
		{"tier out of range", models.Restaurant{Name: "x", Category: models.CategoryThai, PriceTier: 5}},
		{"score out of range", models.Restaurant{Name: "x", Category: models.CategoryThai, PriceTier: 1, ReviewScore: 5.5}},
		{"latitude out of range", models.Restaurant{Name: "x", Category: models.CategoryThai, PriceTier: 1,
			Location: models.Location{Lat: 91}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddVertex(tt.r)
			if !errors.Is(err, models.ErrInvalidRecord) {
				t.Errorf("AddVertex() error = %v, want ErrInvalidRecord", err)
			}
		})
	}
	if got := g.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestAddVertex_StoresCopy(t *testing.T) {
	g := New(weighted(t), Options{})
	r := testCatalog()[0]
	if err := g.AddVertex(r); err != nil {
		t.Fatalf("AddVertex() error = %v", err)
	}
	r.ReviewScore = 0

	got, err := g.Restaurant(r.Name)
	if err != nil {
		t.Fatalf("Restaurant() error = %v", err)
	}
	if got.ReviewScore != 3.0 {
		t.Errorf("ReviewScore = %v, want 3.0", got.ReviewScore)
	}
}

func TestBuild_Edges(t *testing.T) {
	g := newTestGraph(t, Options{Workers: 3})
	if err := g.Build(context.Background(), nil); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Only same category and tier pairs clear 0.8.
	want := []Edge{
		{From: "Golden Dragon", To: "Jade Palace", Weight: 0.98},
		{From: "Golden Dragon", To: "Lucky Noodle", Weight: 0.92},
		{From: "Jade Palace", To: "Lucky Noodle", Weight: 0.90},
		{From: "Nonna's", To: "Trattoria", Weight: 0.88},
	}
	approx := cmp.Comparer(func(x, y float64) bool { return x-y < 1e-9 && y-x < 1e-9 })
	if diff := cmp.Diff(want, g.Edges(), approx); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Symmetric(t *testing.T) {
	g := newTestGraph(t, Options{})
	if err := g.Build(context.Background(), nil); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for _, a := range g.Names(models.CategoryUnknown) {
		neighbours, err := g.Neighbours(a)
		if err != nil {
			t.Fatalf("Neighbours(%q) error = %v", a, err)
		}
		if _, self := neighbours[a]; self {
			t.Errorf("%q lists itself as a neighbour", a)
		}
		for b, w := range neighbours {
			back, ok := g.Weight(b, a)
			if !ok || back != w {
				t.Errorf("Weight(%q, %q) = %v, %v; want %v, true", b, a, back, ok, w)
			}
		}
	}
}

func TestBuild_DeterministicAcrossWorkers(t *testing.T) {
	var want []Edge
	for _, workers := range []int{1, 2, 8} {
		g := newTestGraph(t, Options{Workers: workers})
		if err := g.Build(context.Background(), nil); err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		got := g.Edges()
		if want == nil {
			want = got
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d: edges differ (-want +got):\n%s", workers, diff)
		}
	}
}

func TestBuild_Progress(t *testing.T) {
	g := newTestGraph(t, Options{Workers: 2})
	rows := make(chan int, 16)
	if err := g.Build(context.Background(), func(n int) { rows <- n }); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	close(rows)
	var total int
	for n := range rows {
		total += n
	}
	if total != 5 {
		t.Errorf("progress rows = %d, want 5", total)
	}
}

func TestBuild_MaxVertices(t *testing.T) {
	g := newTestGraph(t, Options{MaxVertices: 4})
	err := g.Build(context.Background(), nil)
	if !errors.Is(err, models.ErrConfiguration) {
		t.Fatalf("Build() error = %v, want ErrConfiguration", err)
	}
	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "max_vertices" {
		t.Errorf("Build() error = %#v, want max_vertices ConfigurationError", err)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	g := newTestGraph(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Build(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestAddEdge(t *testing.T) {
	g := newTestGraph(t, Options{})

	if err := g.AddEdge("Trattoria", "Trattoria", 1); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("AddEdge(self) error = %v, want ErrSelfLoop", err)
	}
	if err := g.AddEdge("Trattoria", "Nowhere", 1); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("AddEdge(unknown) error = %v, want ErrNotFound", err)
	}
	if err := g.AddEdge("Trattoria", "Golden Dragon", 0.3); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if !g.Adjacent("Golden Dragon", "Trattoria") {
		t.Error("Adjacent() = false after AddEdge")
	}
	for _, name := range []string{"Trattoria", "Golden Dragon"} {
		if d, _ := g.Degree(name); d != 1 {
			t.Errorf("Degree(%q) = %d, want 1", name, d)
		}
	}
	if _, err := g.Degree("Nowhere"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Degree(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestNames(t *testing.T) {
	g := newTestGraph(t, Options{})

	tests := []struct {
		category models.Category
		want     []string
	}{
		{models.CategoryUnknown, []string{"Golden Dragon", "Jade Palace", "Lucky Noodle", "Nonna's", "Trattoria"}},
		{models.CategoryItalian, []string{"Nonna's", "Trattoria"}},
		{models.CategoryVegan, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, g.Names(tt.category)); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

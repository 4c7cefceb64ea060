package cmd

import (
	"context"
	"os"

	"github.com/chrisdamba/fooder/internal/catalog"
	"github.com/chrisdamba/fooder/internal/catalog/postgres"
	"github.com/chrisdamba/fooder/internal/graph"
	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/chrisdamba/fooder/internal/similarity"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// locationFlags are the --lat/--lon pair shared by the commands that need a
// user location. Unset coordinates fall back to the configured city centre.
type locationFlags struct {
	lat, lon float64
}

func (l *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&l.lat, "lat", 0, "user latitude (default: city centre)")
	cmd.Flags().Float64Var(&l.lon, "lon", 0, "user longitude (default: city centre)")
}

func (l *locationFlags) resolve(cmd *cobra.Command, cfg *models.Config) models.Location {
	loc := models.Location{Lat: cfg.CityLat, Lon: cfg.CityLon}
	if cmd.Flags().Changed("lat") {
		loc.Lat = l.lat
	}
	if cmd.Flags().Changed("lon") {
		loc.Lon = l.lon
	}
	return loc
}

func loadCatalog(ctx context.Context, cfg *models.Config) ([]models.Restaurant, error) {
	var src catalog.Source
	if cfg.CatalogDSN != "" {
		pool, err := postgres.Connect(ctx, cfg.CatalogDSN)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		src = postgres.NewSource(pool)
	} else {
		src = &catalog.CSVSource{Path: cfg.CatalogPath, Encoding: cfg.CatalogEncoding}
	}
	return src.Load(ctx)
}

func newScorer(cfg *models.Config, origin models.Location) (similarity.Scorer, error) {
	switch cfg.Similarity.Metric {
	case models.MetricGeo:
		return similarity.NewGeo(origin, cfg.Similarity.MaxDissimilarity)
	default:
		w := similarity.Weights{
			Category: cfg.Similarity.CategoryWeight,
			Price:    cfg.Similarity.PriceWeight,
			Review:   cfg.Similarity.ReviewWeight,
		}
		return similarity.NewWeighted(w, cfg.Similarity.MinSimilarity)
	}
}

// loadGraph reads the catalog and builds the similarity graph, drawing a
// progress bar on stderr while the pairwise pass runs.
func loadGraph(ctx context.Context, cfg *models.Config, origin models.Location) (*graph.Graph, error) {
	log := logging.With("cli")

	scorer, err := newScorer(cfg, origin)
	if err != nil {
		return nil, err
	}
	records, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	g := graph.New(scorer, graph.Options{
		MaxVertices: cfg.MaxVertices,
		Workers:     cfg.BuildWorkers,
		Seed:        cfg.Seed,
		Logger:      &log,
	})
	if err := g.Load(records); err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("building similarity graph"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(logging.ParseLevel(cfg.LogLevel) <= zerolog.InfoLevel),
	)
	err = g.Build(ctx, func(rows int) { _ = bar.Add(rows) })
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	return g, nil
}

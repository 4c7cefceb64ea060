package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/chrisdamba/fooder/internal/graph"
	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/chrisdamba/fooder/internal/output"
	"github.com/spf13/cobra"
)

var exportLoc locationFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the similarity graph to the configured output",
	Long: `export builds the graph and writes one graph_vertices message per
restaurant and one graph_edges message per edge to output_destination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.OutputDestination == models.OutputNone {
			return fmt.Errorf("nothing to export to: set --output-destination")
		}
		ctx := cmd.Context()
		g, err := loadGraph(ctx, cfg, exportLoc.resolve(cmd, cfg))
		if err != nil {
			return err
		}
		dest, err := output.New(ctx, cfg)
		if err != nil {
			return err
		}

		vertices, edges, err := exportGraph(dest, g, time.Now())
		if cerr := dest.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log := logging.With("cli")
		log.Info().
			Int("vertices", vertices).
			Int("edges", edges).
			Str("destination", cfg.OutputDestination).
			Msg("graph exported")
		return nil
	},
}

func init() {
	exportLoc.register(exportCmd)
	rootCmd.AddCommand(exportCmd)
}

func exportGraph(dest output.Destination, g *graph.Graph, now time.Time) (vertices, edges int, err error) {
	write := func(topic string, record any) error {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("error serializing %s record: %w", topic, err)
		}
		return dest.WriteMessage(topic, data)
	}

	for _, name := range g.Names(models.CategoryUnknown) {
		r, err := g.Restaurant(name)
		if err != nil {
			return vertices, edges, err
		}
		degree, _ := g.Degree(name)
		err = write(models.TopicGraphVertices, models.VertexRecord{
			BaseEvent:   models.NewBaseEvent(models.EventGraphVertex, now),
			Name:        r.Name,
			Category:    r.Category.String(),
			Address:     r.Address,
			PriceTier:   int32(r.PriceTier),
			Lat:         r.Location.Lat,
			Lon:         r.Location.Lon,
			ReviewScore: r.ReviewScore,
			Degree:      int32(degree),
		})
		if err != nil {
			return vertices, edges, err
		}
		vertices++
	}

	metric := g.Scorer().Name()
	for _, e := range g.Edges() {
		err := write(models.TopicGraphEdges, models.EdgeRecord{
			BaseEvent: models.NewBaseEvent(models.EventGraphEdge, now),
			From:      e.From,
			To:        e.To,
			Weight:    e.Weight,
			Metric:    metric,
		})
		if err != nil {
			return vertices, edges, err
		}
		edges++
	}
	return vertices, edges, nil
}

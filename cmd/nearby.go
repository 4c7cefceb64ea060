package cmd

import (
	"fmt"

	"github.com/chrisdamba/fooder/internal/geo"
	"github.com/chrisdamba/fooder/internal/graph"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/spf13/cobra"
)

// constraintFlags select restaurants by cuisine, price and distance.
type constraintFlags struct {
	category    string
	price       string
	maxDistance float64
	loc         locationFlags
}

func (c *constraintFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.category, "category", "", "cuisine name or code, e.g. thai or 10")
	cmd.Flags().StringVar(&c.price, "price", "", "price tier, 1-4 or $-$$$$")
	cmd.Flags().Float64Var(&c.maxDistance, "max-distance", 0, "search radius in km (default: max_distance_km)")
	c.loc.register(cmd)
}

// resolve returns nil when no category was given.
func (c *constraintFlags) resolve(cmd *cobra.Command, cfg *models.Config) (*graph.Constraints, error) {
	if c.category == "" {
		return nil, nil
	}
	category, err := models.ParseCategory(c.category)
	if err != nil {
		return nil, err
	}
	tier, err := models.ParsePriceTier(c.price)
	if err != nil {
		return nil, err
	}
	maxDistance := cfg.MaxDistanceKm
	if cmd.Flags().Changed("max-distance") {
		maxDistance = c.maxDistance
	}
	return &graph.Constraints{
		Category:      category,
		PriceTier:     tier,
		MaxDistanceKm: maxDistance,
		Origin:        c.loc.resolve(cmd, cfg),
	}, nil
}

var nearbyFlags constraintFlags

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List restaurants of one cuisine and price tier within a radius",
	RunE: func(cmd *cobra.Command, args []string) error {
		if nearbyFlags.category == "" {
			return fmt.Errorf("--category is required")
		}
		c, err := nearbyFlags.resolve(cmd, cfg)
		if err != nil {
			return err
		}
		g, err := loadGraph(cmd.Context(), cfg, c.Origin)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		matches := g.FilterByConstraints(*c)
		if len(matches) == 0 {
			fmt.Fprintf(out, "No %s restaurant at %s within %.1f km.\n", c.Category, c.PriceTier, c.MaxDistanceKm)
			return nil
		}
		for i, r := range matches {
			fmt.Fprintf(out, "%2d. %-40s %6.2f km  %s\n", i+1, r.Name, geo.Haversine(c.Origin, r.Location), r.Address)
		}
		return nil
	},
}

func init() {
	nearbyFlags.register(nearbyCmd)
	rootCmd.AddCommand(nearbyCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	similarK       int
	similarConnect bool
	similarLoc     locationFlags
)

var similarCmd = &cobra.Command{
	Use:   "similar NAME",
	Short: "List the restaurants most similar to NAME",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		g, err := loadGraph(ctx, cfg, similarLoc.resolve(cmd, cfg))
		if err != nil {
			return err
		}

		matches, err := g.TopKSimilar(args[0], similarK, similarConnect)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, m := range matches {
			r, err := g.Restaurant(m.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%2d. %-40s %-5s %-12s review %.1f  %s %.3f\n",
				i+1, r.Name, r.PriceTier, r.Category, r.ReviewScore, g.Scorer().Name(), m.Score)
		}
		if similarConnect {
			degree, _ := g.Degree(args[0])
			fmt.Fprintf(out, "%s now has %d neighbours\n", args[0], degree)
		}
		return nil
	},
}

func init() {
	similarCmd.Flags().IntVarP(&similarK, "top", "k", 5, "number of restaurants to list")
	similarCmd.Flags().BoolVar(&similarConnect, "connect", false, "store the results as graph edges")
	similarLoc.register(similarCmd)
	rootCmd.AddCommand(similarCmd)
}

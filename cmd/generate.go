package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/fooder/internal/catalog"
	"github.com/chrisdamba/fooder/internal/catalog/postgres"
	"github.com/chrisdamba/fooder/internal/factories"
	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/spf13/cobra"
)

var (
	generateCount int
	generateOut   string
	generateToDB  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic restaurant catalog",
	Long: `generate scatters fake restaurants around city_latitude/city_longitude
within urban_radius km and writes them as a catalog CSV, or into the
catalog_dsn database with --to-db.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.With("cli")
		restaurants := factories.NewRestaurantFactory(cfg.Seed).CreateCatalog(cfg, generateCount)

		if generateToDB {
			if cfg.CatalogDSN == "" {
				return fmt.Errorf("--to-db needs --catalog-dsn")
			}
			ctx := cmd.Context()
			pool, err := postgres.Connect(ctx, cfg.CatalogDSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			src := postgres.NewSource(pool)
			if err := src.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("error creating schema: %w", err)
			}
			if err := src.BulkCreate(ctx, restaurants); err != nil {
				return err
			}
			log.Info().Int("restaurants", len(restaurants)).Msg("catalog written to database")
			return nil
		}

		path := generateOut
		if path == "" {
			path = cfg.CatalogPath
		}
		if path == "-" {
			return catalog.WriteCSV(cmd.OutOrStdout(), restaurants)
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("error creating %s: %w", path, err)
		}
		if err := catalog.WriteCSV(file, restaurants); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
		log.Info().Int("restaurants", len(restaurants)).Str("file", path).Msg("catalog written")
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 200, "number of restaurants")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "output CSV, - for stdout (default: catalog_path)")
	generateCmd.Flags().BoolVar(&generateToDB, "to-db", false, "insert into the catalog_dsn database instead")
	rootCmd.AddCommand(generateCmd)
}

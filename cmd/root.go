package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
)

var rootCmd = &cobra.Command{
	Use:   "fooder",
	Short: "Recommends restaurants from a similarity graph",
	Long: `fooder loads a restaurant catalog, links restaurants that share cuisine,
price and reputation into a similarity graph, and recommends places to eat
based on what a user visited last and how they felt about it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if used := viper.ConfigFileUsed(); used != "" {
			log := logging.Logger()
			log.Debug().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./.fooder.yaml or $HOME/.fooder.yaml)")
	flags.String("catalog", "restaurants.csv", "restaurant catalog CSV")
	flags.String("catalog-encoding", "utf-8", "catalog file encoding (utf-8, cp1252, latin1)")
	flags.String("catalog-dsn", "", "read the catalog from this Postgres database instead of a file")
	flags.String("metric", models.MetricWeighted, "similarity metric: weighted or geo")
	flags.Int64("seed", 42, "random seed")
	flags.Int("max-vertices", 5000, "largest catalog the graph will be built for")
	flags.String("output-destination", models.OutputNone, "none, console, local, s3 or kafka")
	flags.String("output-format", "json", "file output format: json, csv or parquet")
	flags.String("log-level", "info", "trace, debug, info, warn, error or disabled")
	flags.String("log-format", "console", "console or json")

	for key, flag := range map[string]string{
		"catalog_path":       "catalog",
		"catalog_encoding":   "catalog-encoding",
		"catalog_dsn":        "catalog-dsn",
		"similarity.metric":  "metric",
		"seed":               "seed",
		"max_vertices":       "max-vertices",
		"output_destination": "output-destination",
		"output_format":      "output-format",
		"log_level":          "log-level",
		"log_format":         "log-format",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}

// Execute runs the root command. An interrupt cancels the command context,
// which stops a graph build in progress.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package models

import (
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type SimilarityConfig struct {
	Metric           string  `mapstructure:"metric"`
	CategoryWeight   float64 `mapstructure:"category_weight"`
	PriceWeight      float64 `mapstructure:"price_weight"`
	ReviewWeight     float64 `mapstructure:"review_weight"`
	MinSimilarity    float64 `mapstructure:"min_similarity"`    // edge cut-off for the weighted metric
	MaxDissimilarity float64 `mapstructure:"max_dissimilarity"` // edge cut-off for the geo metric
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	Seed               int64            `mapstructure:"seed"`
	CatalogPath        string           `mapstructure:"catalog_path"`
	CatalogEncoding    string           `mapstructure:"catalog_encoding"`
	CatalogDSN         string           `mapstructure:"catalog_dsn"`
	Similarity         SimilarityConfig `mapstructure:"similarity"`
	MaxVertices        int              `mapstructure:"max_vertices"`
	BuildWorkers       int              `mapstructure:"build_workers"`
	RecommendationSize int              `mapstructure:"recommendation_size"`
	MaxDistanceKm      float64          `mapstructure:"max_distance_km"`

	OutputDestination string             `mapstructure:"output_destination"`
	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	KafkaTimeout      time.Duration      `mapstructure:"kafka_timeout"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Synthetic catalog generation
	CityLat     float64 `mapstructure:"city_latitude"`
	CityLon     float64 `mapstructure:"city_longitude"`
	UrbanRadius float64 `mapstructure:"urban_radius"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", 42)
	v.SetDefault("catalog_path", "restaurants.csv")
	v.SetDefault("catalog_encoding", "utf-8")
	v.SetDefault("catalog_dsn", "")
	v.SetDefault("similarity.metric", MetricWeighted)
	v.SetDefault("similarity.category_weight", 0.5)
	v.SetDefault("similarity.price_weight", 0.3)
	v.SetDefault("similarity.review_weight", 0.2)
	v.SetDefault("similarity.min_similarity", 0.8)
	v.SetDefault("similarity.max_dissimilarity", 0.1)
	v.SetDefault("max_vertices", 5000)
	v.SetDefault("build_workers", runtime.NumCPU())
	v.SetDefault("recommendation_size", 5)
	v.SetDefault("max_distance_km", 5.0)
	v.SetDefault("output_destination", OutputNone)
	v.SetDefault("output_format", "json")
	v.SetDefault("output_path", "output")
	v.SetDefault("output_folder", "fooder")
	v.SetDefault("cloud_storage.provider", "s3")
	v.SetDefault("cloud_storage.bucket_name", "")
	v.SetDefault("cloud_storage.region", "us-east-1")
	v.SetDefault("kafka_broker_list", "localhost:9092")
	v.SetDefault("kafka_timeout", "30s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("city_latitude", 43.6532)
	v.SetDefault("city_longitude", -79.3832)
	v.SetDefault("urban_radius", 10.0)
}

// LoadConfig reads the configuration using Viper. An empty cfgFile looks for
// .fooder.yaml in the working directory and then $HOME; a missing default
// file is not an error.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".fooder")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOODER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks every setting that does not belong to a single component.
// Similarity weights are checked by the scorer that consumes them.
func (cfg *Config) Validate() error {
	switch cfg.Similarity.Metric {
	case MetricWeighted, MetricGeo:
	default:
		return &ConfigurationError{Field: "similarity.metric", Reason: fmt.Sprintf("unknown metric %q", cfg.Similarity.Metric)}
	}
	if invalidThreshold(cfg.Similarity.MinSimilarity) || cfg.Similarity.MinSimilarity > 1 {
		return &ConfigurationError{Field: "similarity.min_similarity", Reason: "must be within [0, 1]"}
	}
	if invalidThreshold(cfg.Similarity.MaxDissimilarity) {
		return &ConfigurationError{Field: "similarity.max_dissimilarity", Reason: "must be a non-negative number"}
	}
	if invalidThreshold(cfg.MaxDistanceKm) {
		return &ConfigurationError{Field: "max_distance_km", Reason: "must be a non-negative number"}
	}
	if cfg.MaxVertices <= 0 {
		return &ConfigurationError{Field: "max_vertices", Reason: "must be positive"}
	}
	if cfg.RecommendationSize <= 0 {
		return &ConfigurationError{Field: "recommendation_size", Reason: "must be positive"}
	}
	switch cfg.OutputDestination {
	case OutputNone, OutputConsole, OutputLocal, OutputS3, OutputKafka:
	default:
		return &ConfigurationError{Field: "output_destination", Reason: fmt.Sprintf("unknown destination %q", cfg.OutputDestination)}
	}
	return nil
}

func invalidThreshold(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v < 0
}

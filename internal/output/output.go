// Package output delivers serialised events and graph exports to the
// configured destination: nowhere, the console, partitioned json/csv/parquet
// files on local disk or S3, or Kafka topics.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/chrisdamba/fooder/internal/cloudwriter"
	"github.com/chrisdamba/fooder/internal/models"
)

// Destination receives one JSON message per call. Implementations are safe
// for concurrent use.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// Discard drops every message.
type Discard struct{}

func (Discard) WriteMessage(string, []byte) error { return nil }

func (Discard) Close() error { return nil }

// New builds the destination named by cfg.OutputDestination.
func New(ctx context.Context, cfg *models.Config) (Destination, error) {
	switch cfg.OutputDestination {
	case models.OutputNone, "":
		return Discard{}, nil
	case models.OutputConsole:
		return NewConsoleOutput(os.Stdout), nil
	case models.OutputKafka:
		return NewKafkaOutput(cfg)
	case models.OutputLocal:
		return newFileOutput(cfg.OutputFormat, newLocalStore(cfg.OutputPath), cfg.OutputFolder)
	case models.OutputS3:
		if cfg.CloudStorage.Provider != "s3" {
			return nil, &models.ConfigurationError{Field: "cloud_storage.provider", Reason: fmt.Sprintf("unsupported provider %q", cfg.CloudStorage.Provider)}
		}
		factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		return newFileOutput(cfg.OutputFormat, newCloudStore(factory, cfg.CloudStorage.BucketName), cfg.OutputFolder)
	default:
		return nil, &models.ConfigurationError{Field: "output_destination", Reason: fmt.Sprintf("unknown destination %q", cfg.OutputDestination)}
	}
}

func newFileOutput(format string, store fileStore, folder string) (Destination, error) {
	switch format {
	case "json":
		return NewJSONOutput(store, folder), nil
	case "csv":
		return NewCSVOutput(store, folder), nil
	case "parquet":
		return NewParquetOutput(store, folder), nil
	default:
		return nil, &models.ConfigurationError{Field: "output_format", Reason: fmt.Sprintf("unsupported format %q", format)}
	}
}

// decodeEvent parses msg keeping numbers exact and returns the event fields
// together with its partition key, folder/topic/year=/month=/day=/hour=.
func decodeEvent(folder, topic string, msg []byte) (map[string]any, string, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var event map[string]any
	if err := dec.Decode(&event); err != nil {
		return nil, "", fmt.Errorf("invalid %s message: %w", topic, err)
	}

	ts, ok := event["timestamp"].(json.Number)
	if !ok {
		return nil, "", fmt.Errorf("invalid timestamp in %s message", topic)
	}
	seconds, err := ts.Int64()
	if err != nil {
		return nil, "", fmt.Errorf("invalid timestamp %s in %s message", ts, topic)
	}

	eventTime := time.Unix(seconds, 0).UTC()
	year, month, day := eventTime.Date()
	partition := fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour())
	return event, path.Join(folder, topic, partition), nil
}

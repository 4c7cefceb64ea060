package output

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/rs/zerolog"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

const parquetParallelism = 4

// parquetTopic pairs the schema struct of a topic with a decoder producing
// values of that struct.
type parquetTopic struct {
	schema any
	decode func(msg []byte) (any, error)
}

func decodeAs[T any](msg []byte) (any, error) {
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var parquetTopics = map[string]parquetTopic{
	models.TopicRecommendations: {new(models.RecommendationEvent), decodeAs[models.RecommendationEvent]},
	models.TopicFeedback:        {new(models.FeedbackEvent), decodeAs[models.FeedbackEvent]},
	models.TopicGraphVertices:   {new(models.VertexRecord), decodeAs[models.VertexRecord]},
	models.TopicGraphEdges:      {new(models.EdgeRecord), decodeAs[models.EdgeRecord]},
}

// ParquetOutput writes one data.parquet per topic and hour. Only topics with
// a known schema are accepted. Files are complete once Close returns.
type ParquetOutput struct {
	store         fileStore
	folder        string
	mu            sync.Mutex
	writers       map[string]*writer.ParquetWriter
	writerMutexes map[string]*sync.Mutex
	files         map[string]source.ParquetFile
	log           zerolog.Logger
}

func NewParquetOutput(store fileStore, folder string) *ParquetOutput {
	return &ParquetOutput{
		store:         store,
		folder:        folder,
		writers:       make(map[string]*writer.ParquetWriter),
		writerMutexes: make(map[string]*sync.Mutex),
		files:         make(map[string]source.ParquetFile),
		log:           logging.With("output"),
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	schema, ok := parquetTopics[topic]
	if !ok {
		return fmt.Errorf("no parquet schema for topic %s", topic)
	}
	_, partition, err := decodeEvent(p.folder, topic, msg)
	if err != nil {
		return err
	}
	record, err := schema.decode(msg)
	if err != nil {
		return fmt.Errorf("invalid %s message: %w", topic, err)
	}

	p.mu.Lock()
	pw, ok := p.writers[partition]
	if !ok {
		pw, err = p.createNewWriter(partition, schema)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}
	writerMutex := p.writerMutexes[partition]
	p.mu.Unlock()

	writerMutex.Lock()
	defer writerMutex.Unlock()
	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// createNewWriter must be called with p.mu held.
func (p *ParquetOutput) createNewWriter(partition string, schema parquetTopic) (*writer.ParquetWriter, error) {
	fw, err := p.store.CreateParquet(partition + "/data.parquet")
	if err != nil {
		return nil, err
	}
	pw, err := writer.NewParquetWriter(fw, schema.schema, parquetParallelism)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[partition] = pw
	p.writerMutexes[partition] = &sync.Mutex{}
	p.files[partition] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		mutex := p.writerMutexes[key]
		mutex.Lock()
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			p.log.Error().Err(err).Str("partition", key).Msg("error closing parquet writer")
		}
		if err := p.files[key].Close(); err != nil {
			lastErr = err
			p.log.Error().Err(err).Str("partition", key).Msg("error closing parquet file")
		}
		mutex.Unlock()
		delete(p.writers, key)
		delete(p.files, key)
		delete(p.writerMutexes, key)
	}
	return lastErr
}

package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/chrisdamba/fooder/internal/cloudwriter"
	"github.com/chrisdamba/fooder/internal/models"
	"github.com/google/go-cmp/cmp"
)

var eventTime = time.Unix(1700000000, 0)

const partition = "year=2023/month=11/day=14/hour=22"

func edgeMessage(t *testing.T, from, to string, weight float64) []byte {
	t.Helper()
	msg, err := json.Marshal(models.EdgeRecord{
		BaseEvent: models.NewBaseEvent(models.EventGraphEdge, eventTime),
		From:      from,
		To:        to,
		Weight:    weight,
		Metric:    models.MetricWeighted,
	})
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleOutput(&buf)
	if err := c.WriteMessage("graph_edges", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if got, want := buf.String(), "[graph_edges] {\"a\":1}\n"; got != want {
		t.Errorf("console = %q, want %q", got, want)
	}
}

func TestJSONOutput_Local(t *testing.T) {
	dir := t.TempDir()
	j := NewJSONOutput(newLocalStore(dir), "fooder")

	msgs := [][]byte{edgeMessage(t, "a", "b", 0.9), edgeMessage(t, "a", "c", 0.85)}
	for _, msg := range msgs {
		if err := j.WriteMessage(models.TopicGraphEdges, msg); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fooder", models.TopicGraphEdges, filepath.FromSlash(partition), "data.json"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := string(msgs[0]) + "\n" + string(msgs[1]) + "\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("data.json mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVOutput_Local(t *testing.T) {
	dir := t.TempDir()
	c := NewCSVOutput(newLocalStore(dir), "fooder")
	if err := c.WriteMessage(models.TopicGraphEdges, edgeMessage(t, "a", "b", 0.9)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fooder", models.TopicGraphEdges, filepath.FromSlash(partition), "data.csv"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "eventType,from,metric,timestamp,to,weight\nGraphEdge,a,weighted,1700000000,b,0.9\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("data.csv mismatch (-want +got):\n%s", diff)
	}
}

func TestParquetOutput_Local(t *testing.T) {
	dir := t.TempDir()
	p := NewParquetOutput(newLocalStore(dir), "fooder")
	for _, to := range []string{"b", "c", "d"} {
		if err := p.WriteMessage(models.TopicGraphEdges, edgeMessage(t, "a", to, 0.9)); err != nil {
			t.Fatalf("WriteMessage() error = %v", err)
		}
	}
	if err := p.WriteMessage("unknown_topic", edgeMessage(t, "a", "b", 1)); err == nil {
		t.Error("WriteMessage() accepted a topic without schema")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fooder", models.TopicGraphEdges, filepath.FromSlash(partition), "data.parquet"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PAR1")) || !bytes.HasSuffix(data, []byte("PAR1")) {
		t.Errorf("data.parquet is not framed by PAR1 magic (%d bytes)", len(data))
	}
}

func TestOutput_RejectsMessagesWithoutTimestamp(t *testing.T) {
	j := NewJSONOutput(newLocalStore(t.TempDir()), "fooder")
	defer j.Close()
	for _, msg := range []string{`not json`, `{"from":"a"}`, `{"timestamp":"soon"}`} {
		if err := j.WriteMessage(models.TopicGraphEdges, []byte(msg)); err == nil {
			t.Errorf("WriteMessage(%s) error = nil", msg)
		}
	}
}

type memoryObject struct {
	bytes.Buffer
	uploaded map[string]string
	key      string
}

func (m *memoryObject) Close() error {
	m.uploaded[m.key] = m.String()
	return nil
}

type memoryFactory struct {
	uploaded map[string]string
}

func (f *memoryFactory) NewWriter(bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	return &memoryObject{uploaded: f.uploaded, key: bucket + "/" + objectPath}, nil
}

func TestJSONOutput_Cloud(t *testing.T) {
	factory := &memoryFactory{uploaded: make(map[string]string)}
	j := NewJSONOutput(newCloudStore(factory, "exports"), "fooder")
	msg := edgeMessage(t, "a", "b", 0.9)
	if err := j.WriteMessage(models.TopicGraphEdges, msg); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	key := "exports/fooder/graph_edges/" + partition + "/data.json"
	if got := factory.uploaded[key]; got != string(msg)+"\n" {
		t.Errorf("uploaded[%s] = %q", key, got)
	}
}

func TestCloudParquetFile(t *testing.T) {
	obj := &memoryObject{uploaded: make(map[string]string), key: "k"}
	f := NewCloudParquetFile(obj)
	if _, err := f.Write([]byte("PAR1")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if off, _ := f.Seek(0, io.SeekCurrent); off != 4 {
		t.Errorf("offset = %d, want 4", off)
	}
	if _, err := f.Seek(0, io.SeekEnd); err == nil {
		t.Error("Seek(SeekEnd) succeeded")
	}
	if _, err := f.Read(make([]byte, 1)); err == nil {
		t.Error("Read() succeeded")
	}
	if err := f.Close(); err != nil || obj.uploaded["k"] != "PAR1" {
		t.Errorf("Close() = %v, uploaded %q", err, obj.uploaded["k"])
	}
}

func TestKafkaOutput(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if !strings.Contains(string(val), `"from":"a"`) {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaOutputFromProducer(producer)
	if err := k.WriteMessage(models.TopicGraphEdges, edgeMessage(t, "a", "b", 0.9)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if err := k.WriteMessage(models.TopicGraphEdges, edgeMessage(t, "a", "c", 0.9)); !errors.Is(err, sarama.ErrOutOfBrokers) {
		t.Errorf("WriteMessage() error = %v, want ErrOutOfBrokers", err)
	}
	if err := k.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := k.WriteMessage(models.TopicGraphEdges, nil); err == nil {
		t.Error("WriteMessage() after Close succeeded")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     models.Config
		wantErr error
	}{
		{"none", models.Config{OutputDestination: models.OutputNone}, nil},
		{"console", models.Config{OutputDestination: models.OutputConsole}, nil},
		{"local json", models.Config{OutputDestination: models.OutputLocal, OutputFormat: "json", OutputPath: t.TempDir()}, nil},
		{"local avro", models.Config{OutputDestination: models.OutputLocal, OutputFormat: "avro"}, models.ErrConfiguration},
		{"gcs", models.Config{OutputDestination: models.OutputS3, CloudStorage: models.CloudStorageConfig{Provider: "gcs"}}, models.ErrConfiguration},
		{"carrier pigeon", models.Config{OutputDestination: "pigeon"}, models.ErrConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(context.Background(), &tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := d.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"sync"
)

type csvFile struct {
	file    io.WriteCloser
	writer  *csv.Writer
	headers []string
}

// CSVOutput writes one data.csv per topic and hour. The header is the sorted
// field names of the first message in each file.
type CSVOutput struct {
	store  fileStore
	folder string
	mu     sync.Mutex
	files  map[string]*csvFile
}

func NewCSVOutput(store fileStore, folder string) *CSVOutput {
	return &CSVOutput{
		store:  store,
		folder: folder,
		files:  make(map[string]*csvFile),
	}
}

func (c *CSVOutput) WriteMessage(topic string, msg []byte) error {
	event, partition, err := decodeEvent(c.folder, topic, msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.files[partition]
	if !ok {
		file, err := c.store.Create(partition + "/data.csv")
		if err != nil {
			return err
		}
		f = &csvFile{file: file, writer: csv.NewWriter(file), headers: getHeaders(event)}
		c.files[partition] = f

		if err := f.writer.Write(f.headers); err != nil {
			return err
		}
	}

	row := make([]string, len(f.headers))
	for i, header := range f.headers {
		if value, ok := event[header]; ok && value != nil {
			row[i] = fmt.Sprintf("%v", value)
		}
	}
	if err := f.writer.Write(row); err != nil {
		return err
	}

	f.writer.Flush()
	return f.writer.Error()
}

func getHeaders(event map[string]any) []string {
	headers := make([]string, 0, len(event))
	for key := range event {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func (c *CSVOutput) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for key, f := range c.files {
		f.writer.Flush()
		if err := f.writer.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.files, key)
	}
	return firstErr
}

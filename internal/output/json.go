package output

import (
	"io"
	"sync"
)

// JSONOutput appends messages as JSON lines to one data.json per topic and hour.
type JSONOutput struct {
	store  fileStore
	folder string
	mu     sync.Mutex
	files  map[string]io.WriteCloser
}

func NewJSONOutput(store fileStore, folder string) *JSONOutput {
	return &JSONOutput{
		store:  store,
		folder: folder,
		files:  make(map[string]io.WriteCloser),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	_, partition, err := decodeEvent(j.folder, topic, msg)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, ok := j.files[partition]
	if !ok {
		file, err = j.store.Create(partition + "/data.json")
		if err != nil {
			return err
		}
		j.files[partition] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err = file.Write([]byte("\n"))
	return err
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var firstErr error
	for key, file := range j.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(j.files, key)
	}
	return firstErr
}

package output

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/chrisdamba/fooder/internal/cloudwriter"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
)

// fileStore creates the files behind partitioned outputs. Keys are
// slash-separated and relative to the store root.
type fileStore interface {
	Create(key string) (io.WriteCloser, error)
	CreateParquet(key string) (source.ParquetFile, error)
}

type localStore struct {
	basePath string
}

func newLocalStore(basePath string) *localStore {
	return &localStore{basePath: basePath}
}

func (s *localStore) path(key string) (string, error) {
	p := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return "", err
	}
	return p, nil
}

func (s *localStore) Create(key string) (io.WriteCloser, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.Create(p)
}

func (s *localStore) CreateParquet(key string) (source.ParquetFile, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	fw, err := local.NewLocalFileWriter(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

type cloudStore struct {
	factory cloudwriter.CloudWriterFactory
	bucket  string
}

func newCloudStore(factory cloudwriter.CloudWriterFactory, bucket string) *cloudStore {
	return &cloudStore{factory: factory, bucket: bucket}
}

func (s *cloudStore) Create(key string) (io.WriteCloser, error) {
	w, err := s.factory.NewWriter(s.bucket, path.Clean(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
	}
	return w, nil
}

func (s *cloudStore) CreateParquet(key string) (source.ParquetFile, error) {
	w, err := s.Create(key)
	if err != nil {
		return nil, err
	}
	return NewCloudParquetFile(w), nil
}

// CloudParquetFile adapts a write-only object upload to the file interface
// the parquet writer expects.
type CloudParquetFile struct {
	cloudWriter io.WriteCloser
	offset      int64
}

func NewCloudParquetFile(cloudWriter io.WriteCloser) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

// Open and Create return the receiver; the object exists once Close uploads it.
func (c *CloudParquetFile) Open(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Create(string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read([]byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

// Package cloudwriter buffers export files in memory and uploads them to
// object storage when they are closed.
package cloudwriter

import "io"

// CloudWriter is one object being written. Nothing is visible in the bucket
// until Close returns.
type CloudWriter interface {
	io.WriteCloser
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

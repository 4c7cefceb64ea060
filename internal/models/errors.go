package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("restaurant not found")
	ErrEmptyCatalog  = errors.New("catalog is empty")
	ErrInvalidRecord = errors.New("invalid restaurant record")
	ErrConfiguration = errors.New("invalid configuration")
)

// NotFoundError is returned when a query names a restaurant absent from the graph.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("restaurant %q not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// EmptyCatalogError is returned by queries against a graph with no vertices.
type EmptyCatalogError struct{}

func (e *EmptyCatalogError) Error() string { return ErrEmptyCatalog.Error() }

func (e *EmptyCatalogError) Is(target error) bool { return target == ErrEmptyCatalog }

// InvalidRecordError describes a malformed catalog record. Line is 1-based and
// zero when the record did not come from a file.
type InvalidRecordError struct {
	Line   int
	Name   string
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	msg := "invalid record"
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Name != "" {
		msg = fmt.Sprintf("%s (%q)", msg, e.Name)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %s", msg, e.Field)
	}
	return fmt.Sprintf("%s: %s", msg, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool { return target == ErrInvalidRecord }

// ConfigurationError reports a setting that cannot be used, such as
// similarity weights that do not sum to 1.0.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

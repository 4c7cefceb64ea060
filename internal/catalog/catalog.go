// Package catalog turns restaurant listings into validated records for the
// similarity graph. The core never reads files itself; a Source does.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chrisdamba/fooder/internal/models"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Source yields the catalog in its natural order.
type Source interface {
	Load(ctx context.Context) ([]models.Restaurant, error)
}

// Decoder wraps r so that it yields UTF-8 for the named encoding. Empty,
// "utf-8" and "utf8" leave r as is.
func Decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "cp1252", "windows-1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "latin1", "latin-1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, &models.ConfigurationError{Field: "catalog_encoding", Reason: fmt.Sprintf("unsupported encoding %q", encoding)}
	}
}

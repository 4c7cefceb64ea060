package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chrisdamba/fooder/internal/models"
)

const (
	colCategory = "category"
	colAddress  = "address"
	colName     = "name"
	colPrice    = "price_range"
	colReview   = "review_rate"
	colLocation = "location"
	colLat      = "latitude"
	colLon      = "longitude"
)

// Header is the column order written by WriteCSV.
var Header = []string{colCategory, colAddress, colName, colPrice, colReview, colLocation}

var columnAliases = map[string]string{
	"category":               colCategory,
	"cuisine":                colCategory,
	"address":                colAddress,
	"restaurant_address":     colAddress,
	"name":                   colName,
	"restaurant_name":        colName,
	"price_range":            colPrice,
	"restaurant_price_range": colPrice,
	"price_tier":             colPrice,
	"review_rate":            colReview,
	"review_rates":           colReview,
	"review_score":           colReview,
	"location":               colLocation,
	"restaurant_location":    colLocation,
	"latitude":               colLat,
	"restaurant_latitude":    colLat,
	"longitude":              colLon,
	"restaurant_longitude":   colLon,
}

// CSVSource reads a catalog file with a header row.
type CSVSource struct {
	Path     string
	Encoding string
}

func (s *CSVSource) Load(ctx context.Context) ([]models.Restaurant, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening catalog: %w", err)
	}
	defer file.Close()

	r, err := Decoder(file, s.Encoding)
	if err != nil {
		return nil, err
	}
	records, err := ReadCSV(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog %s: %w", s.Path, err)
	}
	return records, nil
}

// ReadCSV parses a catalog. Columns are located by header name, so both the
// single "location" column holding "lat, lon" and separate latitude and
// longitude columns are accepted. Errors carry the 1-based line number.
func ReadCSV(ctx context.Context, r io.Reader) ([]models.Restaurant, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []models.Restaurant
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		rec, err := parseRow(row, index)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			var invalid *models.InvalidRecordError
			if errors.As(err, &invalid) {
				invalid.Line = line
				if invalid.Name == "" {
					invalid.Name = rec.Name
				}
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if col, ok := columnAliases[key]; ok {
			index[col] = i
		}
	}

	for _, col := range []string{colCategory, colName, colPrice, colReview} {
		if _, ok := index[col]; !ok {
			return nil, &models.InvalidRecordError{Line: 1, Field: col, Reason: "missing column"}
		}
	}
	_, hasLoc := index[colLocation]
	_, hasLat := index[colLat]
	_, hasLon := index[colLon]
	if !hasLoc && !(hasLat && hasLon) {
		return nil, &models.InvalidRecordError{Line: 1, Field: colLocation, Reason: "missing location or latitude/longitude columns"}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (models.Restaurant, error) {
	field := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := models.Restaurant{
		Name:    field(colName),
		Address: field(colAddress),
	}

	category, err := models.ParseCategory(field(colCategory))
	if err != nil {
		return rec, &models.InvalidRecordError{Field: "category", Reason: err.Error()}
	}
	rec.Category = category

	tier, err := models.ParsePriceTier(field(colPrice))
	if err != nil {
		return rec, &models.InvalidRecordError{Field: "price_tier", Reason: err.Error()}
	}
	rec.PriceTier = tier

	if rec.ReviewScore, err = strconv.ParseFloat(field(colReview), 64); err != nil {
		return rec, &models.InvalidRecordError{Field: "review_score", Reason: fmt.Sprintf("%q is not a number", field(colReview))}
	}

	if _, ok := index[colLocation]; ok {
		rec.Location, err = ParseLocation(field(colLocation))
	} else {
		rec.Location, err = parseLatLon(field(colLat), field(colLon))
	}
	if err != nil {
		return rec, err
	}
	return rec, nil
}

// ParseLocation reads "lat, lon", optionally wrapped in parentheses.
func ParseLocation(s string) (models.Location, error) {
	s = strings.Trim(strings.TrimSpace(s), "()")
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return models.Location{}, &models.InvalidRecordError{Field: "location", Reason: fmt.Sprintf("%q is not \"lat, lon\"", s)}
	}
	return parseLatLon(lat, lon)
}

func parseLatLon(latStr, lonStr string) (models.Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return models.Location{}, &models.InvalidRecordError{Field: "latitude", Reason: fmt.Sprintf("%q is not a number", latStr)}
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return models.Location{}, &models.InvalidRecordError{Field: "longitude", Reason: fmt.Sprintf("%q is not a number", lonStr)}
	}
	return models.Location{Lat: lat, Lon: lon}, nil
}

// WriteCSV writes records with Header, in the layout ReadCSV reads back.
func WriteCSV(w io.Writer, records []models.Restaurant) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Category.String(),
			r.Address,
			r.Name,
			strconv.Itoa(int(r.PriceTier)),
			strconv.FormatFloat(r.ReviewScore, 'f', -1, 64),
			fmt.Sprintf("%s, %s",
				strconv.FormatFloat(r.Location.Lat, 'f', -1, 64),
				strconv.FormatFloat(r.Location.Lon, 'f', -1, 64)),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

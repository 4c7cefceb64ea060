package models

import (
	"fmt"
	"math"
)

type Location struct {
	Lat float64 `json:"lat" parquet:"name=lat,type=DOUBLE" validate:"latitude"`
	Lon float64 `json:"lon" parquet:"name=lon,type=DOUBLE" validate:"longitude"`
}

// Finite reports whether both coordinates are real numbers.
func (l Location) Finite() bool {
	return !math.IsNaN(l.Lat) && !math.IsInf(l.Lat, 0) && !math.IsNaN(l.Lon) && !math.IsInf(l.Lon, 0)
}

func (l Location) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", l.Lat, l.Lon)
}

// Scan reads a PostGIS point rendered as WKT, e.g. POINT(lon lat).
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		_, err := fmt.Sscanf(string(v), "POINT(%f %f)", &l.Lon, &l.Lat)
		return err
	case string:
		_, err := fmt.Sscanf(v, "POINT(%f %f)", &l.Lon, &l.Lat)
		return err
	default:
		return fmt.Errorf("unsupported type for Location: %T", value)
	}
}

package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatParquet  = "parquet"
	FormatSnapshot = "msgpack.zst"
)

// Decode parses report rows in the given format.
func Decode(format string, r io.Reader) ([]Report, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(r)
	case FormatJSON:
		return decodeJSON(r)
	case FormatParquet:
		return decodeParquet(r)
	case FormatSnapshot:
		return DecodeSnapshot(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Column names accepted for each field, English first, then the names used
// by the published CDMX tables.
var csvColumns = map[string][]string{
	"year":      {"year", "anio", "año"},
	"alcaldia":  {"alcaldia", "alcaldía", "municipio"},
	"colonia":   {"colonia"},
	"longitude": {"longitude", "lon", "longitud"},
	"latitude":  {"latitude", "lat", "latitud"},
	"reports":   {"reports", "reportes", "count", "total"},
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		for field, aliases := range csvColumns {
			for _, alias := range aliases {
				if _, seen := index[field]; !seen && name == alias {
					index[field] = i
				}
			}
		}
	}
	return index
}

func decodeCSV(r io.Reader) ([]Report, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	// The header slice is reused by the next Read.
	index := columnIndex(header)
	for _, required := range []string{"year", "longitude", "latitude"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var rows []Report
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		row, err := parseRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(record []string, index map[string]int) (Report, error) {
	field := func(name string) (string, bool) {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	var row Report
	var err error

	year, _ := field("year")
	if row.Year, err = strconv.Atoi(year); err != nil {
		return row, fmt.Errorf("year %q: %w", year, err)
	}
	lon, _ := field("longitude")
	if row.Longitude, err = strconv.ParseFloat(lon, 64); err != nil {
		return row, fmt.Errorf("longitude %q: %w", lon, err)
	}
	lat, _ := field("latitude")
	if row.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		return row, fmt.Errorf("latitude %q: %w", lat, err)
	}

	// Without a count column every row is a single report.
	row.Reports = 1
	if count, ok := field("reports"); ok && count != "" {
		if row.Reports, err = strconv.ParseFloat(count, 64); err != nil {
			return row, fmt.Errorf("reports %q: %w", count, err)
		}
	}
	row.Alcaldia, _ = field("alcaldia")
	row.Colonia, _ = field("colonia")
	return row, nil
}

func decodeJSON(r io.Reader) ([]Report, error) {
	var raw []struct {
		Report
		Reports *float64 `json:"reports"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	rows := make([]Report, len(raw))
	for i, rr := range raw {
		rows[i] = rr.Report
		rows[i].Reports = 1
		if rr.Reports != nil {
			rows[i].Reports = *rr.Reports
		}
	}
	return rows, nil
}

func decodeParquet(r io.Reader) ([]Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	rows, err := parquet.Read[Report](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("decode parquet: %w", err)
	}
	return rows, nil
}

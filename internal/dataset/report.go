package dataset

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrMissingColumn     = errors.New("missing column")
)

// Report is one row of the water report table: a number of reports filed at
// a location during a year.
type Report struct {
	Year      int     `json:"year" parquet:"year" msgpack:"year"`
	Alcaldia  string  `json:"alcaldia" parquet:"alcaldia,optional" msgpack:"alcaldia"`
	Colonia   string  `json:"colonia" parquet:"colonia,optional" msgpack:"colonia"`
	Longitude float64 `json:"longitude" parquet:"longitude" msgpack:"longitude"`
	Latitude  float64 `json:"latitude" parquet:"latitude" msgpack:"latitude"`
	Reports   float64 `json:"reports" parquet:"reports" msgpack:"reports"`
}

// Ref identifies a published dataset file.
type Ref struct {
	Repo     string
	File     string
	Revision string
}

// Key returns a stable identifier, used as cache key.
func (r Ref) Key() string {
	return fmt.Sprintf("%s@%s/%s", r.Repo, r.revision(), r.File)
}

func (r Ref) revision() string {
	if r.Revision == "" {
		return "main"
	}
	return r.Revision
}

// Ext returns the lower-cased format extension of the file, without the dot.
func (r Ref) Ext() string {
	name := strings.ToLower(path.Base(r.File))
	if strings.HasSuffix(name, "."+FormatSnapshot) {
		return FormatSnapshot
	}
	return strings.TrimPrefix(path.Ext(name), ".")
}

// URL returns the download address of the file on a dataset hub rooted at
// baseURL.
func (r Ref) URL(baseURL string) string {
	return fmt.Sprintf("%s/datasets/%s/resolve/%s/%s", strings.TrimRight(baseURL, "/"), r.Repo, r.revision(), r.File)
}

func (r Ref) String() string {
	return r.Key()
}

// Source loads report rows for a dataset.
type Source interface {
	Reports(ctx context.Context, ref Ref) ([]Report, error)
}

package storage

import (
	"fmt"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/model"
)

type ObjectKey struct {
	Source    string
	Dataset   model.Dataset
	Date      string // in YYYY-MM-DD format
	RunID     model.RunID
	Extension string
}

func (k ObjectKey) Key() string {
	return fmt.Sprintf("%s/%s/%s/%s.%s", k.Source, k.Dataset, k.Date, k.RunID, k.Extension)
}

// Latest is the stable key that always holds the most recent run, so readers
// do not need to know run ids.
func (k ObjectKey) Latest() string {
	return fmt.Sprintf("%s/%s/latest.%s", k.Source, k.Dataset, k.Extension)
}

// WithExtension returns a copy of k for a different representation of the
// same run.
func (k ObjectKey) WithExtension(ext string) ObjectKey {
	k.Extension = ext
	return k
}

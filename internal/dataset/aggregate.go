package dataset

import (
	"cmp"
	"math"
	"slices"

	"github.com/danielmalvaez/WaterAnalysis-MexicoCity/internal/spatial"
)

// KnownPoints sums the reports of one year per distinct location. Rows with
// non-finite coordinates are skipped. Points keep the order in which their
// location first appears.
func KnownPoints(rows []Report, year int) []spatial.KnownPoint {
	type location struct{ lon, lat float64 }

	index := make(map[location]int)
	var points []spatial.KnownPoint
	for _, row := range rows {
		if row.Year != year || !finite(row.Longitude) || !finite(row.Latitude) {
			continue
		}
		loc := location{row.Longitude, row.Latitude}
		if i, ok := index[loc]; ok {
			points[i].Value += row.Reports
			continue
		}
		index[loc] = len(points)
		points = append(points, spatial.KnownPoint{Lon: row.Longitude, Lat: row.Latitude, Value: row.Reports})
	}
	return points
}

// Years returns the distinct years present in rows, ascending.
func Years(rows []Report) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, row := range rows {
		if _, ok := seen[row.Year]; ok {
			continue
		}
		seen[row.Year] = struct{}{}
		years = append(years, row.Year)
	}
	slices.Sort(years)
	return years
}

// AlcaldiaTotal is the number of reports filed in one alcaldía.
type AlcaldiaTotal struct {
	Alcaldia string  `json:"alcaldia" msgpack:"alcaldia"`
	Reports  float64 `json:"reports" msgpack:"reports"`
}

// SummarizeByAlcaldia totals one year of reports per alcaldía, largest first.
func SummarizeByAlcaldia(rows []Report, year int) []AlcaldiaTotal {
	totals := make(map[string]float64)
	for _, row := range rows {
		if row.Year != year {
			continue
		}
		name := row.Alcaldia
		if name == "" {
			name = "SIN ALCALDIA"
		}
		totals[name] += row.Reports
	}

	summary := make([]AlcaldiaTotal, 0, len(totals))
	for name, reports := range totals {
		summary = append(summary, AlcaldiaTotal{Alcaldia: name, Reports: reports})
	}
	slices.SortFunc(summary, func(a, b AlcaldiaTotal) int {
		if c := cmp.Compare(b.Reports, a.Reports); c != 0 {
			return c
		}
		return cmp.Compare(a.Alcaldia, b.Alcaldia)
	})
	return summary
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

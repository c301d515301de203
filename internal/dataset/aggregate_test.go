package dataset

import (
	"math"
	"testing"
)

var sampleRows = []Report{
	{Year: 2020, Alcaldia: "IZTAPALAPA", Longitude: -99.05, Latitude: 19.35, Reports: 2},
	{Year: 2020, Alcaldia: "IZTAPALAPA", Longitude: -99.05, Latitude: 19.35, Reports: 3},
	{Year: 2020, Alcaldia: "COYOACAN", Longitude: -99.16, Latitude: 19.33, Reports: 4},
	{Year: 2021, Alcaldia: "COYOACAN", Longitude: -99.16, Latitude: 19.33, Reports: 1},
	{Year: 2020, Alcaldia: "", Longitude: math.NaN(), Latitude: 19.3, Reports: 1},
	{Year: 2018, Alcaldia: "TLALPAN", Longitude: -99.17, Latitude: 19.29, Reports: 6},
}

func TestKnownPoints(t *testing.T) {
	points := KnownPoints(sampleRows, 2020)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d: %+v", len(points), points)
	}
	if points[0].Lon != -99.05 || points[0].Value != 5 {
		t.Errorf("points[0] = %+v, want summed value 5 at -99.05", points[0])
	}
	if points[1].Lon != -99.16 || points[1].Value != 4 {
		t.Errorf("points[1] = %+v", points[1])
	}

	if got := KnownPoints(sampleRows, 1999); len(got) != 0 {
		t.Errorf("expected no points for 1999, got %+v", got)
	}
}

func TestYears(t *testing.T) {
	years := Years(sampleRows)
	want := []int{2018, 2020, 2021}
	if len(years) != len(want) {
		t.Fatalf("Years() = %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("Years() = %v, want %v", years, want)
		}
	}
}

func TestSummarizeByAlcaldia(t *testing.T) {
	summary := SummarizeByAlcaldia(sampleRows, 2020)
	want := []AlcaldiaTotal{
		{Alcaldia: "IZTAPALAPA", Reports: 5},
		{Alcaldia: "COYOACAN", Reports: 4},
		{Alcaldia: "SIN ALCALDIA", Reports: 1},
	}
	if len(summary) != len(want) {
		t.Fatalf("SummarizeByAlcaldia() = %+v, want %+v", summary, want)
	}
	for i := range want {
		if summary[i] != want[i] {
			t.Errorf("summary[%d] = %+v, want %+v", i, summary[i], want[i])
		}
	}
}

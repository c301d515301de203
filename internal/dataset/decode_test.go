package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func TestDecode_CSV(t *testing.T) {
	input := "Anio,Alcaldia,Colonia,Longitud,Latitud\n" +
		"2019,IZTAPALAPA,SANTA CRUZ MEYEHUALCO,-99.0437,19.3623\n" +
		"2020,COYOACAN,SANTO DOMINGO, -99.1650 ,19.3270\n"

	rows, err := Decode(FormatCSV, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	want := Report{Year: 2020, Alcaldia: "COYOACAN", Colonia: "SANTO DOMINGO", Longitude: -99.1650, Latitude: 19.3270, Reports: 1}
	if rows[1] != want {
		t.Errorf("rows[1] = %+v, want %+v", rows[1], want)
	}
}

func TestDecode_CSVWithCounts(t *testing.T) {
	input := "year,lon,lat,reportes\n2021,-99.1,19.4,12\n2021,-99.2,19.5,\n"

	rows, err := Decode(FormatCSV, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if rows[0].Reports != 12 {
		t.Errorf("rows[0].Reports = %v, want 12", rows[0].Reports)
	}
	if rows[1].Reports != 1 {
		t.Errorf("rows[1].Reports = %v, want 1", rows[1].Reports)
	}
}

func TestDecode_CSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "missing latitude", input: "year,longitude\n2020,-99.1\n", want: ErrMissingColumn},
		{name: "bad year", input: "year,longitude,latitude\nveinte,-99.1,19.4\n"},
		{name: "bad longitude", input: "year,longitude,latitude\n2020,oeste,19.4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(FormatCSV, strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecode_JSON(t *testing.T) {
	input := `[
		{"year": 2018, "alcaldia": "TLALPAN", "longitude": -99.17, "latitude": 19.29, "reports": 4},
		{"year": 2018, "alcaldia": "TLALPAN", "longitude": -99.18, "latitude": 19.28}
	]`

	rows, err := Decode(FormatJSON, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Reports != 4 || rows[1].Reports != 1 {
		t.Errorf("unexpected report counts %v, %v", rows[0].Reports, rows[1].Reports)
	}
	if rows[0].Alcaldia != "TLALPAN" || rows[1].Longitude != -99.18 {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestDecode_Parquet(t *testing.T) {
	want := []Report{
		{Year: 2022, Alcaldia: "GUSTAVO A. MADERO", Colonia: "LINDAVISTA", Longitude: -99.13, Latitude: 19.49, Reports: 3},
		{Year: 2023, Alcaldia: "CUAUHTEMOC", Colonia: "CENTRO", Longitude: -99.13, Latitude: 19.43, Reports: 8},
	}
	var buf bytes.Buffer
	if err := parquet.Write(&buf, want); err != nil {
		t.Fatalf("parquet.Write() error = %v", err)
	}

	rows, err := Decode(FormatParquet, &buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("rows[%d] = %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestSnapshot(t *testing.T) {
	want := []Report{
		{Year: 2024, Alcaldia: "XOCHIMILCO", Longitude: -99.10, Latitude: 19.26, Reports: 2},
		{Year: 2024, Alcaldia: "TLAHUAC", Longitude: -99.00, Latitude: 19.28, Reports: 5},
	}
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, want); err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}

	rows, err := Decode(FormatSnapshot, &buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(rows) != 2 || rows[0] != want[0] || rows[1] != want[1] {
		t.Errorf("got %+v, want %+v", rows, want)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, err := Decode("xlsx", strings.NewReader(""))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRef(t *testing.T) {
	tests := []struct {
		ref     Ref
		wantKey string
		wantExt string
	}{
		{Ref{Repo: "danielmlvz/water-dashboard", File: "reportes/part-0.parquet"}, "danielmlvz/water-dashboard@main/reportes/part-0.parquet", "parquet"},
		{Ref{Repo: "r", File: "hf/reportes/latest.msgpack.zst", Revision: "v2"}, "r@v2/hf/reportes/latest.msgpack.zst", "msgpack.zst"},
		{Ref{File: "Reports.CSV"}, "@main/Reports.CSV", "csv"},
	}

	for _, tt := range tests {
		if got := tt.ref.Key(); got != tt.wantKey {
			t.Errorf("Key() = %q, want %q", got, tt.wantKey)
		}
		if got := tt.ref.Ext(); got != tt.wantExt {
			t.Errorf("Ext() = %q, want %q", got, tt.wantExt)
		}
	}
}

func TestRef_URL(t *testing.T) {
	ref := Ref{Repo: "danielmlvz/water-dashboard", File: "reportes/part-0.parquet"}
	want := "https://huggingface.co/datasets/danielmlvz/water-dashboard/resolve/main/reportes/part-0.parquet"
	if got := ref.URL("https://huggingface.co/"); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/crewcall/crewcall/internal/extract"
	"github.com/crewcall/crewcall/internal/store"
)

func sampleRun() *store.Run {
	return &store.Run{
		ID:                "run-1",
		SourceFile:        "callsheet.txt",
		StructureType:     "slash_delimited",
		ContactCount:      2,
		DuplicatesRemoved: 1,
		AverageConfidence: 0.81,
		CreatedAt:         time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func sampleContacts() []extract.Contact {
	return []extract.Contact{
		{
			Name:       "John Smith",
			Email:      "john@example.com",
			Phone:      "(555) 123-4567",
			Role:       "Gaffer",
			Department: "Grip & Electric",
			Confidence: 0.79,
			Level:      extract.ConfidenceMedium,
		},
		{
			Name:       "Bianca Feliciano",
			Email:      "bianca@fordmodels.com",
			Role:       "Talent",
			Company:    "Ford Models",
			ReportsTo:  "Ana Ruiz",
			Confidence: 0.9,
			Level:      extract.ConfidenceHigh,
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "csv", want: FormatCSV},
		{in: ".CSV", want: FormatCSV},
		{in: "json", want: FormatJSON},
		{in: "xlsx", want: FormatXLSX},
		{in: "excel", want: FormatXLSX},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExportCSV(t *testing.T) {
	e := New(zerolog.Nop())
	data, err := e.Export(sampleRun(), sampleContacts(), FormatCSV)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][7] != "Confidence" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "John Smith" || rows[1][4] != "(555) 123-4567" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][6] != "Ana Ruiz" {
		t.Errorf("expected reports-to in column 7, got %q", rows[2][6])
	}
	if rows[2][7] != "0.900" {
		t.Errorf("expected confidence 0.900, got %q", rows[2][7])
	}
}

func TestExportJSON(t *testing.T) {
	e := New(zerolog.Nop())
	data, err := e.Export(sampleRun(), sampleContacts(), FormatJSON)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded struct {
		Run      *store.Run        `json:"run"`
		Contacts []extract.Contact `json:"contacts"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if decoded.Run == nil || decoded.Run.ID != "run-1" {
		t.Fatalf("expected run metadata in envelope, got %+v", decoded.Run)
	}
	if len(decoded.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(decoded.Contacts))
	}
	if decoded.Contacts[1].Company != "Ford Models" {
		t.Errorf("expected company to survive round trip, got %q", decoded.Contacts[1].Company)
	}
}

func TestExportJSON_NoRun(t *testing.T) {
	e := New(zerolog.Nop())
	data, err := e.Export(nil, nil, FormatJSON)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if _, ok := decoded["run"]; ok {
		t.Error("expected run key omitted when no run")
	}
	if string(decoded["contacts"]) != "[]" {
		t.Errorf("expected empty contacts array, got %s", decoded["contacts"])
	}
}

func TestExportXLSX(t *testing.T) {
	e := New(zerolog.Nop())
	data, err := e.Export(sampleRun(), sampleContacts(), FormatXLSX)
	if err != nil {
		t.Fatalf("export xlsx: %v", err)
	}
	f, err := excelize.OpenReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Contacts")
	if err != nil {
		t.Fatalf("read contacts sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "John Smith" || rows[1][1] != "Gaffer" {
		t.Errorf("unexpected first contact row: %v", rows[1])
	}
	if rows[2][3] != "bianca@fordmodels.com" {
		t.Errorf("expected email in column D, got %v", rows[2])
	}

	runID, err := f.GetCellValue("Run", "B1")
	if err != nil {
		t.Fatalf("read run sheet: %v", err)
	}
	if runID != "run-1" {
		t.Errorf("expected run ID on metadata sheet, got %q", runID)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	e := New(zerolog.Nop())
	if _, err := e.Export(nil, nil, Format("yaml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// Package export renders extraction runs into portable files: CSV for
// spreadsheet pipelines, JSON for downstream tooling, and XLSX call
// sheets suitable for handing back to a production office.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/crewcall/crewcall/internal/extract"
	"github.com/crewcall/crewcall/internal/store"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user-supplied format name (or a file extension)
// onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json, or xlsx)", s)
	}
}

var contactHeaders = []string{
	"Name", "Role", "Department", "Email", "Phone", "Company", "Reports To", "Confidence", "Level",
}

// Exporter serializes runs and their contacts.
type Exporter struct {
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Export renders the run's contacts in the requested format.
func (e *Exporter) Export(run *store.Run, contacts []extract.Contact, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = e.csv(contacts)
	case FormatJSON:
		data, err = e.json(run, contacts)
	case FormatXLSX:
		data, err = e.xlsx(run, contacts)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, err
	}
	e.logger.Debug().
		Str("format", string(format)).
		Int("contacts", len(contacts)).
		Int("bytes", len(data)).
		Msg("export rendered")
	return data, nil
}

func (e *Exporter) csv(contacts []extract.Contact) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(contactHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range contacts {
		rec := []string{
			c.Name, c.Role, c.Department, c.Email, c.Phone, c.Company, c.ReportsTo,
			strconv.FormatFloat(c.Confidence, 'f', 3, 64),
			string(c.Level),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// jsonRun is the export envelope: run metadata plus the contact list.
type jsonRun struct {
	Run      *store.Run        `json:"run,omitempty"`
	Contacts []extract.Contact `json:"contacts"`
}

func (e *Exporter) json(run *store.Run, contacts []extract.Contact) ([]byte, error) {
	if contacts == nil {
		contacts = []extract.Contact{}
	}
	data, err := json.MarshalIndent(jsonRun{Run: run, Contacts: contacts}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

func (e *Exporter) xlsx(run *store.Run, contacts []extract.Contact) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Contacts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet: %w", err)
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// excelize seeds new workbooks with "Sheet1"; drop it so the
	// file opens straight onto the contact list.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range contactHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range contacts {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, c.Name)
		write(2, c.Role)
		write(3, c.Department)
		write(4, c.Email)
		write(5, c.Phone)
		write(6, c.Company)
		write(7, c.ReportsTo)
		write(8, round3(c.Confidence))
		write(9, string(c.Level))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 24) // name
	_ = f.SetColWidth(sheet, "B", "C", 22) // role, department
	_ = f.SetColWidth(sheet, "D", "D", 32) // email
	_ = f.SetColWidth(sheet, "E", "E", 18) // phone
	_ = f.SetColWidth(sheet, "F", "G", 24) // company, reports-to
	_ = f.SetColWidth(sheet, "H", "I", 12) // confidence

	if run != nil {
		if err := writeRunSheet(f, run); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRunSheet adds a second sheet with the run metadata so the
// workbook is self-describing.
func writeRunSheet(f *excelize.File, run *store.Run) error {
	const sheet = "Run"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create run sheet: %w", err)
	}
	rows := [][2]any{
		{"Run ID", run.ID},
		{"Source File", run.SourceFile},
		{"Structure", run.StructureType},
		{"Document Type", run.DocumentType},
		{"Production Type", run.ProductionType},
		{"Contacts", run.ContactCount},
		{"Duplicates Removed", run.DuplicatesRemoved},
		{"Average Confidence", run.AverageConfidence},
		{"Created", run.CreatedAt.Format("2006-01-02 15:04:05")},
	}
	for i, kv := range rows {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(sheet, keyCell, kv[0])
		_ = f.SetCellValue(sheet, valCell, kv[1])
	}
	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/talent-pipeline/internal/usecase"
)

var header = []string{"name", "instagram_handle", "earnings", "status"}

// Exporters returns every supported format keyed by its query name.
func Exporters() map[string]usecase.LeadExporter {
	return map[string]usecase.LeadExporter{
		"csv":  CSV{},
		"json": JSON{},
		"xlsx": XLSX{},
	}
}

func record(r usecase.ExportRow) []string {
	return []string{r.Name, r.InstagramHandle, strconv.FormatInt(r.Earnings, 10), string(r.Status)}
}

type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }
func (CSV) Extension() string   { return "csv" }

func (CSV) Write(w io.Writer, rows []usecase.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type JSON struct{}

func (JSON) ContentType() string { return "application/json" }
func (JSON) Extension() string   { return "json" }

func (JSON) Write(w io.Writer, rows []usecase.ExportRow) error {
	if rows == nil {
		rows = []usecase.ExportRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

const sheetName = "Leads"

type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSX) Extension() string { return "xlsx" }

func (XLSX) Write(w io.Writer, rows []usecase.ExportRow) error {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), sheetName); err != nil {
		return err
	}
	if err := xl.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Name, r.InstagramHandle, r.Earnings, string(r.Status)}
		if err := xl.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err := xl.WriteTo(w)
	return err
}

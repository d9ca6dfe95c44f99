package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gael-paolo/st-parts-track/engine"
	"github.com/gael-paolo/st-parts-track/model"
)

// RawTable is a decoded source table: rows keyed by canonical column name
// plus the original header order for display.
type RawTable struct {
	Rows    []engine.RawRow
	Columns []string
}

// requiredOrderColumns must be present structurally; a sheet without them is
// a broken export, not a row-level problem.
var requiredOrderColumns = []string{
	engine.ColReference,
	engine.ColClient,
	engine.ColStatus,
	engine.ColInvoice,
	engine.ColArrival,
}

// canonicalColumn maps a raw header from either source convention
// (spreadsheet "FECHA LLEGADA" or flat-CSV "fecha_llegada") onto its
// canonical key. Unknown headers pass through folded, so extra columns
// survive for display without the engine knowing about them.
func canonicalColumn(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// knownOrderColumns are the headers with business meaning; anything else in
// the sheet is an internal helper.
var knownOrderColumns = map[string]bool{
	engine.ColReference: true,
	engine.ColClient:    true,
	engine.ColStatus:    true,
	engine.ColInvoice:   true,
	engine.ColArrival:   true,
	engine.ColShipDate:  true,
	engine.ColETA:       true,
}

// DisplayColumns returns the headers for rendering. The spreadsheets carry
// an internal helper column immediately before the arrival-date column; it
// is dropped here. Flat CSV exports have no helper, so a recognized column
// in that position is kept. The underlying slice is not mutated.
func (t *RawTable) DisplayColumns() []string {
	arrivalIdx := -1
	for i, col := range t.Columns {
		if canonicalColumn(col) == engine.ColArrival {
			arrivalIdx = i
			break
		}
	}
	if arrivalIdx <= 0 || knownOrderColumns[canonicalColumn(t.Columns[arrivalIdx-1])] {
		out := make([]string, len(t.Columns))
		copy(out, t.Columns)
		return out
	}

	out := make([]string, 0, len(t.Columns)-1)
	out = append(out, t.Columns[:arrivalIdx-1]...)
	out = append(out, t.Columns[arrivalIdx:]...)
	return out
}

// DecodeOrders decodes an order-control table. The format is chosen by the
// object name's extension: .csv is a flat file with underscored headers and
// the header on the first row; anything else is treated as an xlsx workbook
// with the header at the configured row offset.
func DecodeOrders(data []byte, objectName, sheet string, headerRow int) (*RawTable, error) {
	table, err := decodeTable(data, objectName, sheet, headerRow)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(table, requiredOrderColumns); err != nil {
		return nil, err
	}
	return table, nil
}

// DecodeTransit decodes the in-transit-material table into typed items.
func DecodeTransit(data []byte, objectName, sheet string, headerRow int) ([]model.TransitItem, error) {
	table, err := decodeTable(data, objectName, sheet, headerRow)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(table, []string{"numero_parte"}); err != nil {
		return nil, err
	}

	items := make([]model.TransitItem, 0, len(table.Rows))
	for _, row := range table.Rows {
		item := model.TransitItem{
			PartNumber:  strings.TrimSpace(row["numero_parte"]),
			Description: strings.TrimSpace(row["descripcion"]),
			Quantity:    strings.TrimSpace(row["cantidad"]),
			Status:      strings.TrimSpace(row["status"]),
		}
		if item.PartNumber == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeTable(data []byte, objectName, sheet string, headerRow int) (*RawTable, error) {
	if strings.HasSuffix(strings.ToLower(objectName), ".csv") {
		return decodeCSV(data)
	}
	return decodeXLSX(data, sheet, headerRow)
}

func decodeXLSX(data []byte, sheet string, headerRow int) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("the source file is not a readable spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("worksheet %q was not found in the source file: %w", sheet, err)
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("worksheet %q has no header row at offset %d", sheet, headerRow)
	}

	headers := rows[headerRow]
	return tableFromRows(headers, rows[headerRow+1:]), nil
}

func decodeCSV(data []byte) (*RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("the source file is not a readable CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("the source CSV is empty")
	}

	return tableFromRows(records[0], records[1:]), nil
}

func tableFromRows(headers []string, rows [][]string) *RawTable {
	// Keys stay index-aligned with the header row so cell positions survive
	// blank header cells.
	columns := make([]string, 0, len(headers))
	keys := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		columns = append(columns, h)
		keys[i] = canonicalColumn(h)
	}

	out := make([]engine.RawRow, 0, len(rows))
	for _, cells := range rows {
		row := engine.RawRow{}
		empty := true
		for i, key := range keys {
			if i >= len(cells) || key == "" {
				continue
			}
			value := strings.TrimSpace(cells[i])
			row[key] = value
			if value != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		out = append(out, row)
	}

	return &RawTable{Rows: out, Columns: columns}
}

func checkColumns(table *RawTable, required []string) error {
	have := map[string]bool{}
	for _, col := range table.Columns {
		have[canonicalColumn(col)] = true
	}
	for _, col := range required {
		if !have[col] {
			return fmt.Errorf("the source table is missing the required column %q; check that the sheet layout has not changed", col)
		}
	}
	return nil
}

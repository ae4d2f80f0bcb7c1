package services

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// CustomerExportColumn defines a column in the customer export spreadsheet.
type CustomerExportColumn struct {
	Header string
	Field  string  // field name on the PocketBase record
	Width  float64 // column width in Excel units
}

// CustomerExportData holds all data needed for the customer export.
type CustomerExportData struct {
	CompanyName string
	Columns     []CustomerExportColumn
	Rows        []map[string]string // each row is field -> value
}

// CustomerExportColumns returns the export columns, billing block first.
func CustomerExportColumns() []CustomerExportColumn {
	cols := []CustomerExportColumn{
		{Header: "Name", Field: "name", Width: 30},
		{Header: "Email", Field: "email", Width: 30},
		{Header: "Phone", Field: "phone", Width: 18},
		{Header: "GSTIN", Field: "gstin", Width: 20},
		{Header: "Currency", Field: "currency", Width: 10},
	}
	for _, block := range []struct{ prefix, label string }{
		{"billing_", "Billing"},
		{"shipping_", "Shipping"},
	} {
		cols = append(cols,
			CustomerExportColumn{Header: block.label + " Address", Field: block.prefix + "address_line_1", Width: 35},
			CustomerExportColumn{Header: block.label + " City", Field: block.prefix + "city", Width: 20},
			CustomerExportColumn{Header: block.label + " State", Field: block.prefix + "state", Width: 20},
			CustomerExportColumn{Header: block.label + " Country", Field: block.prefix + "country", Width: 18},
			CustomerExportColumn{Header: block.label + " PIN", Field: block.prefix + "pin_code", Width: 12},
		)
	}
	return cols
}

// BuildCustomerExportData reads every customer, ordered by name.
func BuildCustomerExportData(app core.App, companyName string) (CustomerExportData, error) {
	var records []*core.Record
	err := app.RecordQuery("customers").OrderBy("name ASC").All(&records)
	if err != nil {
		return CustomerExportData{}, fmt.Errorf("query customers: %w", err)
	}

	cols := CustomerExportColumns()
	data := CustomerExportData{CompanyName: companyName, Columns: cols}
	for _, rec := range records {
		row := make(map[string]string, len(cols))
		for _, c := range cols {
			row[c.Field] = rec.GetString(c.Field)
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}

const (
	customerSheet     = "Customers"
	customerHeaderRow = 4
)

type customerSheetStyles struct {
	title, subtitle, header, cell int
}

func newCustomerSheetStyles(f *excelize.File) (customerSheetStyles, error) {
	var st customerSheetStyles
	specs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&st.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&st.subtitle, &excelize.Style{Font: &excelize.Font{Size: 11, Italic: true}}},
		{&st.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{&st.cell, &excelize.Style{
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    thinBorders(),
		}},
	}
	for _, sp := range specs {
		id, err := f.NewStyle(sp.style)
		if err != nil {
			return st, fmt.Errorf("create style: %w", err)
		}
		*sp.dst = id
	}
	return st, nil
}

// GenerateCustomerExcel writes the customer list to a single-sheet workbook:
// a title, a count line, a frozen header row and one row per customer.
func GenerateCustomerExcel(data CustomerExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), customerSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	st, err := newCustomerSheetStyles(f)
	if err != nil {
		return nil, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(data.Columns))
	if err != nil {
		return nil, fmt.Errorf("last column: %w", err)
	}
	cell := func(col, row int) string {
		name, _ := excelize.CoordinatesToCellName(col, row)
		return name
	}

	for i, col := range data.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(customerSheet, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	banner := []struct {
		row   int
		value string
		style int
	}{
		{1, sanitizeExcelCell(data.CompanyName) + " - Customers", st.title},
		{2, fmt.Sprintf("Total: %d customers", len(data.Rows)), st.subtitle},
	}
	for _, b := range banner {
		end := lastCol + strconv.Itoa(b.row)
		_ = f.MergeCell(customerSheet, cell(1, b.row), end)
		_ = f.SetCellValue(customerSheet, cell(1, b.row), b.value)
		_ = f.SetCellStyle(customerSheet, cell(1, b.row), end, b.style)
	}

	headers := make([]any, len(data.Columns))
	for i, col := range data.Columns {
		headers[i] = col.Header
	}
	if err := f.SetSheetRow(customerSheet, cell(1, customerHeaderRow), &headers); err != nil {
		return nil, fmt.Errorf("header row: %w", err)
	}
	_ = f.SetCellStyle(customerSheet, cell(1, customerHeaderRow), lastCol+strconv.Itoa(customerHeaderRow), st.header)
	_ = f.SetPanes(customerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      customerHeaderRow,
		TopLeftCell: cell(1, customerHeaderRow+1),
		ActivePane:  "bottomLeft",
	})

	for i, rowData := range data.Rows {
		row := customerHeaderRow + 1 + i
		values := make([]any, len(data.Columns))
		for j, col := range data.Columns {
			values[j] = sanitizeExcelCell(rowData[col.Field])
		}
		if err := f.SetSheetRow(customerSheet, cell(1, row), &values); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		_ = f.SetCellStyle(customerSheet, cell(1, row), lastCol+strconv.Itoa(row), st.cell)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell quotes values that a spreadsheet would otherwise
// evaluate as a formula.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune("=+-@\t\r|", rune(s[0])) {
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	var borders []excelize.Border
	for _, side := range []string{"left", "top", "bottom", "right"} {
		borders = append(borders, excelize.Border{Type: side, Color: "#9E9E9E", Style: 1})
	}
	return borders
}

package excel

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"

	"github.com/conon21154/lineguide/internal/model"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyTable        = errors.New("table has no rows")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadTable reads every row of an .xlsx (first sheet) or .csv upload.
// CSV files that are not valid UTF-8 are decoded as CP949.
func ReadTable(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

func readXLSX(r io.Reader) ([][]string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, korean.EUCKR.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return rows, nil
}

// ParseAddressRows turns a sheet with a header row into address records.
// Columns are positional: city, district, neighborhood, lot, extra.
// Dropped rows are reported by their 1-based sheet row number.
func ParseAddressRows(rows [][]string) ([]model.AddressRecord, []int) {
	if len(rows) <= 1 {
		return nil, nil
	}

	input := make([]model.AddressRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		input = append(input, model.AddressRow{
			City:         cell(row, 0),
			District:     cell(row, 1),
			Neighborhood: cell(row, 2),
			Lot:          cell(row, 3),
			Extra:        cell(row, 4),
		})
	}

	records, dropped := BuildRecords(input)
	for i := range dropped {
		dropped[i]++
	}
	return records, dropped
}

// BuildRecords applies the ingestion rules to raw rows. Ids run 1..n over the
// kept rows; dropped rows are reported by their 1-based input position.
func BuildRecords(rows []model.AddressRow) ([]model.AddressRecord, []int) {
	records := make([]model.AddressRecord, 0, len(rows))
	var dropped []int
	for i, row := range rows {
		record, ok := model.NewAddressRecord(len(records)+1, row)
		if !ok {
			dropped = append(dropped, i+1)
			continue
		}
		records = append(records, record)
	}
	return records, dropped
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

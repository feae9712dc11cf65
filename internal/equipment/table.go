// Package equipment joins resolved addresses against a reference table of
// installed-equipment counts.
package equipment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/conon21154/lineguide/internal/address"
	"github.com/conon21154/lineguide/internal/model"
)

var ErrMissingColumn = errors.New("reference table column missing")

const (
	columnAddress = "address"
	columnCount   = "count"
)

var headerCleaner = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

type entry struct {
	record model.EquipmentRecord
	key    model.MatchKey
}

// Table is an immutable reference table. Keys are extracted once on load.
type Table struct {
	entries []entry
}

func NewTable(records []model.EquipmentRecord) *Table {
	entries := make([]entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, entry{record: record, key: address.ExtractKey(record.Address)})
	}
	return &Table{entries: entries}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Records returns a copy of the rows in load order.
func (t *Table) Records() []model.EquipmentRecord {
	if t == nil {
		return nil
	}
	out := make([]model.EquipmentRecord, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.record)
	}
	return out
}

// TableFromRows builds a table from a header row and data rows. Header names
// are canonicalized; counts that are missing or not numeric become 0 and rows
// without an address are skipped.
func TableFromRows(header []string, rows [][]string) (*Table, error) {
	addrIdx, countIdx := -1, -1
	for i, cell := range header {
		switch CanonicalHeader(cell) {
		case columnAddress:
			if addrIdx < 0 {
				addrIdx = i
			}
		case columnCount:
			if countIdx < 0 {
				countIdx = i
			}
		}
	}
	if addrIdx < 0 {
		return nil, fmt.Errorf("%w: address", ErrMissingColumn)
	}
	if countIdx < 0 {
		return nil, fmt.Errorf("%w: count", ErrMissingColumn)
	}

	records := make([]model.EquipmentRecord, 0, len(rows))
	for _, row := range rows {
		addr := strings.TrimSpace(cell(row, addrIdx))
		if addr == "" {
			continue
		}
		records = append(records, model.EquipmentRecord{
			Address:        addr,
			EquipmentCount: parseCount(cell(row, countIdx)),
		})
	}
	return NewTable(records), nil
}

// CanonicalHeader maps a reference-table header to "address", "count" or
// its cleaned form when it is neither.
func CanonicalHeader(raw string) string {
	h := headerCleaner.Replace(raw)
	switch strings.ToLower(h) {
	case "주소", "사업장주소", "설치주소", "address", "businessaddress":
		return columnAddress
	case "count", "installedcount":
		return columnCount
	}
	if strings.Contains(h, "수") {
		return columnCount
	}
	return h
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseCount(raw string) int {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

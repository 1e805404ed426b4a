package reconcile

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/extrame/xls"

	"finledger/internal/core"
)

// Column names of an import source, matched case-insensitively.
const (
	colDate        = "date"
	colAmount      = "amount"
	colCategory    = "category"
	colDescription = "description"
	colKind        = "transaction_type"
)

var requiredColumns = []string{colDate, colAmount, colCategory, colDescription, colKind}

// maxXLSRows bounds how many rows are read from a workbook.
const maxXLSRows = 65536

// record is one data row keyed by lower-cased column name. Row is 1-based.
type record struct {
	Row    int
	Fields map[string]string
	// epochDate marks a date given as epoch milliseconds.
	epochDate bool
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrMalformedImportData, fmt.Sprintf(format, args...))
}

func readRecords(r io.Reader, format Format) ([]record, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatJSON:
		return readJSON(r)
	case FormatXLS:
		return readXLS(r)
	default:
		return nil, fmt.Errorf("import from %s is not supported", format)
	}
}

func normalizeHeader(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c, "\ufeff")))
	}
	return out
}

func checkColumns(header []string) error {
	var missing []string
	for _, col := range requiredColumns {
		found := false
		for _, h := range header {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return malformed("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

// tableRecords turns a header and its data rows into records. Rows whose
// cells are all blank are skipped.
func tableRecords(header []string, rows [][]string) ([]record, error) {
	if err := checkColumns(header); err != nil {
		return nil, err
	}
	var out []record
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" || j >= len(row) {
				continue
			}
			fields[name] = row[j]
		}
		out = append(out, record{Row: i + 1, Fields: fields})
	}
	return out, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func readCSV(r io.Reader) ([]record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, malformed("csv: %v", err)
	}
	if len(rows) == 0 {
		return nil, malformed("csv: no header row")
	}
	return tableRecords(normalizeHeader(rows[0]), rows[1:])
}

func readXLS(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xls: %w", err)
	}
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, malformed("xls: %v", err)
	}

	rows := workbook.ReadAllCells(maxXLSRows)
	for i, row := range rows {
		header := normalizeHeader(row)
		for _, h := range header {
			if h == colDate {
				recs, err := tableRecords(header, rows[i+1:])
				if err != nil {
					return nil, err
				}
				for k := range recs {
					if d, ok := dateFromSerial(recs[k].Fields[colDate]); ok {
						recs[k].Fields[colDate] = d.String()
					}
				}
				return recs, nil
			}
		}
	}
	return nil, malformed("xls: no header row with a %q column", colDate)
}

// readJSON accepts an array of objects or the column orientation pandas
// writes by default: {"column": {"0": value, "1": value}}.
func readJSON(r io.Reader) ([]record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed("json: %v", err)
	}

	switch v := doc.(type) {
	case []any:
		return jsonRecords(v)
	case map[string]any:
		return jsonColumns(v)
	default:
		return nil, malformed("json: expected an array of records or an object of columns")
	}
}

func jsonRecords(items []any) ([]record, error) {
	out := make([]record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &core.RowError{Row: i + 1, Err: errors.New("not an object")}
		}
		rec := record{Row: i + 1, Fields: map[string]string{}}
		for k, raw := range obj {
			name := strings.ToLower(strings.TrimSpace(k))
			if err := rec.set(name, raw); err != nil {
				return nil, &core.RowError{Row: rec.Row, Field: name, Err: err}
			}
		}
		if err := rec.checkColumns(); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func jsonColumns(cols map[string]any) ([]record, error) {
	byRow := map[string]*record{}
	var keys []string
	for k, raw := range cols {
		name := strings.ToLower(strings.TrimSpace(k))
		col, ok := raw.(map[string]any)
		if !ok {
			return nil, malformed("json: column %q is not an object of rows", k)
		}
		for rowKey, cell := range col {
			rec, ok := byRow[rowKey]
			if !ok {
				rec = &record{Fields: map[string]string{}}
				byRow[rowKey] = rec
				keys = append(keys, rowKey)
			}
			if err := rec.set(name, cell); err != nil {
				return nil, malformed("json: column %q row %q: %v", k, rowKey, err)
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})

	out := make([]record, 0, len(keys))
	for i, k := range keys {
		rec := byRow[k]
		rec.Row = i + 1
		if err := rec.checkColumns(); err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (rec *record) set(name string, raw any) error {
	switch v := raw.(type) {
	case nil:
		rec.Fields[name] = ""
	case string:
		rec.Fields[name] = v
	case json.Number:
		rec.Fields[name] = v.String()
		if name == colDate {
			rec.epochDate = true
		}
	default:
		return fmt.Errorf("unsupported value %v", v)
	}
	return nil
}

// checkColumns requires every column key, as a table header must have them.
// A null or empty value still counts as present.
func (rec *record) checkColumns() error {
	for _, col := range requiredColumns {
		if _, ok := rec.Fields[col]; !ok {
			return &core.RowError{Row: rec.Row, Field: col, Err: errors.New("missing")}
		}
	}
	return nil
}

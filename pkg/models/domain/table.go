package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// NotAvailable is the placeholder stored for data the upstream API did not return.
const NotAvailable = "N/A"

// Row is a single record. Values are string, float64, bool or nil.
type Row map[string]any

// Table is an ordered sequence of rows sharing one set of columns.
// Columns keep first-appearance order across the rows the table was built from.
type Table struct {
	Columns []string
	Rows    []Row
}

// Field is one named value in an ordered record.
type Field struct {
	Key   string
	Value any
}

// NewTable builds a table from ordered records.
func NewTable(records [][]Field) Table {
	t := Table{Rows: make([]Row, 0, len(records))}
	seen := make(map[string]struct{})
	for _, record := range records {
		row := make(Row, len(record))
		for _, f := range record {
			if _, ok := seen[f.Key]; !ok {
				seen[f.Key] = struct{}{}
				t.Columns = append(t.Columns, f.Key)
			}
			row[f.Key] = f.Value
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (t Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of one column, nil for rows that lack it.
func (t Table) Column(name string) []any {
	values := make([]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		values = append(values, row[name])
	}
	return values
}

// DropColumn removes a column from the table and from every row.
func (t *Table) DropColumn(name string) {
	idx := slices.Index(t.Columns, name)
	if idx < 0 {
		return
	}
	t.Columns = slices.Delete(t.Columns, idx, idx+1)
	for _, row := range t.Rows {
		delete(row, name)
	}
}

// MarshalJSON writes the table as an array of objects whose keys follow column order.
func (t Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(row[col])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

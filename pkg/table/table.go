// Package table holds the tabular dataset a heatmap is drawn from.
//
// Data arrives either row-oriented (a sequence of uniform records) or
// column-oriented (a mapping of field name to value sequence). The engine
// works on rows internally, while the column model additionally needs
// column-oriented access; [Table] provides both views over one copy of the
// data and remembers the field order.
package table

import (
	"fmt"
	"slices"
)

// Record is one row of the dataset, keyed by field name.
type Record map[string]any

// Columns is column-oriented data: field name to value sequence.
type Columns map[string][]any

// Table is an immutable dataset with a stable field order.
type Table struct {
	fields []string
	rows   []Record
}

// FromRows builds a table from row-oriented data. When fields is empty, the
// field order is taken from the first record with keys sorted, since Go maps
// carry no order.
func FromRows(rows []Record, fields []string) *Table {
	if len(fields) == 0 && len(rows) > 0 {
		for k := range rows[0] {
			fields = append(fields, k)
		}
		slices.Sort(fields)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		rec := make(Record, len(r))
		for k, v := range r {
			rec[k] = v
		}
		out[i] = rec
	}
	return &Table{fields: slices.Clone(fields), rows: out}
}

// FromColumns builds a table from column-oriented data. All sequences must
// have the same length as the first field's sequence.
func FromColumns(cols Columns, fields []string) (*Table, error) {
	if len(fields) == 0 {
		for k := range cols {
			fields = append(fields, k)
		}
		slices.Sort(fields)
	}
	rows, err := ColToRow(cols, fields)
	if err != nil {
		return nil, err
	}
	return &Table{fields: slices.Clone(fields), rows: rows}, nil
}

// Fields returns the field names in order.
func (t *Table) Fields() []string { return slices.Clone(t.fields) }

// HasField reports whether name is one of the table's fields.
func (t *Table) HasField(name string) bool { return slices.Contains(t.fields, name) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th record. The record must not be modified.
func (t *Table) Row(i int) Record { return t.rows[i] }

// Rows returns all records in order. The records must not be modified.
func (t *Table) Rows() []Record { return t.rows }

// Column returns the values of one field in row order.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out
}

// Reorder returns a table with the rows at the given indices, in that order.
func (t *Table) Reorder(order []int) *Table {
	rows := make([]Record, len(order))
	for i, j := range order {
		rows[i] = t.rows[j]
	}
	return &Table{fields: t.fields, rows: rows}
}

// EnsureRows normalizes row- or column-oriented input to records.
// Accepted shapes are []Record, []map[string]any, Columns and map[string][]any.
func EnsureRows(data any, fields []string) ([]Record, error) {
	switch d := data.(type) {
	case []Record:
		return d, nil
	case []map[string]any:
		rows := make([]Record, len(d))
		for i, r := range d {
			rows[i] = Record(r)
		}
		return rows, nil
	case Columns:
		return ColToRow(d, fieldsOrKeys(fields, d))
	case map[string][]any:
		return ColToRow(Columns(d), fieldsOrKeys(fields, d))
	default:
		return nil, fmt.Errorf("unsupported data shape %T", data)
	}
}

func fieldsOrKeys(fields []string, cols map[string][]any) []string {
	if len(fields) > 0 {
		return fields
	}
	keys := make([]string, 0, len(cols))
	for k := range cols {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ColToRow converts column-oriented data to row-oriented records.
// Only the listed fields are converted.
func ColToRow(cols Columns, fields []string) ([]Record, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	size := len(cols[fields[0]])
	for _, f := range fields {
		values, ok := cols[f]
		if !ok {
			return nil, fmt.Errorf("field %q missing from column data", f)
		}
		if len(values) != size {
			return nil, fmt.Errorf("field %q has %d values, expected %d", f, len(values), size)
		}
	}
	rows := make([]Record, size)
	for i := range rows {
		rec := make(Record, len(fields))
		for _, f := range fields {
			rec[f] = cols[f][i]
		}
		rows[i] = rec
	}
	return rows, nil
}

// RowToCol converts row-oriented records to column-oriented data, preserving
// row order. Fields missing from a record become nil.
func RowToCol(rows []Record, fields []string) Columns {
	out := make(Columns, len(fields))
	for _, f := range fields {
		values := make([]any, len(rows))
		for i, r := range rows {
			values[i] = r[f]
		}
		out[f] = values
	}
	return out
}

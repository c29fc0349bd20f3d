package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	ferrors "github.com/matzehuels/funkyheatmap/pkg/errors"
	"github.com/matzehuels/funkyheatmap/pkg/table"
)

// ReadData decodes a table from r.
func ReadData(r io.Reader, f Format) (*table.Table, error) {
	switch f {
	case FormatCSV:
		return readDelimited(r, ',')
	case FormatTSV:
		return readDelimited(r, '\t')
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return readJSONTable(data)
	default:
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "%q is not a data format", f)
	}
}

// ImportData reads the table at path, picking the format by extension.
func ImportData(path string) (*table.Table, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer file.Close()

	t, err := ReadData(file, f)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return t, nil
}

func readDelimited(r io.Reader, comma rune) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(records) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "no header row")
	}

	fields := records[0]
	rows := make([]table.Record, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(table.Record, len(fields))
		for i, name := range fields {
			if i < len(rec) && rec[i] != "" {
				row[name] = rec[i]
			} else {
				row[name] = nil
			}
		}
		rows = append(rows, row)
	}
	return table.FromRows(rows, fields), nil
}

func readJSONTable(data []byte) (*table.Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "empty data")
	}

	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		var fields []string
		rows := make([]table.Record, len(raw))
		for i, r := range raw {
			if i == 0 {
				keys, err := keyOrder(r)
				if err != nil {
					return nil, fmt.Errorf("row 0: %w", err)
				}
				fields = keys
			}
			if err := json.Unmarshal(r, &rows[i]); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		return table.FromRows(rows, fields), nil

	case '{':
		fields, err := keyOrder(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		var cols table.Columns
		if err := json.Unmarshal(trimmed, &cols); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return table.FromColumns(cols, fields)

	default:
		return nil, ferrors.New(ferrors.ErrCodeInvalidInput, "data must be an array of objects or an object of arrays")
	}
}

// keyOrder returns the keys of a JSON object in document order.
func keyOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

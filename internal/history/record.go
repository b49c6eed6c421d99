// internal/history/record.go
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Field is a single column/value pair within a Record.
type Field struct {
	Column string
	Value  any
}

// Record is one result row. Columns keep the order the backend sent them in,
// which is the column order of the generated SQL statement.
type Record []Field

// NewRecord builds a Record from alternating column/value arguments.
// It is mostly useful in tests and fakes.
func NewRecord(pairs ...any) Record {
	rec := make(Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		col, _ := pairs[i].(string)
		rec = append(rec, Field{Column: col, Value: pairs[i+1]})
	}
	return rec
}

// Columns returns the column names in order.
func (r Record) Columns() []string {
	cols := make([]string, len(r))
	for i, f := range r {
		cols[i] = f.Column
	}
	return cols
}

// Get returns the value stored under column.
func (r Record) Get(column string) (any, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return nil, false
}

// Values returns the values in column order.
func (r Record) Values() []any {
	vals := make([]any, len(r))
	for i, f := range r {
		vals[i] = f.Value
	}
	return vals
}

// MarshalJSON encodes the record as a JSON object, preserving column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Column, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the record, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("record: expected JSON object")
	}

	rec := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: unexpected key token %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("record: column %q: %w", key, err)
		}
		rec = append(rec, Field{Column: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = rec
	return nil
}

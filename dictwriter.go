package flexcsv

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrMissingField is returned when a row lacks a value for a configured column.
	ErrMissingField = errors.New("flexcsv: row is missing a configured column")
	// ErrUnknownField is returned when FailOnExtras is set and a row carries
	// a key outside the configured column list.
	ErrUnknownField = errors.New("flexcsv: row contains an unconfigured column")
)

// DictWriter emits name-keyed rows through a positional Writer. The column
// list fixed at construction decides both which values a row must supply and
// the order they appear on the line, regardless of map key order.
type DictWriter struct {
	w       *Writer
	columns []string
	index   map[string]int

	// FailOnExtras rejects rows carrying keys outside the configured
	// columns. When unset, extra keys are silently ignored.
	FailOnExtras bool
}

// NewDictWriter wraps a configured Writer with an ordered column list. The
// list is copied and fixed for the DictWriter's lifetime.
func NewDictWriter(w *Writer, columns []string) *DictWriter {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if len(columns) == 0 {
		panic("flexcsv: dict writer requires at least one column")
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	index := make(map[string]int, len(cols))
	for i, name := range cols {
		index[name] = i
	}
	return &DictWriter{w: w, columns: cols, index: index}
}

// Columns returns the configured column names in write order. Callers must
// not modify the returned slice.
func (d *DictWriter) Columns() []string {
	return d.columns
}

// WriteHeader emits one line holding the column names as text fields.
// It is never called implicitly.
func (d *DictWriter) WriteHeader() error {
	header := make([]Field, len(d.columns))
	for i, name := range d.columns {
		header[i] = String(name)
	}
	return d.w.Write(header)
}

// WriteRow converts a name-keyed row to column order and emits it. Every
// configured column must be present in the map; extra keys are ignored
// unless FailOnExtras is set.
func (d *DictWriter) WriteRow(row map[string]Field) error {
	if d.FailOnExtras {
		if err := d.checkExtras(row); err != nil {
			return err
		}
	}

	record := make([]Field, len(d.columns))
	for i, name := range d.columns {
		value, ok := row[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrMissingField, name)
		}
		record[i] = value
	}
	return d.w.Write(record)
}

// WriteRows writes multiple rows, stopping at the first error. The output
// is byte-identical to writing each row individually in order.
func (d *DictWriter) WriteRows(rows []map[string]Field) error {
	for _, row := range rows {
		if err := d.WriteRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying positional writer.
func (d *DictWriter) Flush() error {
	return d.w.Flush()
}

func (d *DictWriter) checkExtras(row map[string]Field) error {
	var extras []string
	for name := range row {
		if _, ok := d.index[name]; !ok {
			extras = append(extras, name)
		}
	}
	if len(extras) == 0 {
		return nil
	}
	sort.Strings(extras)
	return fmt.Errorf("%w: %q", ErrUnknownField, extras[0])
}

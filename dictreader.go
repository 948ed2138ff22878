package flexcsv

import (
	"fmt"
	"io"
)

// Record is a named row: the ordered column list from the header plus one
// field per column. Short input rows leave trailing columns Absent; surplus
// values from long rows are kept in Extras.
type Record struct {
	columns []string
	index   map[string]int
	fields  []Field
	extras  []Field
}

// Columns returns the ordered column names shared by all records of one
// DictReader. Callers must not modify the returned slice.
func (rec *Record) Columns() []string {
	return rec.columns
}

// Get looks up a column by name. ok is false when name is not a header
// column at all; a column the input row did not supply comes back as the
// Absent marker with ok true.
func (rec *Record) Get(name string) (Field, bool) {
	i, ok := rec.index[name]
	if !ok {
		return Field{}, false
	}
	return rec.fields[i], true
}

// Fields returns the record's values in column order.
func (rec *Record) Fields() []Field {
	return rec.fields
}

// Extras returns surplus values beyond the header width, in input order.
// It is nil when the row matched the header.
func (rec *Record) Extras() []Field {
	return rec.extras
}

// DictReader reads header-mapped records: the first line of input supplies
// the ordered column list and every following line zips against it
// positionally. Line numbering counts the header, so the first data row
// reports line 2.
type DictReader struct {
	r       *Reader
	columns []string
	index   map[string]int
}

// NewDictReader wraps an already configured Reader. The header is consumed
// lazily on the first call to Columns or Read, so the Reader's delimiter,
// quote, and quoting policy may still be adjusted after construction.
func NewDictReader(r *Reader) *DictReader {
	if r == nil {
		panic("flexcsv: dict reader requires a non-nil reader")
	}
	return &DictReader{r: r}
}

// Columns returns the ordered column names, reading the header line first
// if it has not been consumed yet.
func (d *DictReader) Columns() ([]string, error) {
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	return d.columns, nil
}

// LineNum reports the underlying reader's physical line count, header
// included.
func (d *DictReader) LineNum() int {
	if d == nil {
		return 0
	}
	return d.r.LineNum()
}

// Read returns the next named record, or io.EOF when input is exhausted.
// A row shorter than the header is not an error: the missing trailing
// columns read as Absent. A longer row collects its surplus in Extras.
func (d *DictReader) Read() (*Record, error) {
	if err := d.readHeader(); err != nil {
		return nil, err
	}

	row, err := d.r.Read()
	if err != nil {
		return nil, err
	}

	fields := make([]Field, len(d.columns))
	for i := range fields {
		if i < len(row) {
			fields[i] = row[i]
		} else {
			fields[i] = Absent
		}
	}

	rec := &Record{
		columns: d.columns,
		index:   d.index,
		fields:  fields,
	}
	if len(row) > len(d.columns) {
		rec.extras = row[len(d.columns):]
	}
	return rec, nil
}

// ReadAll exhausts the reader, returning all named records and the first
// error encountered.
func (d *DictReader) ReadAll() (records []*Record, err error) {
	for {
		rec, err := d.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

func (d *DictReader) readHeader() error {
	if d.columns != nil {
		return nil
	}

	header, err := d.r.Read()
	if err == io.EOF {
		// No header means no records at all.
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("flexcsv: reading header: %w", err)
	}

	// Width enforcement is the header's job from here on. Data rows may
	// legitimately be shorter or longer, so the underlying check is off.
	d.r.FieldsPerRecord = -1

	d.columns = make([]string, len(header))
	d.index = make(map[string]int, len(header))
	for i, f := range header {
		name := f.Text()
		d.columns[i] = name
		d.index[name] = i
	}
	return nil
}

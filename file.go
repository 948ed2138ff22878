package flexcsv

import (
	"fmt"

	"github.com/spf13/afero"
)

// Options carries the codec configuration shared by the file helpers. Zero
// values fall back to the comma delimiter, the double-quote character, and
// the QuoteMinimal policy.
type Options struct {
	Comma   byte
	Quote   byte
	Quoting Quoting
}

// ReadFile opens name on fsys and parses it to completion. Pass
// afero.NewOsFs() for the real filesystem; tests use afero.NewMemMapFs().
func ReadFile(fsys afero.Fs, name string, opts Options) ([][]Field, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("flexcsv: open %s: %w", name, err)
	}
	defer f.Close()

	r := NewReader(f)
	r.Comma = opts.Comma
	r.Quote = opts.Quote
	r.Quoting = opts.Quoting
	return r.ReadAll()
}

// WriteFile creates name on fsys and writes all records to it. The file is
// flushed and closed on every exit path; when a write fails mid-sequence,
// output produced before the failure stays in place.
func WriteFile(fsys afero.Fs, name string, records [][]Field, opts Options) (err error) {
	f, err := fsys.Create(name)
	if err != nil {
		return fmt.Errorf("flexcsv: create %s: %w", name, err)
	}

	w := NewWriter(f)
	w.Comma = opts.Comma
	w.Quote = opts.Quote
	w.Quoting = opts.Quoting

	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return w.WriteAll(records)
}

package flexcsv

import (
	"bufio"
	"errors"
	"io"
)

var (
	errNilWriter      = errors.New("flexcsv: writer is nil")
	errWriterNoTarget = errors.New("flexcsv: writer destination cannot be nil")
)

// Writer emits typed records as delimited text. Every record is terminated
// with CRLF regardless of platform. Once a write fails, the error sticks and
// all further calls return it. Not safe for concurrent use.
type Writer struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// Quoting selects which fields get wrapped in quote characters.
	Quoting Quoting

	err error
}

// NewWriter creates a new Writer with internal buffering tuned for bulk
// writes. Defaults: comma delimiter, double-quote character, QuoteMinimal
// policy.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:   bufio.NewWriterSize(w, defaultBufferSize),
		Comma: ',',
		Quote: '"',
	}
}

// Reset updates the underlying writer while preserving the configuration
// flags and clearing any sticky error.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.err = nil
}

// Write emits a single record terminated with CRLF. Fields are joined by
// exactly one delimiter; the quoting policy decides per field whether quote
// characters wrap the value.
func (w *Writer) Write(record []Field) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	comma := w.Comma
	if comma == 0 {
		comma = ','
	}
	quote := w.Quote
	if quote == 0 {
		quote = '"'
	}

	for i := range record {
		if i > 0 {
			if err := w.dst.WriteByte(comma); err != nil {
				w.err = err
				return err
			}
		}
		if err := w.writeField(record[i], comma, quote); err != nil {
			w.err = err
			return err
		}
	}

	if _, err := w.dst.Write([]byte{'\r', '\n'}); err != nil {
		w.err = err
		return err
	}
	return nil
}

// WriteAll writes multiple records, stopping at the first error. The output
// is byte-identical to writing each record individually in order.
func (w *Writer) WriteAll(records [][]Field) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *Writer) writeField(field Field, comma, quote byte) error {
	// Numbers go out as bare decimal digits unless the policy quotes
	// everything. Digits never contain delimiter or quote bytes, so
	// QuoteMinimal leaves them bare too.
	if field.IsNumber() {
		if w.Quoting != QuoteAll {
			_, err := w.dst.WriteString(field.Text())
			return err
		}
		if err := w.dst.WriteByte(quote); err != nil {
			return err
		}
		if _, err := w.dst.WriteString(field.Text()); err != nil {
			return err
		}
		return w.dst.WriteByte(quote)
	}

	// Text and absent fields. Absent writes as the empty string.
	value := field.Text()
	needsQuote := w.Quoting == QuoteAll || w.Quoting == QuoteNonNumeric
	if !needsQuote {
		needsQuote = fieldNeedsQuote(value, comma, quote)
	}
	if !needsQuote {
		_, err := w.dst.WriteString(value)
		return err
	}
	if err := w.dst.WriteByte(quote); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(value); i++ {
		if value[i] == quote {
			if start < i {
				if _, err := w.dst.WriteString(value[start:i]); err != nil {
					return err
				}
			}
			if _, err := w.dst.Write([]byte{quote, quote}); err != nil {
				return err
			}
			start = i + 1
		}
	}
	if start < len(value) {
		if _, err := w.dst.WriteString(value[start:]); err != nil {
			return err
		}
	}
	return w.dst.WriteByte(quote)
}

func fieldNeedsQuote(field string, comma, quote byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quote, comma, '\n', '\r':
			return true
		}
	}
	return false
}

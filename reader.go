package flexcsv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

const defaultBufferSize = 1 << 10 // 1024 bytes

var (
	// ErrBareQuote is returned when an unexpected quote is found in an unquoted field.
	ErrBareQuote = errors.New("flexcsv: bare quote in non-quoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed before EOF.
	ErrUnterminatedQuote = errors.New("flexcsv: unterminated quoted field")
	// ErrFieldCount is returned when a record contains an unexpected number of fields.
	ErrFieldCount = errors.New("flexcsv: wrong number of fields")
	// ErrNotNumeric is returned under QuoteNonNumeric when an unquoted field
	// does not parse as an integer.
	ErrNotNumeric = errors.New("flexcsv: unquoted field is not numeric")
)

// ParseError contains location information for parsing errors.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
// Column is omitted when the failure is not tied to a single position.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Column > 0 {
		return fmt.Sprintf("flexcsv: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("flexcsv: parse error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Reader parses delimited text into typed records. Configure it by setting
// the exported fields before the first call to Read. A Reader is a lazy,
// forward-only sequence: records come back in input order and there is no
// way to rewind. It is not safe for concurrent use.
type Reader struct {
	src io.Reader

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the quote character. Default is '"'.
	Quote byte
	// Quoting selects the quoting policy. Under QuoteNonNumeric an unquoted
	// field parses as an integer and a quoted field stays text; under the
	// other policies every field stays text.
	Quoting Quoting
	// FieldsPerRecord expects each record to contain this many fields. Zero
	// captures the width of the first record; a negative value disables the
	// check entirely.
	FieldsPerRecord int

	buf    []byte
	bufPos int
	bufLen int
	bufErr error

	dataBuf     []byte
	fieldBounds []int
	fieldQuoted []bool
	finished    bool
	line        int
}

// NewReader creates a Reader that consumes delimited text from r, panicking
// if r is nil. Defaults: comma delimiter, double-quote character,
// QuoteMinimal policy.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		panic("flexcsv: reader source cannot be nil")
	}

	return &Reader{
		src:         r,
		Comma:       ',',
		Quote:       '"',
		buf:         make([]byte, defaultBufferSize),
		dataBuf:     make([]byte, 0, 512),
		fieldBounds: make([]int, 0, 32),
		fieldQuoted: make([]bool, 0, 16),
		line:        1,
	}
}

// LineNum returns the 1-based count of physical lines consumed so far,
// including lines embedded inside quoted fields. Before the first record it
// returns 0; after reading a header plus one data row it returns 2.
func (r *Reader) LineNum() int {
	if r == nil {
		return 0
	}
	return r.line - 1
}

// Read parses the next record from the underlying stream. It returns the
// typed field values and an err indicating success or failure; io.EOF
// signals that no more records remain.
func (r *Reader) Read() (record []Field, err error) {
	if r == nil || r.src == nil {
		return nil, io.EOF
	}
	if r.finished {
		return nil, io.EOF
	}

	comma := r.Comma
	if comma == 0 {
		comma = ','
	}
	quote := r.Quote
	if quote == 0 {
		quote = '"'
	}

	r.dataBuf = r.dataBuf[:0]
	r.fieldBounds = r.fieldBounds[:0]
	r.fieldQuoted = r.fieldQuoted[:0]

	inQuotes := false
	curQuoted := false
	column := 1
	fieldStart := 0

	for {
		// Ensure the working buffer has data before parsing the next byte.
		if r.bufPos >= r.bufLen {
			if r.bufErr != nil {
				curColumn := column
				err := r.bufErr
				r.bufErr = nil
				if err == io.EOF {
					// Unterminated quotes at EOF are invalid.
					if inQuotes {
						r.finished = true
						return nil, r.wrapError(curColumn, ErrUnterminatedQuote)
					}
					// Flush a trailing field if data ended without a newline.
					if len(r.fieldBounds) > 0 || len(r.dataBuf) > 0 || curQuoted {
						r.endField(&fieldStart, &curQuoted)
						r.finished = true
						r.line++
						return r.buildRecord()
					}
					r.finished = true
					return nil, io.EOF
				}
				return nil, err
			}

			// Pull the next chunk from the source.
			n, err := r.src.Read(r.buf)
			if n == 0 {
				if err != nil {
					r.bufErr = err
				}
				continue
			}
			r.bufPos = 0
			r.bufLen = n
			r.bufErr = err
		}

		if !inQuotes {
			// Fast-path plain bytes until a quote is encountered.
			data := r.buf[r.bufPos:r.bufLen]
			if len(data) == 0 {
				continue
			}

			quoteIdx := bytes.IndexByte(data, quote)
			switch {
			case quoteIdx == -1:
				recordDone, err := r.consumePlain(comma, &column, &fieldStart, &curQuoted)
				if err != nil {
					return nil, err
				}
				if recordDone {
					return r.buildRecord()
				}
				if r.bufPos >= r.bufLen {
					continue
				}
			case quoteIdx > 0:
				// Temporarily limit the buffer to process plain bytes up to the quote.
				originalLen := r.bufLen
				r.bufLen = r.bufPos + quoteIdx
				recordDone, err := r.consumePlain(comma, &column, &fieldStart, &curQuoted)
				r.bufLen = originalLen
				if err != nil {
					return nil, err
				}
				if recordDone {
					return r.buildRecord()
				}
				if r.bufPos >= r.bufLen {
					continue
				}
			}
		}

		curColumn := column
		b := r.buf[r.bufPos]
		r.bufPos++

		if inQuotes {
			if b == quote {
				// Double quote inside quotes represents an escaped quote.
				next, err := r.peekByte()
				if err == nil && next == quote {
					r.bufPos++
					r.dataBuf = append(r.dataBuf, quote)
					column = curColumn + 2
					continue
				}
				if err != nil && err != io.EOF {
					return nil, err
				}
				inQuotes = false
				column = curColumn + 1
				continue
			}
			if b == '\n' {
				// Track physical line numbers for embedded newlines.
				r.dataBuf = append(r.dataBuf, b)
				r.line++
				column = 1
				continue
			}

			start := r.bufPos - 1
			run := 1
			if r.bufPos < r.bufLen {
				data := r.buf[r.bufPos:r.bufLen]
				for i := 0; i < len(data); i++ {
					c := data[i]
					if c == quote || c == '\n' {
						break
					}
					run++
				}
				r.bufPos += run - 1
			}
			column = curColumn + run
			// Append contiguous plain bytes within the quoted field.
			r.dataBuf = append(r.dataBuf, r.buf[start:start+run]...)
			continue
		}

		switch b {
		case comma:
			r.endField(&fieldStart, &curQuoted)
			column = curColumn + 1
		case '\n':
			r.endField(&fieldStart, &curQuoted)
			r.line++
			column = 1
			return r.buildRecord()
		case '\r':
			next, err := r.peekByte()
			if err == nil && next == '\n' {
				r.bufPos++
			}
			if err != nil && err != io.EOF {
				return nil, err
			}
			r.endField(&fieldStart, &curQuoted)
			r.line++
			column = 1
			return r.buildRecord()
		case quote:
			// A quote starts a quoted field only if we have not buffered any characters yet.
			if len(r.dataBuf) == fieldStart && !curQuoted {
				inQuotes = true
				curQuoted = true
				column = curColumn + 1
				continue
			}
			return nil, r.wrapError(curColumn, ErrBareQuote)
		default:
			start := r.bufPos - 1
			run := 1
			if r.bufPos < r.bufLen {
				data := r.buf[r.bufPos:r.bufLen]
				for i := 0; i < len(data); i++ {
					c := data[i]
					if c == comma || c == '\n' || c == '\r' || c == quote {
						break
					}
					run++
				}
				r.bufPos += run - 1
			}
			column = curColumn + run
			// Copy consecutive plain bytes before the next delimiter.
			r.dataBuf = append(r.dataBuf, r.buf[start:start+run]...)
		}
	}
}

// ReadAll exhausts the reader, repeatedly calling Read to collect records
// until io.EOF and returning the accumulated records plus the first non-EOF
// error encountered.
func (r *Reader) ReadAll() (records [][]Field, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// endField seals the current field: its bounds and quoted flag are recorded
// and the per-field state resets for the next one.
func (r *Reader) endField(fieldStart *int, curQuoted *bool) {
	r.fieldBounds = append(r.fieldBounds, *fieldStart, len(r.dataBuf))
	r.fieldQuoted = append(r.fieldQuoted, *curQuoted)
	*fieldStart = len(r.dataBuf)
	*curQuoted = false
}

// buildRecord materialises the accumulated field bounds into typed fields.
// Under QuoteNonNumeric, unquoted values must parse as integers.
func (r *Reader) buildRecord() ([]Field, error) {
	fieldCount := len(r.fieldBounds) / 2
	data := string(r.dataBuf)

	record := make([]Field, fieldCount)
	for i := 0; i < fieldCount; i++ {
		start := r.fieldBounds[2*i]
		end := r.fieldBounds[2*i+1]
		value := data[start:end]

		if r.Quoting == QuoteNonNumeric && !r.fieldQuoted[i] {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, &ParseError{Line: r.line - 1, Err: fmt.Errorf("%w: %q", ErrNotNumeric, value)}
			}
			record[i] = Int(n)
		} else {
			record[i] = String(value)
		}
	}

	if r.FieldsPerRecord == 0 {
		r.FieldsPerRecord = fieldCount
		return record, nil
	}
	if r.FieldsPerRecord > 0 && fieldCount != r.FieldsPerRecord {
		return record, ErrFieldCount
	}
	return record, nil
}

// wrapError attaches the current line and supplied column to err, producing a *ParseError.
func (r *Reader) wrapError(column int, err error) error {
	return &ParseError{Line: r.line, Column: column, Err: err}
}

// consumePlain consumes unquoted field data, updating *column, *fieldStart,
// and *curQuoted. It reports whether a record terminator was seen and
// returns any read error encountered.
func (r *Reader) consumePlain(comma byte, column *int, fieldStart *int, curQuoted *bool) (bool, error) {
	for {
		if r.bufPos >= r.bufLen {
			return false, nil
		}

		// Locate the closest delimiter or record terminator within the buffered bytes.
		data := r.buf[r.bufPos:r.bufLen]
		idxComma := bytes.IndexByte(data, comma)
		idxNewline := bytes.IndexByte(data, '\n')
		idxCR := bytes.IndexByte(data, '\r')

		next := len(data)
		delim := byte(0)

		if idxComma >= 0 && idxComma < next {
			next = idxComma
			delim = comma
		}
		if idxNewline >= 0 && idxNewline < next {
			next = idxNewline
			delim = '\n'
		}
		if idxCR >= 0 && idxCR < next {
			next = idxCR
			delim = '\r'
		}

		// Append the plain run preceding the delimiter and advance position counters.
		if next > 0 {
			r.dataBuf = append(r.dataBuf, data[:next]...)
			r.bufPos += next
			*column += next
		}

		if delim == 0 {
			return false, nil
		}

		r.bufPos++
		switch delim {
		case comma:
			r.endField(fieldStart, curQuoted)
			*column = *column + 1
		case '\n':
			r.endField(fieldStart, curQuoted)
			r.line++
			*column = 1
			return true, nil
		case '\r':
			// Support CRLF by peeking ahead for '\n' and consuming it together.
			nextByte, err := r.peekByte()
			if err == nil && nextByte == '\n' {
				r.bufPos++
			} else if err != nil && err != io.EOF {
				return false, err
			}
			r.endField(fieldStart, curQuoted)
			r.line++
			*column = 1
			return true, nil
		}
	}
}

// peekByte returns the next buffered byte (refilling from src as needed) and propagates any read error.
func (r *Reader) peekByte() (byte, error) {
	for {
		if r.bufPos < r.bufLen {
			return r.buf[r.bufPos], nil
		}
		if r.bufErr != nil {
			return 0, r.bufErr
		}

		n, err := r.src.Read(r.buf)
		if n == 0 && err != nil {
			return 0, err
		}
		if n == 0 {
			continue
		}
		r.bufPos = 0
		r.bufLen = n
		r.bufErr = err
	}
}

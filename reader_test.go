package flexcsv

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReaderReadRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		comma   byte
		quote   byte
		quoting Quoting
		want    [][]Field
	}{
		{
			name:  "basicRecords",
			input: "one,two\nthree,four\n",
			want: [][]Field{
				{String("one"), String("two")},
				{String("three"), String("four")},
			},
		},
		{
			name:  "finalRecordWithoutTerminator",
			input: "alpha,beta,gamma",
			want: [][]Field{
				{String("alpha"), String("beta"), String("gamma")},
			},
		},
		{
			name:  "windowsLineEndings",
			input: "a,b\r\nc,d\r\n",
			want: [][]Field{
				{String("a"), String("b")},
				{String("c"), String("d")},
			},
		},
		{
			name:  "quotedComma",
			input: "a,\"b,b\",c\n",
			want: [][]Field{
				{String("a"), String("b,b"), String("c")},
			},
		},
		{
			name:  "escapedQuote",
			input: "a,\"b\"\"c\",d\n",
			want: [][]Field{
				{String("a"), String("b\"c"), String("d")},
			},
		},
		{
			name:  "embeddedNewline",
			input: "a,\"b\nc\",d\n",
			want: [][]Field{
				{String("a"), String("b\nc"), String("d")},
			},
		},
		{
			name:  "emptyFields",
			input: ",,\n",
			want: [][]Field{
				{String(""), String(""), String("")},
			},
		},
		{
			name:  "customComma",
			input: "left;right\nup;down\n",
			comma: ';',
			want: [][]Field{
				{String("left"), String("right")},
				{String("up"), String("down")},
			},
		},
		{
			name:  "customQuote",
			input: "alpha,'beta''gamma',delta\n",
			quote: '\'',
			want: [][]Field{
				{String("alpha"), String("beta'gamma"), String("delta")},
			},
		},
		{
			name:  "quotedEOF",
			input: "\"quoted\"",
			want: [][]Field{
				{String("quoted")},
			},
		},
		{
			name:  "carriageReturnEOF",
			input: "one\rtwo",
			want: [][]Field{
				{String("one")},
				{String("two")},
			},
		},
		{
			name:    "nonNumericTypesUnquotedFields",
			input:   "\"Sam\"\t18\t\"Baker\"\r\n",
			comma:   '\t',
			quoting: QuoteNonNumeric,
			want: [][]Field{
				{String("Sam"), Int(18), String("Baker")},
			},
		},
		{
			name:    "nonNumericNegativeValue",
			input:   "\"delta\",-5\n",
			quoting: QuoteNonNumeric,
			want: [][]Field{
				{String("delta"), Int(-5)},
			},
		},
		{
			name:    "nonNumericQuotedDigitsStayText",
			input:   "\"42\",7\n",
			quoting: QuoteNonNumeric,
			want: [][]Field{
				{String("42"), Int(7)},
			},
		},
		{
			name:    "quoteAllKeepsText",
			input:   "\"a\",\"18\"\n",
			quoting: QuoteAll,
			want: [][]Field{
				{String("a"), String("18")},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewReader(strings.NewReader(tc.input))
			if tc.comma != 0 {
				r.Comma = tc.comma
			}
			if tc.quote != 0 {
				r.Quote = tc.quote
			}
			r.Quoting = tc.quoting

			var records [][]Field
			for {
				rec, err := r.Read()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("Read() returned unexpected error: %v", err)
				}
				records = append(records, rec)
			}

			if diff := cmp.Diff(tc.want, records); diff != "" {
				t.Fatalf("Read() records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReaderLineNum(t *testing.T) {
	t.Parallel()

	input := "\"Name\"\t\"Age\"\t\"Occupation\"\r\n" +
		"\"John\"\t30\t\"Plumber\"\r\n" +
		"\"Cindy\"\t42\t\"CEO\"\r\n" +
		"\"Sara\"\t28\t\"Clerk\"\r\n" +
		"\"James\"\t17\t\"Stock Boy\"\r\n"

	r := NewReader(strings.NewReader(input))
	r.Comma = '\t'
	r.Quoting = QuoteNonNumeric

	if got := r.LineNum(); got != 0 {
		t.Fatalf("LineNum() before first record = %d, want 0", got)
	}

	for want := 1; want <= 5; want++ {
		if _, err := r.Read(); err != nil {
			t.Fatalf("Read() error = %v on line %d", err, want)
		}
		if got := r.LineNum(); got != want {
			t.Fatalf("LineNum() = %d, want %d", got, want)
		}
	}

	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		t.Fatalf("Read() expected io.EOF, got %v", err)
	}
}

func TestReaderLineNumEmbeddedNewline(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("a,\"b\nc\",d\ne,f,g\n"))

	if _, err := r.Read(); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := r.LineNum(); got != 2 {
		t.Fatalf("LineNum() after multi-line record = %d, want 2", got)
	}
	if _, err := r.Read(); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := r.LineNum(); got != 3 {
		t.Fatalf("LineNum() = %d, want 3", got)
	}
}

func TestReaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		quoting Quoting
		err     error
		line    int
		column  int
	}{
		{
			name:   "bareQuote",
			input:  "a\"b,c\n",
			err:    ErrBareQuote,
			line:   1,
			column: 2,
		},
		{
			name:   "unterminatedQuoteSameLine",
			input:  "\"value",
			err:    ErrUnterminatedQuote,
			line:   1,
			column: 7,
		},
		{
			name:   "unterminatedQuoteMultiLine",
			input:  "\"alpha\nbeta",
			err:    ErrUnterminatedQuote,
			line:   2,
			column: 5,
		},
		{
			name:    "notNumericUnquotedText",
			input:   "\"Sam\"\tBaker\n",
			quoting: QuoteNonNumeric,
			err:     ErrNotNumeric,
			line:    1,
		},
		{
			name:    "notNumericEmptyField",
			input:   "\"a\",\n",
			quoting: QuoteNonNumeric,
			err:     ErrNotNumeric,
			line:    1,
		},
		{
			name:    "notNumericSecondLine",
			input:   "1,2\n3,oops\n",
			quoting: QuoteNonNumeric,
			err:     ErrNotNumeric,
			line:    2,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewReader(strings.NewReader(tc.input))
			if tc.quoting == QuoteNonNumeric {
				r.Comma = detectComma(tc.input)
			}
			r.Quoting = tc.quoting

			var err error
			for {
				if _, err = r.Read(); err != nil {
					break
				}
			}
			if errors.Is(err, io.EOF) {
				t.Fatalf("Read() expected error %v, got io.EOF", tc.err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Read() returned error %T, want *ParseError", err)
			}
			if !errors.Is(perr.Err, tc.err) {
				t.Fatalf("ParseError.Err = %v, want %v", perr.Err, tc.err)
			}
			if perr.Line != tc.line {
				t.Fatalf("ParseError.Line = %d, want %d", perr.Line, tc.line)
			}
			if tc.column != 0 && perr.Column != tc.column {
				t.Fatalf("ParseError.Column = %d, want %d", perr.Column, tc.column)
			}
		})
	}
}

// detectComma keeps the error table readable: tab-delimited inputs carry a
// tab, everything else uses the default comma.
func detectComma(input string) byte {
	if strings.ContainsRune(input, '\t') {
		return '\t'
	}
	return ','
}

func TestReaderReadAll(t *testing.T) {
	t.Parallel()

	const input = "a,b,c\n\"d\",\"e,f\",\"g\"\"h\"\nlast,row,\n"
	want := [][]Field{
		{String("a"), String("b"), String("c")},
		{String("d"), String("e,f"), String("g\"h")},
		{String("last"), String("row"), String("")},
	}

	r := NewReader(strings.NewReader(input))

	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("ReadAll() records mismatch (-want +got):\n%s", diff)
	}
}

func TestReaderReadAllError(t *testing.T) {
	t.Parallel()

	r := NewReader(strings.NewReader("a,\"b\n"))

	records, err := r.ReadAll()
	if records != nil {
		t.Fatalf("ReadAll() returned records %+v, want nil on error", records)
	}
	if err == nil {
		t.Fatalf("ReadAll() expected error, got nil")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ReadAll() error type %T, want *ParseError", err)
	}
	if !errors.Is(perr.Err, ErrUnterminatedQuote) {
		t.Fatalf("ReadAll() error = %v, want ErrUnterminatedQuote", perr.Err)
	}
}

func TestParseErrorMethods(t *testing.T) {
	t.Parallel()

	err := &ParseError{Line: 3, Column: 7, Err: ErrBareQuote}
	if got := err.Error(); got == "" || !strings.Contains(got, "line 3") || !strings.Contains(got, "column 7") {
		t.Fatalf("Error() returned %q, want descriptive output", got)
	}
	if !errors.Is(err, ErrBareQuote) {
		t.Fatalf("ParseError should unwrap to ErrBareQuote")
	}
	if !errors.Is(err.Unwrap(), ErrBareQuote) {
		t.Fatalf("Unwrap() should return ErrBareQuote")
	}

	noColumn := &ParseError{Line: 4, Err: ErrNotNumeric}
	if got := noColumn.Error(); strings.Contains(got, "column") {
		t.Fatalf("Error() without column should omit it, got %q", got)
	}

	var nilErr *ParseError
	if nilErr.Error() != "" {
		t.Fatalf("nil ParseError should return empty string")
	}
	if nilErr.Unwrap() != nil {
		t.Fatalf("nil ParseError should return nil from Unwrap")
	}
}

func TestReaderFieldsPerRecord(t *testing.T) {
	t.Parallel()

	t.Run("autoDetectFirstRecord", func(t *testing.T) {
		t.Parallel()

		r := NewReader(strings.NewReader("a,b\nc,d\n"))

		record, err := r.Read()
		if err != nil {
			t.Fatalf("Read() error = %v, want nil", err)
		}
		if len(record) != 2 {
			t.Fatalf("Read() record length = %d, want 2", len(record))
		}
		if r.FieldsPerRecord != 2 {
			t.Fatalf("FieldsPerRecord = %d, want 2", r.FieldsPerRecord)
		}

		if _, err := r.Read(); err != nil {
			t.Fatalf("Read() second record error = %v, want nil", err)
		}
	})

	t.Run("mismatchReturnsError", func(t *testing.T) {
		t.Parallel()

		r := NewReader(strings.NewReader("x,y\n1,2,3\n"))
		r.FieldsPerRecord = 2

		if _, err := r.Read(); err != nil {
			t.Fatalf("Read() first record error = %v, want nil", err)
		}

		record, err := r.Read()
		if !errors.Is(err, ErrFieldCount) {
			t.Fatalf("Read() error = %v, want ErrFieldCount", err)
		}
		if len(record) != 3 {
			t.Fatalf("Read() record length = %d, want 3", len(record))
		}
	})
}

func TestNewReaderNilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("NewReader should panic on nil reader")
		}
	}()
	NewReader(nil)
}

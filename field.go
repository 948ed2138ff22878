package flexcsv

import "strconv"

// FieldKind discriminates the value carried by a Field.
type FieldKind uint8

const (
	// KindText marks a field holding text.
	KindText FieldKind = iota
	// KindNumber marks a field holding an integer.
	KindNumber
	// KindAbsent marks a column that a short record did not supply.
	KindAbsent
)

// Field is one delimited value, tagged as text, number, or absent.
// Under QuoteNonNumeric the tag decides quoting on output and is decided by
// quote presence on input.
type Field struct {
	kind FieldKind
	text string
	num  int64
}

// String returns a text field holding s.
func String(s string) Field {
	return Field{kind: KindText, text: s}
}

// Int returns a numeric field holding n.
func Int(n int64) Field {
	return Field{kind: KindNumber, num: n}
}

// Absent is the marker for a column missing from a short record.
var Absent = Field{kind: KindAbsent}

// Kind reports the field's tag.
func (f Field) Kind() FieldKind {
	return f.kind
}

// IsNumber reports whether the field carries an integer.
func (f Field) IsNumber() bool {
	return f.kind == KindNumber
}

// IsAbsent reports whether the field is the absent marker.
func (f Field) IsAbsent() bool {
	return f.kind == KindAbsent
}

// Text returns the field's value in text form. Numbers are rendered as
// decimal digits; the absent marker renders as the empty string.
func (f Field) Text() string {
	if f.kind == KindNumber {
		return strconv.FormatInt(f.num, 10)
	}
	return f.text
}

// Int returns the field's integer value and whether the field is numeric.
func (f Field) Int() (int64, bool) {
	return f.num, f.kind == KindNumber
}

// Equal reports whether two fields have the same tag and value.
func (f Field) Equal(other Field) bool {
	return f == other
}

// GoString formats the field for %#v diagnostics in test failures.
func (f Field) GoString() string {
	switch f.kind {
	case KindNumber:
		return "flexcsv.Int(" + strconv.FormatInt(f.num, 10) + ")"
	case KindAbsent:
		return "flexcsv.Absent"
	default:
		return "flexcsv.String(" + strconv.Quote(f.text) + ")"
	}
}

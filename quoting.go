package flexcsv

// Quoting selects which fields the Writer wraps in quote characters and, on
// the Reader side, whether quote presence carries type information.
type Quoting uint8

const (
	// QuoteMinimal quotes only fields containing the delimiter, the quote
	// character, or a line break. All fields read back as text.
	QuoteMinimal Quoting = iota
	// QuoteAll quotes every field on output. All fields read back as text.
	QuoteAll
	// QuoteNonNumeric quotes text fields and emits numeric fields as bare
	// decimal digits. On input, an unquoted field must parse as an integer.
	QuoteNonNumeric
)

// String returns the policy name.
func (q Quoting) String() string {
	switch q {
	case QuoteMinimal:
		return "QuoteMinimal"
	case QuoteAll:
		return "QuoteAll"
	case QuoteNonNumeric:
		return "QuoteNonNumeric"
	default:
		return "Quoting(unknown)"
	}
}

// # FlexCSV: A Configurable Typed CSV Library for Go
//
// FlexCSV is a Go library for reading and writing delimited text with customizable field delimiters, quote characters, and quoting policies. Fields are typed: under the quote-non-numeric policy, unquoted values parse as integers while quoted values stay text, and the writer makes the symmetric decision on output.
//
// # Features
//
// - Streaming reader with custom field and quote separators and per-field type inference.
// - Buffered writer with configurable delimiters and a three-way quoting policy (`QuoteMinimal`, `QuoteAll`, `QuoteNonNumeric`).
// - Header-mapped `DictReader` and `DictWriter` with a fixed ordered column list, absent-field markers, and overflow collection.
// - Structured error reporting via `ParseError`, `ErrBareQuote`, `ErrUnterminatedQuote`, `ErrNotNumeric`, `ErrFieldCount`, and `ErrMissingField`.
// - Whole-file helpers (`ReadFile`, `WriteFile`) over a pluggable filesystem.
// - Benchmarks, fuzz targets, and table-driven unit tests for regression protection.
//
// # Getting Started
//
// The module path is `github.com/oleg578/flexcsv`. Configure a Reader or Writer after construction by setting its exported fields, then drive it row by row.
package flexcsv

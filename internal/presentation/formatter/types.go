package formatter

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is a rectangular view. Columns flagged in Numeric are right
// aligned. Total, when set, is printed under a separator.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Numeric []bool
	Total   []string
	Empty   string
}

// Pair is one labelled value in a summary section.
type Pair struct {
	Key   string
	Value string
}

// Section is a titled block of pairs.
type Section struct {
	Title string
	Pairs []Pair
}

// Tabular values can print as a table.
type Tabular interface {
	Table() Table
}

// Summarizable values print as labelled sections.
type Summarizable interface {
	Summary() []Section
}

// Formatter writes a view in one output format.
type Formatter interface {
	Format(v any) error
}

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

var ErrUnsupportedView = errors.New("value cannot be printed in this format")

// New returns the formatter for format, writing to w.
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatTable, "":
		return NewTableFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (table, json, csv)", format)
	}
}

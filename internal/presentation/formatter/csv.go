package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

// Format writes a table as header plus rows, or a summary as
// section,key,value records.
func (f *CSVFormatter) Format(v any) error {
	w := csv.NewWriter(f.w)
	defer w.Flush()

	switch view := v.(type) {
	case Tabular:
		t := view.Table()
		if err := w.Write(t.Headers); err != nil {
			return err
		}
		for _, row := range t.Rows {
			if err := w.Write(row); err != nil {
				return err
			}
		}
	case Summarizable:
		if err := w.Write([]string{"section", "key", "value"}); err != nil {
			return err
		}
		for _, s := range view.Summary() {
			for _, p := range s.Pairs {
				if err := w.Write([]string{s.Title, p.Key, p.Value}); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedView, v)
	}
	w.Flush()
	return w.Error()
}

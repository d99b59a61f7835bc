package engine

import (
	"io"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// HeaderColumnsToPlural rewrites the listed header names by
// appending "s"; every subsequent row passes through verbatim. This is an
// output-format transform only — it lets downstream consumers see
// "timestamps"/"values" for columns GroupBy already rendered as lists under
// the singular name.
func HeaderColumnsToPlural(in io.Reader, out io.Writer, cols []string) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}
	toPlural := make(map[string]bool, len(cols))
	for _, c := range cols {
		toPlural[c] = true
	}
	newHeader := make(csvio.Header, len(header))
	for i, name := range header {
		if toPlural[name] {
			newHeader[i] = name + "s"
		} else {
			newHeader[i] = name
		}
	}

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(newHeader); err != nil {
		return err
	}
	for {
		row, err := r.ReadRowListAware()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// PluralizeHeader returns a copy of header with the listed entries renamed
// by appending "s"; the input header is left unchanged. It is the
// header-only form of HeaderColumnsToPlural and touches no rows; the
// orchestrators in this package use HeaderColumnsToPlural instead.
func PluralizeHeader(header csvio.Header, cols []string) csvio.Header {
	toPlural := make(map[string]bool, len(cols))
	for _, c := range cols {
		toPlural[c] = true
	}
	out := make(csvio.Header, len(header))
	for i, name := range header {
		if toPlural[name] {
			out[i] = name + "s"
		} else {
			out[i] = name
		}
	}
	return out
}

package engine

import (
	"io"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// GroupBy groups rows by groupByColumn and renders each aggregated column
// as a bracketed, first-seen-order list; non-aggregated columns keep the
// group's first value. Empty cells are substituted with the literal "0"
// before grouping.
func GroupBy(in io.Reader, out io.Writer, groupByColumn string, aggregated []string) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}
	groupIdx := header.Index(groupByColumn)
	if groupIdx < 0 {
		return &ErrColumnMissing{Column: groupByColumn}
	}
	isAgg := make(map[int]bool, len(aggregated))
	for _, c := range aggregated {
		if i := header.Index(c); i >= 0 {
			isAgg[i] = true
		}
	}

	type group struct {
		cols [][]string // per-column accumulated values, in first-seen order
	}
	groups := make(map[string]*group)
	var order []string

	for {
		row, err := r.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := csvio.CheckWidth(header, row); err != nil {
			return err
		}
		for i, v := range row {
			if v == "" {
				row[i] = "0"
			}
		}
		id := row[groupIdx]
		g, ok := groups[id]
		if !ok {
			g = &group{cols: make([][]string, len(header))}
			groups[id] = g
			order = append(order, id)
		}
		for i, v := range row {
			g.cols[i] = append(g.cols[i], v)
		}
	}

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(header); err != nil {
		return err
	}
	for _, id := range order {
		g := groups[id]
		outRow := make(csvio.Row, len(header))
		for i := range header {
			if isAgg[i] {
				outRow[i] = csvio.JoinList(g.cols[i])
			} else {
				outRow[i] = g.cols[i][0]
			}
		}
		if err := w.WriteRow(outRow); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ErrColumnMissing is returned when a stage's required column name is not
// present in the header.
type ErrColumnMissing struct{ Column string }

func (e *ErrColumnMissing) Error() string {
	return "engine: column missing from header: " + e.Column
}

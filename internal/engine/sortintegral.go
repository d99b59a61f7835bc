package engine

import (
	"io"
	"sort"
	"strconv"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// SortIntegralValues computes the permutation that sorts sortBy's int64
// values ascending and applies that same permutation to every list column
// in listColumns. listColumns must contain sortBy.
func SortIntegralValues(in io.Reader, out io.Writer, sortBy string, listColumns []string) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}

	hasSortBy := false
	for _, c := range listColumns {
		if c == sortBy {
			hasSortBy = true
			break
		}
	}
	if !hasSortBy {
		return &ErrColumnMissing{Column: sortBy + " (must be a member of listColumns)"}
	}

	colIdx := make(map[string]int, len(listColumns))
	for _, c := range listColumns {
		idx := header.Index(c)
		if idx < 0 {
			return &ErrColumnMissing{Column: c}
		}
		colIdx[c] = idx
	}

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(header); err != nil {
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
		if err := csvio.CheckWidth(header, row); err != nil {
			return err
		}

		lists := make(map[string][]string, len(listColumns))
		for _, c := range listColumns {
			lists[c] = csvio.SplitList(row[colIdx[c]])
		}

		vals := make([]int64, len(lists[sortBy]))
		for i, s := range lists[sortBy] {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return &ErrIntParse{Field: sortBy, Value: s, Cause: err}
			}
			vals[i] = v
		}
		perm := sortPermutation(vals)

		for _, c := range listColumns {
			lists[c] = applyPermutation(lists[c], perm)
		}
		for _, c := range listColumns {
			row[colIdx[c]] = csvio.JoinList(lists[c])
		}
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

// sortPermutation returns p such that vals[p[k]] is ascending.
func sortPermutation(vals []int64) []int {
	p := make([]int, len(vals))
	for i := range p {
		p[i] = i
	}
	sort.SliceStable(p, func(a, b int) bool {
		return vals[p[a]] < vals[p[b]]
	})
	return p
}

// applyPermutation returns a new slice lst[p[0]], lst[p[1]], ...
func applyPermutation(lst []string, p []int) []string {
	out := make([]string, len(p))
	for i, idx := range p {
		if idx < len(lst) {
			out[i] = lst[idx]
		}
	}
	return out
}

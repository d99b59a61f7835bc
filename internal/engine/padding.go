package engine

import (
	"io"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// PadSpec names one column and its target inner-list width.
type PadSpec struct {
	Column string
	Width  int
}

// AddPaddingToCols left-pads each listed column's inner list to exactly its
// configured width with "0", optionally truncating the tail first when the
// list is already longer.
func AddPaddingToCols(in io.Reader, out io.Writer, cols []PadSpec, enforceMax bool) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}
	w := csvio.NewWriter(out)
	if err := w.WriteHeader(header); err != nil {
		return err
	}

	idxByCol := make(map[int]int, len(cols)) // header index -> cols slice index
	for i, c := range cols {
		idx := header.Index(c.Column)
		if idx < 0 {
			return &ErrColumnMissing{Column: c.Column}
		}
		idxByCol[idx] = i
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
		for colIdx, specIdx := range idxByCol {
			width := cols[specIdx].Width
			vals := csvio.SplitList(row[colIdx])
			if enforceMax && len(vals) > width {
				vals = vals[:width]
			}
			if len(vals) < width {
				padded := make([]string, 0, width)
				for i := 0; i < width-len(vals); i++ {
					padded = append(padded, "0")
				}
				padded = append(padded, vals...)
				vals = padded
			}
			row[colIdx] = csvio.JoinList(vals)
		}
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}
	return w.Flush()
}

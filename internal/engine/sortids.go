package engine

import (
	"io"
	"sort"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// SortIds imposes a total lexicographic (byte-wise) ascending order on the
// id_ column. Duplicate ids are not deduplicated: each occurrence yields an
// output row, and every such row carries the last row read for that id,
// matching the reference map-based implementation.
func SortIds(in io.Reader, out io.Writer) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}
	idIdx := header.Index("id_")
	if idIdx < 0 {
		return &ErrColumnMissing{Column: "id_"}
	}

	byID := make(map[string]csvio.Row)
	var ids []string
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
		id := row[idIdx]
		ids = append(ids, id)
		byID[id] = row
	}
	sort.Strings(ids)

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(header); err != nil {
		return err
	}
	for _, id := range ids {
		if err := w.WriteRow(byID[id]); err != nil {
			return err
		}
	}
	return w.Flush()
}

package engine

import (
	"io"
	"strconv"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
	"github.com/facebookresearch/fbpcs-sub002/internal/spine"
)

// ColumnAgg names how a single non-id column must be combined across
// duplicate data rows matching the same spine row, for the publisher-Lift
// variant of IdSwap. It is an explicit, caller-supplied part of the
// publisher schema, never guessed from the column name.
type ColumnAgg struct {
	Column string
	Kind   ColumnAggKind
}

type ColumnAggKind int

const (
	AggTakeFirst ColumnAggKind = iota
	AggSum
	AggLogicalOr
)

// IdSwapConfig parameterizes the multi-key IdSwap stage.
type IdSwapConfig struct {
	MaxIDColumnCnt int
	// CollapseDuplicates, when set, enables the publisher-Lift variant:
	// multiple data rows matching one spine row are combined into a single
	// output row by column-wise aggregation instead of being emitted
	// individually. Aggs must list every non-id column's aggregation kind.
	CollapseDuplicates bool
	Aggs               []ColumnAgg
}

// IdSwap joins data rows to spine rows on a concatenated, priority-ordered
// id key and, in spine order, emits one output row per matching data row
// (a single combined row when CollapseDuplicates is set, and a single
// zero-filled row when nothing matches), with the private identifier
// prepended and the id_ columns removed.
func IdSwap(data io.Reader, spineR io.Reader, out io.Writer, cfg IdSwapConfig) error {
	dr := csvio.NewReader(data)
	header, err := dr.ReadHeader()
	if err != nil {
		return err
	}
	idIdx := header.IndicesOfPrefix("id_")

	spineRows, err := spine.ReadAll(spineR)
	if err != nil {
		return err
	}
	idx := spine.BuildIndex(spineRows, cfg.MaxIDColumnCnt)

	// Build the data index: concatenated id-key -> matching rows with id
	// columns stripped.
	dataIndex := make(map[string][]csvio.Row)
	for {
		row, err := dr.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := csvio.CheckWidth(header, row); err != nil {
			return err
		}
		key, ok := concatRowIDs(row, idIdx, cfg.MaxIDColumnCnt)
		if !ok {
			continue
		}
		if _, found := idx.PrivateIDFor(key); !found {
			return &ErrIdMissingInSpine{Key: key}
		}
		dataIndex[key] = append(dataIndex[key], removeColumns(row, idIdx))
	}

	outHeader := removeColumns(csvio.Row(header), idIdx)
	newHeader := make(csvio.Header, 0, len(outHeader)+1)
	newHeader = append(newHeader, "id_")
	newHeader = append(newHeader, outHeader...)

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(newHeader); err != nil {
		return err
	}

	nonIDHeader := removeColumns(csvio.Row(header), idIdx)
	numNonID := len(nonIDHeader)
	zeroRow := make(csvio.Row, numNonID)
	for i := range zeroRow {
		zeroRow[i] = "0"
	}

	for _, srow := range idx.Rows() {
		key, matched := srow.ConcatKey(cfg.MaxIDColumnCnt)
		rows := dataIndex[key]
		if !matched || len(rows) == 0 {
			if err := writeJoined(w, srow.PrivateID, zeroRow); err != nil {
				return err
			}
			continue
		}
		if cfg.CollapseDuplicates {
			combined, err := collapse(rows, nonIDHeader, cfg.Aggs)
			if err != nil {
				return err
			}
			if err := writeJoined(w, srow.PrivateID, combined); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := writeJoined(w, srow.PrivateID, r); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func writeJoined(w *csvio.Writer, privateID string, rest csvio.Row) error {
	row := make(csvio.Row, 0, len(rest)+1)
	row = append(row, privateID)
	row = append(row, rest...)
	return w.WriteRow(row)
}

// concatRowIDs forms the data-side join key: concatenate non-empty id
// column cells, in header order, stopping once maxIDColumnCnt have been
// taken. A row with zero non-empty id cells is "dropped" (ok=false).
func concatRowIDs(row csvio.Row, idIdx []int, maxIDColumnCnt int) (key string, ok bool) {
	var parts []string
	for _, i := range idIdx {
		v := row[i]
		if v == "" {
			continue
		}
		parts = append(parts, v)
		if maxIDColumnCnt > 0 && len(parts) == maxIDColumnCnt {
			break
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out, true
}

func removeColumns(row csvio.Row, idx []int) csvio.Row {
	if len(idx) == 0 {
		out := make(csvio.Row, len(row))
		copy(out, row)
		return out
	}
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	out := make(csvio.Row, 0, len(row)-len(idx))
	for i, v := range row {
		if skip[i] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// collapse combines multiple data rows matching the same spine row into one
// row, per-column, using the aggregation kind configured for that column.
func collapse(rows []csvio.Row, header csvio.Row, aggs []ColumnAgg) (csvio.Row, error) {
	kindFor := make(map[string]ColumnAggKind, len(aggs))
	for _, a := range aggs {
		kindFor[a.Column] = a.Kind
	}

	out := make(csvio.Row, len(header))
	for col := range header {
		name := header[col]
		kind, ok := kindFor[name]
		if !ok {
			kind = AggTakeFirst
		}
		switch kind {
		case AggSum:
			var sum int64
			for _, r := range rows {
				v, err := strconv.ParseInt(r[col], 10, 64)
				if err != nil {
					return nil, &ErrIntParse{Field: name, Value: r[col], Cause: err}
				}
				sum += v
			}
			out[col] = strconv.FormatInt(sum, 10)
		case AggLogicalOr:
			any := false
			for _, r := range rows {
				if isTruthy(r[col]) {
					any = true
					break
				}
			}
			out[col] = boolCell(any)
		default: // AggTakeFirst
			out[col] = rows[0][col]
		}
	}
	return out, nil
}

// CollapseByID groups an already id-swapped stream by its id_ column and
// combines same-id rows per the publisher-Lift aggregation schema. It is
// used in the MR_PID protocol variant, where the join step itself is a
// passthrough of an already-joined spine file but the duplicate-row
// collapse IdSwap would otherwise have performed must still run.
func CollapseByID(in io.Reader, out io.Writer, aggs []ColumnAgg) error {
	r := csvio.NewReader(in)
	header, err := r.ReadHeader()
	if err != nil {
		return err
	}
	idIdx := header.Index("id_")
	if idIdx < 0 {
		return &ErrColumnMissing{Column: "id_"}
	}
	rest := removeColumns(csvio.Row(header), []int{idIdx})

	groups := make(map[string][]csvio.Row)
	var order []string
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
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], removeColumns(row, []int{idIdx}))
	}

	w := csvio.NewWriter(out)
	if err := w.WriteHeader(header); err != nil {
		return err
	}
	for _, id := range order {
		combined, err := collapse(groups[id], rest, aggs)
		if err != nil {
			return err
		}
		if err := writeJoined(w, id, combined); err != nil {
			return err
		}
	}
	return w.Flush()
}

func isTruthy(s string) bool {
	return s != "" && s != "0"
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

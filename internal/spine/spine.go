// Package spine reads the identity spine produced by the upstream PID
// match step: a headerless CSV whose first column is the assigned private
// identifier and whose remaining columns are the original identity keys in
// descending match priority.
package spine

import (
	"io"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

// Row is one parsed spine line: PrivateID plus its priority-ordered keys.
type Row struct {
	PrivateID string
	Keys      []string
}

// ReadAll parses every row of a headerless spine stream.
func ReadAll(r io.Reader) ([]Row, error) {
	cr := csvio.NewReader(r)
	var rows []Row
	for {
		row, err := cr.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, Row{PrivateID: row[0], Keys: row[1:]})
	}
	return rows, nil
}

// ConcatKey joins up to maxKeys non-empty key cells with commas, in spine
// priority order, skipping empty cells at the concat level. An empty
// result, or the literal sentinel "NA", marks the row as unmatched (no
// data-side match).
func (r Row) ConcatKey(maxKeys int) (key string, matched bool) {
	var parts []string
	for _, k := range r.Keys {
		if k == "" {
			continue
		}
		parts = append(parts, k)
		if maxKeys > 0 && len(parts) == maxKeys {
			break
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	key = joinComma(parts)
	if key == "" || key == "NA" {
		return key, false
	}
	return key, true
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

// Index maps a spine's concatenated data-side key to the private id it
// resolves to. Last write wins on collision; well-formed input is assumed
// not to produce one.
type Index struct {
	byKey map[string]string
	rows  []Row
}

// BuildIndex constructs the spine lookup used by IdSwap, concatenating at
// most maxIDColumnCnt key columns per spine row.
func BuildIndex(rows []Row, maxIDColumnCnt int) *Index {
	idx := &Index{byKey: make(map[string]string, len(rows)), rows: rows}
	for _, row := range rows {
		key, matched := row.ConcatKey(maxIDColumnCnt)
		if !matched {
			continue
		}
		idx.byKey[key] = row.PrivateID
	}
	return idx
}

// Rows returns the spine rows in file order, for the second (emit) pass
// over the spine that IdSwap requires.
func (idx *Index) Rows() []Row { return idx.rows }

// PrivateIDFor resolves a data-side concatenated key to its private id.
func (idx *Index) PrivateIDFor(key string) (string, bool) {
	id, ok := idx.byKey[key]
	return id, ok
}

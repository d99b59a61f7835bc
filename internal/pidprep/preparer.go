// Package pidprep dedupes the id_ column of an upstream dataset into the
// single-column file the PID matcher expects, grounded on fbpcs's
// UnionPIDDataPreparer.
package pidprep

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
)

const idColumnName = "id_"

// Result mirrors UnionPIDDataPreparerResults: how many input rows were read
// and how many of them carried an id_ value already seen earlier in the
// file.
type Result struct {
	LinesProcessed   int64
	DuplicateIdCount int64
}

// ErrMissingIDColumn is returned when the input header has no id_ column.
type ErrMissingIDColumn struct{ Header []string }

func (e *ErrMissingIDColumn) Error() string {
	return fmt.Sprintf("pidprep: %q column missing from input header: %v", idColumnName, e.Header)
}

// ErrRowWidthMismatch is returned when a data row's field count does not
// match the header's.
type ErrRowWidthMismatch struct {
	Line       int64
	HeaderSize int
	RowSize    int
}

func (e *ErrRowWidthMismatch) Error() string {
	return fmt.Sprintf("pidprep: mismatch between header and row at index %d: header has %d columns, row has %d",
		e.Line, e.HeaderSize, e.RowSize)
}

// Prepare reads a headered CSV from in, emits one line per distinct id_
// value (first occurrence order) to out, and reports how many lines were
// processed and how many were duplicates. logEveryN, when positive, logs a
// milestone every that many processed lines (0 disables milestone
// logging). If the input carries zero data rows, a single
// cryptographically random 64-bit dummy id is emitted instead, so the
// downstream PID matcher never receives a truly empty file.
func Prepare(in io.Reader, out io.Writer, logEveryN int64, logger *log.Logger) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return res, err
		}
		return res, &ErrMissingIDColumn{Header: nil}
	}
	header := splitLine(scanner.Text())
	idIdx := -1
	for i, c := range header {
		if c == idColumnName {
			idIdx = i
			break
		}
	}
	if idIdx < 0 {
		return res, &ErrMissingIDColumn{Header: header}
	}

	w := bufio.NewWriter(out)
	seen := make(map[string]struct{})

	for scanner.Scan() {
		cols := splitLine(scanner.Text())
		if len(cols) != len(header) {
			return res, &ErrRowWidthMismatch{Line: res.LinesProcessed, HeaderSize: len(header), RowSize: len(cols)}
		}
		id := cols[idIdx]
		if _, dup := seen[id]; dup {
			res.DuplicateIdCount++
		} else {
			seen[id] = struct{}{}
			if _, err := w.WriteString(id + "\n"); err != nil {
				return res, err
			}
		}
		res.LinesProcessed++
		if logger != nil && logEveryN > 0 && res.LinesProcessed%logEveryN == 0 {
			logger.Printf("pidprep: processed %d lines", res.LinesProcessed)
		}
	}
	if err := scanner.Err(); err != nil {
		return res, err
	}
	if logger != nil {
		logger.Printf("pidprep: processed with %d duplicate ids", res.DuplicateIdCount)
	}

	if res.LinesProcessed == 0 {
		if logger != nil {
			logger.Printf("pidprep: input is empty, adding random dummy row")
		}
		dummy, err := secureRandomUint64()
		if err != nil {
			return res, err
		}
		if _, err := w.WriteString(strconv.FormatUint(dummy, 10) + "\n"); err != nil {
			return res, err
		}
	}
	return res, w.Flush()
}

// splitLine mirrors the reference's preprocessing: strip spaces, then
// split on commas.
func splitLine(line string) []string {
	line = strings.ReplaceAll(line, " ", "")
	return strings.Split(line, ",")
}

// secureRandomUint64 draws a random 64-bit id via crypto/rand, matching
// folly::Random::secureRand64()'s role of avoiding an accidental match with
// real data on the other side of the join.
func secureRandomUint64() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("pidprep: crypto/rand unavailable: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

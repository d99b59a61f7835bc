// Package csvio provides the buffered, newline-framed row reader and writer
// shared by every stream stage in the pipeline. It deliberately does not use
// encoding/csv: the wire format has no quoting, and bracketed list cells
// (e.g. "[1,2,3]") must survive a plain comma split, which encoding/csv has
// no notion of.
package csvio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/c2h5oh/datasize"
)

// MinChunkSize is the minimum buffered-read block size mandated by the
// chunking policy: "read in >= 1 MiB blocks to amortize I/O".
const MinChunkSize = datasize.ByteSize(1) * datasize.MB

// Header is the ordered, unique set of column names bound to every row
// produced alongside it.
type Header []string

// Row is a single parsed CSV line, always the same cardinality as its Header.
type Row []string

// Index returns the position of name in the header, or -1 if absent.
func (h Header) Index(name string) int {
	for i, c := range h {
		if c == name {
			return i
		}
	}
	return -1
}

// IndicesOfPrefix returns the indices of every column whose name begins
// with prefix, in header order.
func (h Header) IndicesOfPrefix(prefix string) []int {
	var out []int
	for i, c := range h {
		if strings.HasPrefix(c, prefix) {
			out = append(out, i)
		}
	}
	return out
}

// ErrMissingHeader is returned when a stream has no lines at all where a
// header line was required.
var ErrMissingHeader = errors.New("csvio: missing header")

// ErrUnterminatedList is returned by the list-aware split when a "[" is
// never closed by a matching "]" within the line.
var ErrUnterminatedList = errors.New("csvio: unterminated list")

// RowWidthMismatchError is returned when a row's field count does not equal
// its header's column count.
type RowWidthMismatchError struct {
	HeaderSize int
	RowSize    int
	Header     Header
	Row        Row
}

func (e *RowWidthMismatchError) Error() string {
	return fmt.Sprintf(
		"csvio: row width mismatch: header has %d columns, row has %d (header=%v row=%v)",
		e.HeaderSize, e.RowSize, []string(e.Header), []string(e.Row))
}

// Reader is a lazy, single-pass sequence of rows over a byte stream. It is
// not safe for concurrent use and is exhausted after a single traversal.
type Reader struct {
	br        *bufio.Reader
	ChunkSize datasize.ByteSize
}

// NewReader wraps r with a buffered reader sized per the chunking policy
// (at least MinChunkSize).
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, int(MinChunkSize)), ChunkSize: MinChunkSize}
}

// readLine reads one newline-framed line, stripping a trailing "\r" and
// "\n". Returns io.EOF when the stream is exhausted with no more data.
func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ReadHeader reads exactly one line and splits it plainly (brackets are not
// honored in a header line). Fails with ErrMissingHeader on an empty stream.
func (r *Reader) ReadHeader() (Header, error) {
	line, err := r.readLine()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingHeader
		}
		return nil, err
	}
	return Header(PlainSplit(line)), nil
}

// ReadRow reads the next line and splits it plainly on commas, without
// honoring brackets. Returns io.EOF when the stream is exhausted.
func (r *Reader) ReadRow() (Row, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	return Row(PlainSplit(line)), nil
}

// ReadRowListAware reads the next line and splits it on commas while
// treating any "[...]" run as a single token. Returns io.EOF when the
// stream is exhausted, or ErrUnterminatedList on a "[" with no matching "]".
func (r *Reader) ReadRowListAware() (Row, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	fields, err := ListAwareSplit(line)
	if err != nil {
		return nil, err
	}
	return Row(fields), nil
}

// CheckWidth enforces that every row has exactly |header| fields.
func CheckWidth(h Header, row Row) error {
	if len(row) != len(h) {
		return &RowWidthMismatchError{HeaderSize: len(h), RowSize: len(row), Header: h, Row: row}
	}
	return nil
}

// PlainSplit splits s on "," without any special handling of brackets.
func PlainSplit(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, ",")
}

// ListAwareSplit splits s on "," while treating any "[...]" run as a single
// token; brackets do not nest. A "[" with no matching "]" is malformed and
// returns ErrUnterminatedList.
func ListAwareSplit(s string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inBrackets := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '[' && !inBrackets:
			inBrackets = true
			cur.WriteByte(c)
		case c == ']' && inBrackets:
			inBrackets = false
			cur.WriteByte(c)
		case c == ',' && !inBrackets:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inBrackets {
		return nil, ErrUnterminatedList
	}
	fields = append(fields, cur.String())
	return fields, nil
}

// SplitList parses a bracketed cell "[v0,v1,...]" into its inner values. An
// empty "[]" yields an empty, non-nil slice.
func SplitList(cell string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(cell, "["), "]")
	if inner == "" {
		return []string{}
	}
	return strings.Split(inner, ",")
}

// JoinList renders vals back into a bracketed cell.
func JoinList(vals []string) string {
	return "[" + strings.Join(vals, ",") + "]"
}

// Writer is a buffered CSV row writer: every Write call appends one
// newline-framed, comma-joined line.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w with a buffered writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, int(MinChunkSize))}
}

// WriteHeader writes h as the first line of output.
func (w *Writer) WriteHeader(h Header) error {
	return w.WriteRow(Row(h))
}

// WriteRow writes one comma-joined, newline-terminated row.
func (w *Writer) WriteRow(row Row) error {
	if _, err := w.bw.WriteString(strings.Join(row, ",")); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

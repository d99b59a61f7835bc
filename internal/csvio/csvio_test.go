package csvio

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestPlainSplit(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"bracketed cell splits anyway", "a,[1,2,3],c", []string{"a", "[1", "2", "3]", "c"}},
		{"empty line", "", []string{""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlainSplit(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("PlainSplit(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestListAwareSplit(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    []string
		wantErr error
	}{
		{"no brackets", "a,b,c", []string{"a", "b", "c"}, nil},
		{"bracketed cell preserved", "a,[1,2,3],c", []string{"a", "[1,2,3]", "c"}, nil},
		{"empty bracket", "a,[],c", []string{"a", "[]", "c"}, nil},
		{"unterminated", "a,[1,2,c", nil, ErrUnterminatedList},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ListAwareSplit(tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ListAwareSplit(%q) error = %v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ListAwareSplit(%q) unexpected error: %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ListAwareSplit(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSplitListJoinList(t *testing.T) {
	cases := []struct {
		cell string
		want []string
	}{
		{"[]", []string{}},
		{"[1,2,3]", []string{"1", "2", "3"}},
		{"[9]", []string{"9"}},
	}
	for _, tc := range cases {
		got := SplitList(tc.cell)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tc.cell, got, tc.want)
		}
		if back := JoinList(got); back != tc.cell {
			t.Errorf("JoinList(SplitList(%q)) = %q, want %q", tc.cell, back, tc.cell)
		}
	}
}

func TestReaderReadHeaderAndRow(t *testing.T) {
	in := "id_,val\nrow1,[1,2]\nrow2,[3]\n"
	r := NewReader(strings.NewReader(in))

	header, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	wantHeader := Header{"id_", "val"}
	if !reflect.DeepEqual(header, wantHeader) {
		t.Errorf("header = %v, want %v", header, wantHeader)
	}

	row, err := r.ReadRowListAware()
	if err != nil {
		t.Fatalf("ReadRowListAware: %v", err)
	}
	wantRow := Row{"row1", "[1,2]"}
	if !reflect.DeepEqual(row, wantRow) {
		t.Errorf("row = %v, want %v", row, wantRow)
	}

	if err := CheckWidth(header, row); err != nil {
		t.Errorf("CheckWidth: unexpected error %v", err)
	}
	if err := CheckWidth(header, Row{"only one"}); err == nil {
		t.Errorf("CheckWidth: expected a width-mismatch error")
	}
}

func TestReaderMissingHeader(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if _, err := r.ReadHeader(); !errors.Is(err, ErrMissingHeader) {
		t.Errorf("ReadHeader on empty input = %v, want ErrMissingHeader", err)
	}
}

func TestHeaderIndexAndPrefix(t *testing.T) {
	h := Header{"id_a", "id_b", "val"}
	if h.Index("val") != 2 {
		t.Errorf("Index(val) = %d, want 2", h.Index("val"))
	}
	if h.Index("missing") != -1 {
		t.Errorf("Index(missing) = %d, want -1", h.Index("missing"))
	}
	if got := h.IndicesOfPrefix("id_"); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("IndicesOfPrefix(id_) = %v, want [0 1]", got)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteHeader(Header{"a", "b"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.WriteRow(Row{"1", "2"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := "a,b\n1,2\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

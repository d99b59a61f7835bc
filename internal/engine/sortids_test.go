package engine

import (
	"bytes"
	"strings"
	"testing"
)

func TestSortIdsAscending(t *testing.T) {
	in := "id_,val\nc,3\na,1\nb,2\n"
	var out bytes.Buffer
	if err := SortIds(strings.NewReader(in), &out); err != nil {
		t.Fatalf("SortIds: %v", err)
	}
	want := "id_,val\na,1\nb,2\nc,3\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

// Duplicate ids are not deduped: every occurrence in the input produces an
// output row, and the map-based last-write-wins means they all carry the
// final row's value for that id (grounded on SortIds.cpp: idList pushes on
// every row while idToData overwrites map-style).
func TestSortIdsDuplicateIdsNotDeduped(t *testing.T) {
	in := "id_,val\na,1\na,2\nb,3\n"
	var out bytes.Buffer
	if err := SortIds(strings.NewReader(in), &out); err != nil {
		t.Fatalf("SortIds: %v", err)
	}
	want := "id_,val\na,2\na,2\nb,3\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestSortIdsMissingColumn(t *testing.T) {
	in := "val\n1\n"
	var out bytes.Buffer
	err := SortIds(strings.NewReader(in), &out)
	if _, ok := err.(*ErrColumnMissing); !ok {
		t.Fatalf("SortIds error = %v, want *ErrColumnMissing", err)
	}
}

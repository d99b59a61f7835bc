package pidprep

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

// TestPrepareDedup asserts Prepare dedupes repeated id_ values, counting
// every repeat after the first occurrence.
func TestPrepareDedup(t *testing.T) {
	in := "id_,aaa,bbb\n" +
		"123,456,789\n" +
		"123,456,789\n" +
		"111,222,333\n" +
		"999,888,777\n"

	var out bytes.Buffer
	res, err := Prepare(strings.NewReader(in), &out, 0, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if out.String() != "123\n111\n999\n" {
		t.Errorf("output = %q, want %q", out.String(), "123\n111\n999\n")
	}
	if res.DuplicateIdCount != 1 {
		t.Errorf("DuplicateIdCount = %d, want 1", res.DuplicateIdCount)
	}
	if res.LinesProcessed != 4 {
		t.Errorf("LinesProcessed = %d, want 4", res.LinesProcessed)
	}
}

func TestPrepareEmptyInputEmitsDummyRow(t *testing.T) {
	in := "id_,aaa,bbb\n"
	var out bytes.Buffer
	res, err := Prepare(strings.NewReader(in), &out, 0, nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if res.LinesProcessed != 0 || res.DuplicateIdCount != 0 {
		t.Fatalf("res = %+v, want all zero", res)
	}
	line := strings.TrimSuffix(out.String(), "\n")
	if line == "" {
		t.Fatal("expected a single dummy id line, got empty output")
	}
	if _, err := strconv.ParseUint(line, 10, 64); err != nil {
		t.Errorf("dummy row %q is not a uint64: %v", line, err)
	}
}

func TestPrepareMissingIDColumn(t *testing.T) {
	in := "aaa,bbb\n1,2\n"
	var out bytes.Buffer
	_, err := Prepare(strings.NewReader(in), &out, 0, nil)
	if _, ok := err.(*ErrMissingIDColumn); !ok {
		t.Fatalf("Prepare error = %v, want *ErrMissingIDColumn", err)
	}
}

func TestPrepareRowWidthMismatch(t *testing.T) {
	in := "id_,aaa\n1,2,3\n"
	var out bytes.Buffer
	_, err := Prepare(strings.NewReader(in), &out, 0, nil)
	if _, ok := err.(*ErrRowWidthMismatch); !ok {
		t.Fatalf("Prepare error = %v, want *ErrRowWidthMismatch", err)
	}
}

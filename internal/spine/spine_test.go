package spine

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadAll(t *testing.T) {
	in := "priv1,origA,origB\npriv2,NA,origC\n"
	rows, err := ReadAll(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []Row{
		{PrivateID: "priv1", Keys: []string{"origA", "origB"}},
		{PrivateID: "priv2", Keys: []string{"NA", "origC"}},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v, want %+v", rows, want)
	}
}

func TestConcatKey(t *testing.T) {
	cases := []struct {
		name      string
		row       Row
		maxKeys   int
		wantKey   string
		wantMatch bool
	}{
		{"all present", Row{PrivateID: "p", Keys: []string{"a", "b"}}, 2, "a,b", true},
		{"NA cell is a value, not skipped, unless it's the whole key", Row{PrivateID: "p", Keys: []string{"NA", "b"}}, 2, "NA,b", true},
		{"skip empty cell", Row{PrivateID: "p", Keys: []string{"", "b"}}, 2, "b", true},
		{"stop at max", Row{PrivateID: "p", Keys: []string{"a", "b", "c"}}, 1, "a", true},
		{"sole NA cell is unmatched", Row{PrivateID: "p", Keys: []string{"NA", ""}}, 2, "NA", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, matched := tc.row.ConcatKey(tc.maxKeys)
			if matched != tc.wantMatch || key != tc.wantKey {
				t.Errorf("ConcatKey() = (%q, %v), want (%q, %v)", key, matched, tc.wantKey, tc.wantMatch)
			}
		})
	}
}

func TestBuildIndexLastWriteWins(t *testing.T) {
	rows := []Row{
		{PrivateID: "priv1", Keys: []string{"a"}},
		{PrivateID: "priv2", Keys: []string{"a"}}, // collides on key "a"; last write wins
	}
	idx := BuildIndex(rows, 1)
	got, found := idx.PrivateIDFor("a")
	if !found || got != "priv2" {
		t.Errorf("PrivateIDFor(a) = (%q, %v), want (priv2, true)", got, found)
	}
	if len(idx.Rows()) != 2 {
		t.Errorf("Rows() has %d entries, want 2 (traversal order preserved)", len(idx.Rows()))
	}
}

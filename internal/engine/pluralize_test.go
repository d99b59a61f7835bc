package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/facebookresearch/fbpcs-sub002/internal/csvio"
)

func TestHeaderColumnsToPlural(t *testing.T) {
	in := "id_,event_timestamp,value\npriv1,[1,2],[3,4]\n"
	var out bytes.Buffer
	err := HeaderColumnsToPlural(strings.NewReader(in), &out, []string{"event_timestamp", "value"})
	if err != nil {
		t.Fatalf("HeaderColumnsToPlural: %v", err)
	}
	want := "id_,event_timestamps,values\npriv1,[1,2],[3,4]\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestPluralizeHeader(t *testing.T) {
	h := csvio.Header{"id_", "ad_id", "timestamp"}
	got := PluralizeHeader(h, []string{"ad_id", "timestamp"})
	want := csvio.Header{"id_", "ad_ids", "timestamps"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

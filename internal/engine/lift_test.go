package engine

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunLiftPublisherCollapseAndOpportunity(t *testing.T) {
	data := "id_,opportunity_timestamp,test_flag,impressions\n" +
		"id_1,1000,0,5\n" +
		"id_1,0,1,3\n" +
		"id_2,0,0,0\n"
	spine := "AAAA,id_1\nBBBB,id_2\n"

	cfg := Config{
		Protocol:       PID,
		Game:           Lift,
		SortStrategy:   SortIDs,
		MaxIDColumnCnt: 1,
	}

	var out bytes.Buffer
	if err := RunLift(cfg, strings.NewReader(data), strings.NewReader(spine), &out); err != nil {
		t.Fatalf("RunLift: %v", err)
	}

	want := "id_,opportunity_timestamp,test_flag,opportunity,impressions\n" +
		"AAAA,1000,1,1,8\n" +
		"BBBB,0,0,0,0\n"
	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}
}

func TestRunLiftPublisherMRPIDCollapse(t *testing.T) {
	// MR_PID: spine_path already carries the joined, headered file; data is
	// ignored, but the duplicate-row collapse must still run against it.
	joined := "id_,opportunity_timestamp,test_flag,impressions\n" +
		"AAAA,1000,0,5\n" +
		"AAAA,0,1,3\n" +
		"BBBB,0,0,0\n"

	cfg := Config{
		Protocol:     MRPID,
		Game:         Lift,
		SortStrategy: SortIDs,
	}

	var out bytes.Buffer
	if err := RunLift(cfg, strings.NewReader(""), strings.NewReader(joined), &out); err != nil {
		t.Fatalf("RunLift: %v", err)
	}

	want := "id_,opportunity_timestamp,test_flag,opportunity,impressions\n" +
		"AAAA,1000,1,1,8\n" +
		"BBBB,0,0,0,0\n"
	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}
}

func TestRunLiftPartnerMultiConversion(t *testing.T) {
	data := "id_,event_timestamp,value,cohort_id\n" +
		"id_1,100,5,cohortA\n" +
		"id_1,200,7,cohortA\n" +
		"id_2,50,1,cohortB\n"
	spine := "AAAA,id_1\nBBBB,id_2\n"

	cfg := Config{
		Protocol:             PID,
		Game:                 Lift,
		SortStrategy:         SortIDs,
		MaxIDColumnCnt:       1,
		MultiConversionLimit: 4,
	}

	var out bytes.Buffer
	if err := RunLift(cfg, strings.NewReader(data), strings.NewReader(spine), &out); err != nil {
		t.Fatalf("RunLift: %v", err)
	}

	want := "id_,event_timestamps,values,cohort_id\n" +
		"AAAA,[0,0,100,200],[0,0,5,7],cohortA\n" +
		"BBBB,[0,0,0,50],[0,0,0,1],cohortB\n"
	if out.String() != want {
		t.Errorf("output =\n%q\nwant\n%q", out.String(), want)
	}
}

func TestRunLiftUnsupportedKind(t *testing.T) {
	data := "id_,conversion_timestamp,conversion_value\nid_1,100,5\n"
	spine := "AAAA,id_1\n"
	cfg := Config{Protocol: PID, Game: Lift, MaxIDColumnCnt: 1}
	var out bytes.Buffer
	err := RunLift(cfg, strings.NewReader(data), strings.NewReader(spine), &out)
	if err == nil {
		t.Fatal("expected error for non-lift dataset, got nil")
	}
}

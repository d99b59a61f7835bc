package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestIdSwapSingleKey(t *testing.T) {
	data := "id_,val\nuserA,10\nuserB,20\n"
	spineContent := "priv1,userA\npriv2,userB\npriv3,userC\n"

	var out bytes.Buffer
	err := IdSwap(strings.NewReader(data), strings.NewReader(spineContent), &out, IdSwapConfig{MaxIDColumnCnt: 1})
	if err != nil {
		t.Fatalf("IdSwap: %v", err)
	}
	want := "id_,val\npriv1,10\npriv2,20\npriv3,0\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestIdSwapMissingFromSpine(t *testing.T) {
	data := "id_,val\nuserZ,10\n"
	spineContent := "priv1,userA\n"

	var out bytes.Buffer
	err := IdSwap(strings.NewReader(data), strings.NewReader(spineContent), &out, IdSwapConfig{MaxIDColumnCnt: 1})
	var missing *ErrIdMissingInSpine
	if !errors.As(err, &missing) {
		t.Fatalf("IdSwap error = %v, want *ErrIdMissingInSpine", err)
	}
}

func TestIdSwapMultiKeyConcat(t *testing.T) {
	data := "id_email,id_phone,val\nuser@example.com,,10\n,555-1234,20\n"
	spineContent := "priv1,user@example.com\npriv2,555-1234\n"

	var out bytes.Buffer
	err := IdSwap(strings.NewReader(data), strings.NewReader(spineContent), &out, IdSwapConfig{MaxIDColumnCnt: 2})
	if err != nil {
		t.Fatalf("IdSwap: %v", err)
	}
	want := "id_,val\npriv1,10\npriv2,20\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestIdSwapCollapseDuplicates(t *testing.T) {
	data := "id_,test_flag,impressions\nuserA,1,5\nuserA,0,3\n"
	spineContent := "priv1,userA\n"

	aggs := []ColumnAgg{
		{Column: "test_flag", Kind: AggLogicalOr},
		{Column: "impressions", Kind: AggSum},
	}
	var out bytes.Buffer
	err := IdSwap(strings.NewReader(data), strings.NewReader(spineContent), &out, IdSwapConfig{
		MaxIDColumnCnt:     1,
		CollapseDuplicates: true,
		Aggs:               aggs,
	})
	if err != nil {
		t.Fatalf("IdSwap: %v", err)
	}
	want := "id_,test_flag,impressions\npriv1,1,8\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestCollapseByID(t *testing.T) {
	in := "id_,test_flag,impressions\npriv1,0,2\npriv1,1,3\npriv2,0,1\n"
	aggs := []ColumnAgg{
		{Column: "test_flag", Kind: AggLogicalOr},
		{Column: "impressions", Kind: AggSum},
	}
	var out bytes.Buffer
	if err := CollapseByID(strings.NewReader(in), &out, aggs); err != nil {
		t.Fatalf("CollapseByID: %v", err)
	}
	want := "id_,test_flag,impressions\npriv1,1,5\npriv2,0,1\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

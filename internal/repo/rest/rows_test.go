package rest

import (
	"encoding/json"
	"testing"

	"github.com/workroom-hq/workroom-go/internal/model"
)

func TestNumericDecoding(t *testing.T) {
	type payload struct {
		V numeric `json:"v"`
	}
	cases := []struct {
		in   string
		want *float64
	}{
		{`{"v": 12.5}`, f64Ptr(12.5)},
		{`{"v": "12.5"}`, f64Ptr(12.5)},
		{`{"v": " 7 "}`, f64Ptr(7)},
		{`{"v": 0}`, f64Ptr(0)},
		{`{"v": null}`, nil},
		{`{}`, nil},
		{`{"v": "abc"}`, nil},
		{`{"v": "NaN"}`, nil},
		{`{"v": "+Inf"}`, nil},
		{`{"v": ""}`, nil},
	}
	for _, tc := range cases {
		var p payload
		if err := json.Unmarshal([]byte(tc.in), &p); err != nil {
			t.Errorf("%s: unexpected error %v", tc.in, err)
			continue
		}
		got := p.V.ptr()
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("%s: got %v, want nil", tc.in, *got)
		case tc.want != nil && (got == nil || *got != *tc.want):
			t.Errorf("%s: got %v, want %v", tc.in, got, *tc.want)
		}
	}
}

func f64Ptr(f float64) *float64 { return &f }

func TestPatchBodyKeyOmission(t *testing.T) {
	var empty model.ClientPatch
	if body := clientPatchBody(empty); len(body) != 0 {
		t.Fatalf("empty patch produced body %v", body)
	}

	var p model.ClientPatch
	p.Name = model.Set("New Name")
	p.Notes = model.Null[string]()
	body := clientPatchBody(p)

	if body["name"] != "New Name" {
		t.Fatalf("name: got %v", body["name"])
	}
	if v, ok := body["notes"]; !ok || v != nil {
		t.Fatalf("notes: present=%v value=%v, want explicit null", ok, v)
	}
	if _, ok := body["total_price"]; ok {
		t.Fatal("untouched field leaked into patch body")
	}

	// The wire shape must keep the null and drop the absent keys.
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(raw, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(round) != 2 {
		t.Fatalf("wire body keys: %v", round)
	}
}

func TestContactInsertRowsDropEmptyNames(t *testing.T) {
	rows := contactInsertRows("c-1", []model.ContactInput{
		{Name: "Dana"},
		{Name: ""},
		{Name: "Noa"},
	})
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	for _, r := range rows {
		if r["client_id"] != "c-1" {
			t.Fatalf("row missing parent key: %v", r)
		}
	}
}

package inventree

import (
	"testing"

	"github.com/five82/partpick/internal/catalog"
)

func TestStripQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"abc"`, "abc"},
		{"abc", "abc"},
		{`"a`, ""},
		{`"`, ""},
		{"", ""},
		{`""`, ""},
		{`"a\"b"`, `a\"b`},
		{"12", "12"},
	}
	for _, tt := range tests {
		if got := StripQuotes(tt.in); got != tt.want {
			t.Fatalf("StripQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeTemplates_DefaultsPerRecord(t *testing.T) {
	data := []byte(`[
		{"pk": 1, "name": "Resistance", "units": "Ohm"},
		{"name": "Package"}
	]`)
	got := DecodeTemplates(data)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != (catalog.ParameterTemplate{ID: 1, Name: "Resistance", Unit: "Ohm"}) {
		t.Fatalf("got[0] = %#v", got[0])
	}
	if got[1] != (catalog.ParameterTemplate{ID: -1, Name: "Package"}) {
		t.Fatalf("got[1] = %#v, want pk -1 and empty unit", got[1])
	}
}

func TestDecodeLocations(t *testing.T) {
	data := []byte(`[
		{"pk": 3, "name": "Bin A", "description": "Shelf 2", "parent": null, "items": 12,
		 "url": "/stock/location/3/", "pathstring": "Lab/Bin A"},
		{"pk": 4, "name": "Bin B", "parent": 3},
		{"pk": "x", "parent": "junk"}
	]`)
	got := DecodeLocations(data)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	first := got[0]
	if first.ID != 3 || first.ParentID != nil || first.ItemCount != 12 ||
		first.Name != "Bin A" || first.Description != "Shelf 2" ||
		first.URL != "/stock/location/3/" || first.PathString != "Lab/Bin A" {
		t.Fatalf("got[0] = %#v", first)
	}
	if got[1].ParentID == nil || *got[1].ParentID != 3 {
		t.Fatalf("got[1].ParentID = %v, want 3", got[1].ParentID)
	}
	if got[1].ItemCount != -1 {
		t.Fatalf("got[1].ItemCount = %d, want -1", got[1].ItemCount)
	}
	if got[2].ID != -1 || got[2].ParentID != nil {
		t.Fatalf("got[2] = %#v, want defaults for non-numeric fields", got[2])
	}
}

func TestDecodeParameters(t *testing.T) {
	data := []byte(`[{"pk": 9, "part": 7, "template": 2, "data": "10k"}, {"data": 4.7}]`)
	got := DecodeParameters(data)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != (catalog.RawParameter{ID: 9, PartID: 7, TemplateID: 2, Data: "10k"}) {
		t.Fatalf("got[0] = %#v", got[0])
	}
	if got[1] != (catalog.RawParameter{ID: 1, PartID: 1, TemplateID: 1, Data: "4.7"}) {
		t.Fatalf("got[1] = %#v, want defaults of 1 and data 4.7", got[1])
	}
}

func TestDecodeAttributes_KeepsWireOrder(t *testing.T) {
	data := []byte(`{"pk": 7, "name": "R1", "active": true, "image": null, "default_location": 3}`)
	got := DecodeAttributes(data)
	want := []catalog.RawAttribute{
		{Name: "pk", Value: "7"},
		{Name: "name", Value: "R1"},
		{Name: "active", Value: "true"},
		{Name: "image", Value: "null"},
		{Name: "default_location", Value: "3"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%#v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestDecode_WrongShapeIsEmpty(t *testing.T) {
	if got := DecodeTemplates([]byte(`{"pk": 1}`)); len(got) != 0 {
		t.Fatalf("DecodeTemplates(object) = %#v, want empty", got)
	}
	if got := DecodeLocations([]byte(`"text"`)); len(got) != 0 {
		t.Fatalf("DecodeLocations(string) = %#v, want empty", got)
	}
	if got := DecodeAttributes([]byte(`[1, 2]`)); len(got) != 0 {
		t.Fatalf("DecodeAttributes(array) = %#v, want empty", got)
	}
	if got := DecodeFoundParts([]byte(`null`)); len(got) != 0 {
		t.Fatalf("DecodeFoundParts(null) = %#v, want empty", got)
	}
	if got := DecodeTemplates([]byte(`[]`)); len(got) != 0 {
		t.Fatalf("DecodeTemplates([]) = %#v, want empty", got)
	}
}

func TestDecodeFoundParts_SkipsNonObjects(t *testing.T) {
	got := DecodeFoundParts([]byte(`[{"pk": 7, "description": "10k Resistor"}, 5, "x", {"pk": 8}]`))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if id, ok := got[0].ID(); !ok || id != 7 {
		t.Fatalf("got[0].ID() = %d, %v", id, ok)
	}
	if got[1].Description() != "" {
		t.Fatalf("got[1].Description() = %q, want empty", got[1].Description())
	}
}

func TestDecodeVersionAndToken(t *testing.T) {
	version := DecodeVersion([]byte(`{"server": "InvenTree", "version": "0.12.0", "apiVersion": 100, "worker_running": true}`))
	if version["server"] != "InvenTree" || version["version"] != "0.12.0" ||
		version["apiVersion"] != "100" || version["worker_running"] != "true" {
		t.Fatalf("DecodeVersion = %#v", version)
	}

	if got := DecodeToken([]byte(`{"token": "abc123", "expiry": null}`)); got != "abc123" {
		t.Fatalf("DecodeToken = %q, want abc123", got)
	}
	if got := DecodeToken([]byte(`{"detail": "nope"}`)); got != "" {
		t.Fatalf("DecodeToken without token = %q, want empty", got)
	}
	if got := DecodeToken([]byte(`{"token": 5}`)); got != "" {
		t.Fatalf("DecodeToken with numeric token = %q, want empty", got)
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"7", 7, true},
		{"-2", -2, true},
		{"3.9", 3, true},
		{"null", 0, false},
		{`"7"`, 0, false},
		{"true", 0, false},
		{"1e20", 0, false},
	}
	for _, tt := range tests {
		got, ok := intValue([]byte(tt.in))
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("intValue(%s) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDecodeThenResolve(t *testing.T) {
	templates := DecodeTemplates([]byte(`[{"pk": 2, "name": "Resistance", "units": "Ohm"}]`))
	locations := DecodeLocations([]byte(`[{"pk": 3, "name": "Bin A", "description": "Shelf 2"}]`))
	params := DecodeParameters([]byte(`[{"pk": 9, "part": 7, "template": 2, "data": "10k"}]`))
	attrs := DecodeAttributes([]byte(`{"pk": 7, "default_location": 3}`))

	resolvedParams := catalog.ResolveParameters(params, templates)
	if len(resolvedParams) != 1 {
		t.Fatalf("len(resolvedParams) = %d, want 1", len(resolvedParams))
	}
	p := resolvedParams[0]
	if p.TemplateName != "Resistance" || p.Value != "10k" || p.Unit != "Ohm" {
		t.Fatalf("resolved parameter = %#v", p)
	}

	resolvedAttrs := catalog.ResolveAttributes(attrs, locations)
	if len(resolvedAttrs) != 2 {
		t.Fatalf("len(resolvedAttrs) = %d, want 2", len(resolvedAttrs))
	}
	if resolvedAttrs[1].ResolvedValue != "Bin A ->> Shelf 2" {
		t.Fatalf("default_location = %q, want %q", resolvedAttrs[1].ResolvedValue, "Bin A ->> Shelf 2")
	}
}

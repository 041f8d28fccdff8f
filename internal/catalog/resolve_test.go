package catalog

import "testing"

func TestResolveParameter_MatchAndMiss(t *testing.T) {
	templates := []ParameterTemplate{
		{ID: 1, Name: "Resistance", Unit: "Ohm"},
		{ID: 2, Name: "Tolerance", Unit: "%"},
	}

	got := ResolveParameter(RawParameter{ID: 10, PartID: 7, TemplateID: 2, Data: "5"}, templates)
	if got.TemplateName != "Tolerance" || got.Unit != "%" {
		t.Fatalf("ResolveParameter = %#v, want Tolerance/%%", got)
	}
	if got.ID != 10 || got.PartID != 7 || got.Value != "5" {
		t.Fatalf("ResolveParameter lost raw fields: %#v", got)
	}

	miss := ResolveParameter(RawParameter{TemplateID: 99, Data: "x"}, templates)
	if miss.TemplateName != "" || miss.Unit != "" {
		t.Fatalf("ResolveParameter miss = %#v, want empty name/unit", miss)
	}
	if miss.Value != "x" {
		t.Fatalf("Value = %q, want x", miss.Value)
	}
}

func TestResolveParameter_FirstMatchWins(t *testing.T) {
	templates := []ParameterTemplate{
		{ID: 3, Name: "First", Unit: "a"},
		{ID: 3, Name: "Second", Unit: "b"},
	}
	got := ResolveParameter(RawParameter{TemplateID: 3}, templates)
	if got.TemplateName != "First" {
		t.Fatalf("TemplateName = %q, want First", got.TemplateName)
	}
}

func TestResolveAttribute_DefaultLocation(t *testing.T) {
	locations := []StockLocation{
		{ID: 1, Name: "Drawer", Description: "Desk"},
		{ID: 3, Name: "Bin A", Description: "Shelf 2"},
	}

	cases := []struct {
		name string
		raw  RawAttribute
		want string
	}{
		{"resolved", RawAttribute{Name: "default_location", Value: "3"}, "Bin A ->> Shelf 2"},
		{"leading space", RawAttribute{Name: "default_location", Value: " 1"}, "Drawer ->> Desk"},
		{"unknown id keeps raw", RawAttribute{Name: "default_location", Value: "42"}, "42"},
		{"null keeps raw", RawAttribute{Name: "default_location", Value: "null"}, "null"},
		{"other field untouched", RawAttribute{Name: "category", Value: "3"}, "3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveAttribute(tc.raw, locations)
			if got.ResolvedValue != tc.want {
				t.Fatalf("ResolvedValue = %q, want %q", got.ResolvedValue, tc.want)
			}
			if got.RawValue != tc.raw.Value || got.Name != tc.raw.Name {
				t.Fatalf("raw fields changed: %#v", got)
			}
		})
	}
}

func TestResolveAttribute_NoLocationsNeverFails(t *testing.T) {
	got := ResolveAttribute(RawAttribute{Name: "default_location", Value: "3"}, nil)
	if got.ResolvedValue != "3" {
		t.Fatalf("ResolvedValue = %q, want 3", got.ResolvedValue)
	}
}

func TestResolveSlices_EmptyInput(t *testing.T) {
	if got := ResolveParameters(nil, nil); got != nil {
		t.Fatalf("ResolveParameters(nil) = %#v, want nil", got)
	}
	if got := ResolveAttributes(nil, nil); got != nil {
		t.Fatalf("ResolveAttributes(nil) = %#v, want nil", got)
	}
}

func TestAtoi(t *testing.T) {
	cases := map[string]int{
		"3":      3,
		"  12x":  12,
		"-4":     -4,
		"+8":     8,
		"null":   0,
		"":       0,
		"\"3\"":  0,
		"7.9":    7,
	}
	for in, want := range cases {
		if got := atoi(in); got != want {
			t.Errorf("atoi(%q) = %d, want %d", in, got, want)
		}
	}
}

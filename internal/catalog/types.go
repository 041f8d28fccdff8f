package catalog

import (
	"encoding/json"
	"math"
	"strings"
)

// StockLocation mirrors one storage bin record from the warehouse.
type StockLocation struct {
	ID          int
	ParentID    *int
	ItemCount   int
	URL         string
	Name        string
	Description string
	PathString  string
}

// ParameterTemplate is a named, unit-tagged field definition parts carry values against.
type ParameterTemplate struct {
	ID   int
	Name string
	Unit string
}

// RawParameter is a part parameter as decoded from the wire, before its
// template reference is resolved.
type RawParameter struct {
	ID         int
	PartID     int
	TemplateID int
	Data       string
}

// PartParameter is a parameter value with its template name and unit resolved.
type PartParameter struct {
	ID           int
	PartID       int
	TemplateName string
	Value        string
	Unit         string
}

// RawAttribute is one top-level field of a part record.
type RawAttribute struct {
	Name  string
	Value string
}

// PartAttribute is a part field with foreign-key references rewritten for display.
type PartAttribute struct {
	Name          string
	RawValue      string
	ResolvedValue string
}

// FoundPart is one search hit. The document is kept opaque; only a few
// well-known fields are read.
type FoundPart struct {
	Fields map[string]json.RawMessage
}

// ID returns the part's primary key when it is a JSON number.
func (p FoundPart) ID() (int, bool) {
	raw, ok := p.Fields["pk"]
	if !ok {
		return 0, false
	}
	var n json.Number
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// Description returns the part description, or "" when absent or not a string.
func (p FoundPart) Description() string {
	return p.stringField("description")
}

// Image returns the server-relative image URL, or "" when the part has none.
func (p FoundPart) Image() string {
	return p.stringField("image")
}

// Name returns the part name, or "" when absent.
func (p FoundPart) Name() string {
	return p.stringField("name")
}

func (p FoundPart) stringField(key string) string {
	raw, ok := p.Fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

package inventree

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/five82/partpick/internal/catalog"
)

// field is one key/value pair of a JSON object in wire order.
type field struct {
	key   string
	value json.RawMessage
}

// StripQuotes removes the quotation marks the wire serialization puts around
// string values: when the first byte is a quote, exactly one leading and one
// trailing byte are dropped. Nothing is unescaped. A value that starts with a
// quote but ends with something else loses its last byte anyway.
func StripQuotes(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

// DecodeTemplates decodes /part/parameter/template/ into templates.
func DecodeTemplates(data []byte) []catalog.ParameterTemplate {
	records := decodeRecords(data)
	if len(records) == 0 {
		return nil
	}
	out := make([]catalog.ParameterTemplate, 0, len(records))
	for _, fields := range records {
		t := catalog.ParameterTemplate{ID: -1}
		for _, f := range fields {
			switch f.key {
			case "pk":
				t.ID = intOr(f.value, t.ID)
			case "name":
				t.Name = stringValue(f.value)
			case "units":
				t.Unit = stringValue(f.value)
			}
		}
		out = append(out, t)
	}
	return out
}

// DecodeLocations decodes /stock/location/ into stock locations. A parent that
// is not a number (usually null) leaves ParentID nil.
func DecodeLocations(data []byte) []catalog.StockLocation {
	records := decodeRecords(data)
	if len(records) == 0 {
		return nil
	}
	out := make([]catalog.StockLocation, 0, len(records))
	for _, fields := range records {
		loc := catalog.StockLocation{ID: -1, ItemCount: -1}
		for _, f := range fields {
			switch f.key {
			case "pk":
				loc.ID = intOr(f.value, loc.ID)
			case "parent":
				if n, ok := intValue(f.value); ok {
					loc.ParentID = &n
				}
			case "items":
				loc.ItemCount = intOr(f.value, loc.ItemCount)
			case "url":
				loc.URL = stringValue(f.value)
			case "name":
				loc.Name = stringValue(f.value)
			case "description":
				loc.Description = stringValue(f.value)
			case "pathstring":
				loc.PathString = stringValue(f.value)
			}
		}
		out = append(out, loc)
	}
	return out
}

// DecodeParameters decodes /part/parameter/?part=<id> into raw parameters.
func DecodeParameters(data []byte) []catalog.RawParameter {
	records := decodeRecords(data)
	if len(records) == 0 {
		return nil
	}
	out := make([]catalog.RawParameter, 0, len(records))
	for _, fields := range records {
		p := catalog.RawParameter{ID: 1, PartID: 1, TemplateID: 1}
		for _, f := range fields {
			switch f.key {
			case "pk":
				p.ID = intOr(f.value, p.ID)
			case "part":
				p.PartID = intOr(f.value, p.PartID)
			case "template":
				p.TemplateID = intOr(f.value, p.TemplateID)
			case "data":
				p.Data = stringValue(f.value)
			}
		}
		out = append(out, p)
	}
	return out
}

// DecodeAttributes decodes /part/<id>/ into one raw attribute per top-level
// field, in wire order. Non-string values keep their JSON text ("3", "null").
func DecodeAttributes(data []byte) []catalog.RawAttribute {
	fields, ok := objectFields(data)
	if !ok || len(fields) == 0 {
		return nil
	}
	out := make([]catalog.RawAttribute, 0, len(fields))
	for _, f := range fields {
		out = append(out, catalog.RawAttribute{
			Name:  StripQuotes(f.key),
			Value: stringValue(f.value),
		})
	}
	return out
}

// DecodeFoundParts decodes /part/?search= into opaque search hits. Elements
// that are not objects are skipped.
func DecodeFoundParts(data []byte) []catalog.FoundPart {
	elems, ok := arrayElements(data)
	if !ok || len(elems) == 0 {
		return nil
	}
	out := make([]catalog.FoundPart, 0, len(elems))
	for _, elem := range elems {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(elem, &doc); err != nil || doc == nil {
			continue
		}
		out = append(out, catalog.FoundPart{Fields: doc})
	}
	return out
}

// DecodeVersion decodes /api/ into a flat string map.
func DecodeVersion(data []byte) map[string]string {
	fields, ok := objectFields(data)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.key] = stringValue(f.value)
	}
	return out
}

// DecodeToken extracts the token string from /user/token/.
func DecodeToken(data []byte) string {
	fields, ok := objectFields(data)
	if !ok {
		return ""
	}
	token := ""
	for _, f := range fields {
		if f.key != "token" {
			continue
		}
		var s string
		if err := json.Unmarshal(f.value, &s); err == nil {
			token = s
		}
	}
	return token
}

// decodeRecords returns the fields of every object in a top-level array.
func decodeRecords(data []byte) [][]field {
	elems, ok := arrayElements(data)
	if !ok {
		return nil
	}
	var out [][]field
	for _, elem := range elems {
		fields, ok := objectFields(elem)
		if !ok {
			continue
		}
		out = append(out, fields)
	}
	return out
}

func arrayElements(data []byte) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false
	}
	return elems, true
}

// objectFields walks a JSON object keeping key order. Later duplicates are
// kept as separate entries and therefore win when applied in order.
func objectFields(data []byte) ([]field, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, false
	}
	var out []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, ok := tok.(string)
		if !ok {
			return nil, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		out = append(out, field{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return out, true
}

// serialize returns the compact JSON text of a value.
func serialize(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	return buf.String()
}

func stringValue(raw json.RawMessage) string {
	return StripQuotes(serialize(raw))
}

// intValue accepts JSON integers and truncates JSON floats.
func intValue(raw json.RawMessage) (int, bool) {
	text := serialize(raw)
	if text == "" || !(text[0] == '-' || (text[0] >= '0' && text[0] <= '9')) {
		return 0, false
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func intOr(raw json.RawMessage, fallback int) int {
	if n, ok := intValue(raw); ok {
		return n
	}
	return fallback
}

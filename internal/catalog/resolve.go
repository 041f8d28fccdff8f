package catalog

import "fmt"

// DefaultLocationField is the part attribute that references a stock location by id.
const DefaultLocationField = "default_location"

// LookupTemplate returns the first template with the given id.
func LookupTemplate(templates []ParameterTemplate, id int) (ParameterTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return ParameterTemplate{}, false
}

// LookupLocation returns the first location with the given id.
func LookupLocation(locations []StockLocation, id int) (StockLocation, bool) {
	for _, l := range locations {
		if l.ID == id {
			return l, true
		}
	}
	return StockLocation{}, false
}

// ResolveParameter joins a raw parameter against the template snapshot. A
// missing template leaves name and unit empty.
func ResolveParameter(raw RawParameter, templates []ParameterTemplate) PartParameter {
	p := PartParameter{
		ID:     raw.ID,
		PartID: raw.PartID,
		Value:  raw.Data,
	}
	if t, ok := LookupTemplate(templates, raw.TemplateID); ok {
		p.TemplateName = t.Name
		p.Unit = t.Unit
	}
	return p
}

// ResolveAttribute rewrites foreign-key attributes into display text.
// Unresolved references keep the raw value.
func ResolveAttribute(raw RawAttribute, locations []StockLocation) PartAttribute {
	a := PartAttribute{
		Name:          raw.Name,
		RawValue:      raw.Value,
		ResolvedValue: raw.Value,
	}
	if raw.Name != DefaultLocationField {
		return a
	}
	if loc, ok := LookupLocation(locations, atoi(raw.Value)); ok {
		a.ResolvedValue = fmt.Sprintf("%s ->> %s", loc.Name, loc.Description)
	}
	return a
}

// ResolveParameters resolves every raw parameter in order.
func ResolveParameters(raw []RawParameter, templates []ParameterTemplate) []PartParameter {
	if len(raw) == 0 {
		return nil
	}
	out := make([]PartParameter, 0, len(raw))
	for _, r := range raw {
		out = append(out, ResolveParameter(r, templates))
	}
	return out
}

// ResolveAttributes resolves every raw attribute in order.
func ResolveAttributes(raw []RawAttribute, locations []StockLocation) []PartAttribute {
	if len(raw) == 0 {
		return nil
	}
	out := make([]PartAttribute, 0, len(raw))
	for _, r := range raw {
		out = append(out, ResolveAttribute(r, locations))
	}
	return out
}

// atoi parses a leading integer the way C atoi does: optional leading spaces,
// an optional sign, then digits up to the first non-digit. Anything else is 0.
func atoi(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r' || s[i] == '\v' || s[i] == '\f') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<31 {
			break
		}
	}
	if neg {
		return -n
	}
	return n
}

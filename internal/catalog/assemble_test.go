package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeSource struct {
	attrs     []RawAttribute
	params    []RawParameter
	attrErr   error
	paramErr  error
	requested []int
}

func (f *fakeSource) FetchPartAttributes(_ context.Context, partID int) ([]RawAttribute, error) {
	f.requested = append(f.requested, partID)
	return f.attrs, f.attrErr
}

func (f *fakeSource) FetchPartParameters(_ context.Context, partID int) ([]RawParameter, error) {
	return f.params, f.paramErr
}

type fakeAssets struct {
	err      error
	fetched  []string
	lastDest string
}

func (f *fakeAssets) Destination(partID int, name, url string) string {
	return "/tmp/part-" + name
}

func (f *fakeAssets) Fetch(_ context.Context, url, dest string) error {
	f.fetched = append(f.fetched, url)
	f.lastDest = dest
	return f.err
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) statuses() []StatusEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StatusEvent
	for _, ev := range r.events {
		if s, ok := ev.(StatusEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

func foundPart(t *testing.T, doc string) FoundPart {
	t.Helper()
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &fields); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return FoundPart{Fields: fields}
}

func TestAssembler_SelectPartRejectsOutOfRange(t *testing.T) {
	src := &fakeSource{}
	a := &Assembler{Source: src}
	s := NewSession("http://inv", "http://inv/api/")

	for _, pos := range []int{0, -1, 3} {
		_, err := a.SelectPart(context.Background(), s, pos)
		if !errors.Is(err, ErrPositionOutOfRange) {
			t.Fatalf("SelectPart(%d) error = %v, want ErrPositionOutOfRange", pos, err)
		}
	}
	if len(src.requested) != 0 {
		t.Fatalf("source called %d times, want 0", len(src.requested))
	}
}

func TestAssembler_SelectPartRequiresNumericPK(t *testing.T) {
	a := &Assembler{Source: &fakeSource{}}
	s := NewSession("http://inv", "http://inv/api/")
	s.ReplaceResults([]FoundPart{foundPart(t, `{"pk":"seven","description":"x"}`)})

	_, err := a.SelectPart(context.Background(), s, 0)
	if !errors.Is(err, ErrNoPartID) {
		t.Fatalf("SelectPart error = %v, want ErrNoPartID", err)
	}
}

func TestAssembler_SelectPartBuildsDetail(t *testing.T) {
	src := &fakeSource{
		attrs: []RawAttribute{
			{Name: "default_location", Value: "3"},
			{Name: "pk", Value: "7"},
			{Name: "category", Value: "12"},
		},
		params: []RawParameter{{ID: 1, PartID: 7, TemplateID: 5, Data: "10k"}},
	}
	assets := &fakeAssets{}
	rec := &recorder{}
	a := &Assembler{Source: src, Assets: assets, Notifier: rec}

	s := NewSession("http://inv:9080", "http://inv:9080/api/")
	s.DriverID = 4
	s.Locations = []StockLocation{{ID: 3, Name: "Bin A", Description: "Shelf 2"}}
	s.Templates = []ParameterTemplate{{ID: 5, Name: "resistance", Unit: "Ohm"}}
	s.ReplaceResults([]FoundPart{foundPart(t, `{"pk":7,"name":"R10k","description":"10k Resistor","image":"/media/part/r.png"}`)})

	detail, err := a.SelectPart(context.Background(), s, 0)
	if err != nil {
		t.Fatalf("SelectPart returned error: %v", err)
	}
	if detail.PartID != 7 {
		t.Fatalf("PartID = %d, want 7", detail.PartID)
	}
	want := map[string]string{
		"Default Location": "Bin A ->> Shelf 2",
		"Pk":               "7",
		"Resistance":       "10k Ohm",
	}
	if len(detail.Fields) != len(want) {
		t.Fatalf("Fields = %#v, want %#v", detail.Fields, want)
	}
	for k, v := range want {
		if detail.Fields[k] != v {
			t.Fatalf("Fields[%q] = %q, want %q", k, detail.Fields[k], v)
		}
	}
	if len(assets.fetched) != 1 || assets.fetched[0] != "http://inv:9080/media/part/r.png" {
		t.Fatalf("fetched = %v, want server-joined image url", assets.fetched)
	}
	if detail.ImagePath != assets.lastDest {
		t.Fatalf("ImagePath = %q, want %q", detail.ImagePath, assets.lastDest)
	}
	if len(s.Attributes) != 3 || len(s.Parameters) != 1 {
		t.Fatalf("session selection = %d attrs / %d params, want 3/1", len(s.Attributes), len(s.Parameters))
	}

	var got *PartDetailEvent
	for _, ev := range rec.events {
		if d, ok := ev.(PartDetailEvent); ok {
			got = &d
		}
	}
	if got == nil || got.DriverID != 4 || got.Detail.PartID != 7 {
		t.Fatalf("PartDetailEvent = %#v, want driver 4 part 7", got)
	}
}

func TestAssembler_ImageFailureDoesNotAbort(t *testing.T) {
	src := &fakeSource{attrs: []RawAttribute{{Name: "description", Value: "Cap"}}}
	assets := &fakeAssets{err: errors.New("status 404")}
	rec := &recorder{}
	a := &Assembler{Source: src, Assets: assets, Notifier: rec}

	s := NewSession("http://inv", "http://inv/api/")
	s.ReplaceResults([]FoundPart{foundPart(t, `{"pk":1,"image":"/img.png"}`)})

	detail, err := a.SelectPart(context.Background(), s, 0)
	if err != nil {
		t.Fatalf("SelectPart returned error: %v", err)
	}
	if detail.ImagePath != "" {
		t.Fatalf("ImagePath = %q, want empty on failure", detail.ImagePath)
	}
	if detail.Fields["Description"] != "Cap" {
		t.Fatalf("Fields = %#v, want Description=Cap", detail.Fields)
	}
	if st := rec.statuses(); len(st) != 1 || st[0].Context != "FetchAsset" {
		t.Fatalf("statuses = %#v, want one FetchAsset status", st)
	}
}

func TestAssembler_FetchFailuresStillProduceMap(t *testing.T) {
	src := &fakeSource{
		attrErr:  errors.New("api returned status 500"),
		params:   []RawParameter{{TemplateID: 1, Data: "3"}},
		paramErr: nil,
	}
	rec := &recorder{}
	a := &Assembler{Source: src, Notifier: rec}
	s := NewSession("http://inv", "http://inv/api/")
	s.Attributes = []PartAttribute{{Name: "stale"}}
	s.ReplaceResults([]FoundPart{foundPart(t, `{"pk":2}`)})

	detail, err := a.SelectPart(context.Background(), s, 0)
	if err != nil {
		t.Fatalf("SelectPart returned error: %v", err)
	}
	if len(s.Attributes) != 0 {
		t.Fatalf("Attributes = %#v, want cleared on failure", s.Attributes)
	}
	if detail.Fields[""] != "3 " {
		t.Fatalf("Fields = %#v, want unresolved parameter under empty label", detail.Fields)
	}
	if st := rec.statuses(); len(st) != 1 || st[0].Severity != SeverityErrorDialog {
		t.Fatalf("statuses = %#v, want one error status", st)
	}
}

type codedError struct{ code int }

func (e *codedError) Error() string         { return fmt.Sprintf("api returned status %d", e.code) }
func (e *codedError) StatusMessage() string { return fmt.Sprintf("Error Code:%d", e.code) }

func TestAssembler_FetchFailuresUseStatusText(t *testing.T) {
	src := &fakeSource{
		attrErr:  fmt.Errorf("fetch part: %w", &codedError{code: 500}),
		paramErr: &codedError{code: 403},
	}
	rec := &recorder{}
	a := &Assembler{Source: src, Notifier: rec}
	s := NewSession("http://inv", "http://inv/api/")
	s.ReplaceResults([]FoundPart{foundPart(t, `{"pk":2}`)})

	if _, err := a.SelectPart(context.Background(), s, 0); err != nil {
		t.Fatalf("SelectPart returned error: %v", err)
	}
	st := rec.statuses()
	if len(st) != 2 {
		t.Fatalf("statuses = %#v, want two", st)
	}
	if st[0].Context != "FetchPartAttributes" || st[0].Message != "Error Code:500" {
		t.Fatalf("attributes status = %#v, want Error Code:500", st[0])
	}
	if st[1].Context != "FetchPartParameters" || st[1].Message != "Error Code:403" {
		t.Fatalf("parameters status = %#v, want Error Code:403", st[1])
	}
}

func TestStatusMessage(t *testing.T) {
	if got := StatusMessage(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Fatalf("StatusMessage(plain) = %q, want the error text", got)
	}
	wrapped := fmt.Errorf("stage: %w", &codedError{code: 401})
	if got := StatusMessage(wrapped); got != "Error Code:401" {
		t.Fatalf("StatusMessage(wrapped) = %q, want Error Code:401", got)
	}
}

func TestBuildDetail_AttributesWinCollisions(t *testing.T) {
	params := []PartParameter{
		{TemplateName: "notes", Value: "from param", Unit: "u"},
		{TemplateName: "Voltage", Value: "5", Unit: "V"},
	}
	attrs := []PartAttribute{
		{Name: "notes", ResolvedValue: "from attr"},
		{Name: "image", ResolvedValue: "/hidden.png"},
	}
	got := BuildDetail(params, attrs)
	if got["Notes"] != "from attr" {
		t.Fatalf("Notes = %q, want attribute value", got["Notes"])
	}
	if got["Voltage"] != "5 V" {
		t.Fatalf("Voltage = %q, want \"5 V\"", got["Voltage"])
	}
	if _, ok := got["Image"]; ok {
		t.Fatalf("hidden attribute leaked into detail: %#v", got)
	}
}

func TestImageURL(t *testing.T) {
	cases := []struct{ server, image, want string }{
		{"http://inv:9080", "/media/a.png", "http://inv:9080/media/a.png"},
		{"http://inv:9080/", "media/a.png", "http://inv:9080/media/a.png"},
		{"http://inv", "https://cdn.example/a.png", "https://cdn.example/a.png"},
	}
	for _, tc := range cases {
		if got := ImageURL(tc.server, tc.image); got != tc.want {
			t.Errorf("ImageURL(%q, %q) = %q, want %q", tc.server, tc.image, got, tc.want)
		}
	}
}

func TestFoundPartAccessors(t *testing.T) {
	p := foundPart(t, `{"pk":12.0,"description":"Cap","image":null,"name":5}`)
	if id, ok := p.ID(); !ok || id != 12 {
		t.Fatalf("ID() = %d,%v, want 12,true", id, ok)
	}
	if p.Description() != "Cap" {
		t.Fatalf("Description() = %q, want Cap", p.Description())
	}
	if p.Image() != "" || p.Name() != "" {
		t.Fatalf("non-string fields should read as empty")
	}
	if _, ok := (FoundPart{}).ID(); ok {
		t.Fatalf("ID() on empty part returned ok")
	}
}

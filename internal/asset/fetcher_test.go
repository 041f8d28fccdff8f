package asset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newFetcher(t *testing.T) (*Fetcher, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "images")
	f, err := New(Options{Dir: dir})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return f, dir
}

func TestNew_RequiresDir(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("New returned nil error without a directory")
	}
}

func TestDestination(t *testing.T) {
	f, dir := newFetcher(t)

	tests := []struct {
		id   int
		name string
		url  string
		want string
	}{
		{7, "10k Resistor 0805", "http://inv/media/part/r.PNG", "part-7-10k-resistor-0805.png"},
		{8, "", "http://inv/media/part/x.jpg?size=big", "part-8.jpg"},
		{9, "Cap", "http://inv/media/part/noext", "part-9-cap.img"},
	}
	for _, tt := range tests {
		got := f.Destination(tt.id, tt.name, tt.url)
		if got != filepath.Join(dir, tt.want) {
			t.Fatalf("Destination(%d, %q, %q) = %q, want %q", tt.id, tt.name, tt.url, got, filepath.Join(dir, tt.want))
		}
	}

	if f.Destination(1, "Same", "a.png") == f.Destination(2, "Same", "a.png") {
		t.Fatalf("Destination not unique per part id")
	}
}

func TestFetch_FollowsRedirectAndWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/media/part/old.png":
			http.Redirect(w, r, "/media/part/new.png", http.StatusFound)
		case "/media/part/new.png":
			_, _ = w.Write([]byte("PNGDATA"))
		case "/media/part/created.png":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("CREATED"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	f, _ := newFetcher(t)
	dest := f.Destination(7, "R", server.URL+"/media/part/old.png")
	if err := f.Fetch(context.Background(), server.URL+"/media/part/old.png", dest); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read dest: %v", err)
	}
	if string(data) != "PNGDATA" {
		t.Fatalf("dest content = %q, want PNGDATA", data)
	}

	dest = f.Destination(8, "C", server.URL+"/media/part/created.png")
	if err := f.Fetch(context.Background(), server.URL+"/media/part/created.png", dest); err != nil {
		t.Fatalf("Fetch with 201 returned error: %v", err)
	}
}

func TestFetch_FailureLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	f, dir := newFetcher(t)
	dest := f.Destination(7, "R", server.URL+"/x.png")
	err := f.Fetch(context.Background(), server.URL+"/x.png", dest)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Fatalf("Fetch error = %v, want 404 StatusError", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("dest exists after failed fetch (stat err = %v)", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFetch_TransportError(t *testing.T) {
	f, _ := newFetcher(t)
	err := f.Fetch(context.Background(), "http://127.0.0.1:1/x.png", filepath.Join(f.Dir(), "x.png"))
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("Fetch error = %v, want execute request error", err)
	}
}

func TestFetch_ReplacesExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("v2"))
	}))
	t.Cleanup(server.Close)

	f, dir := newFetcher(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dest := filepath.Join(dir, "part-1.png")
	if err := os.WriteFile(dest, []byte("v1"), 0o644); err != nil {
		t.Fatalf("seed dest: %v", err)
	}
	if err := f.Fetch(context.Background(), server.URL+"/a.png", dest); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	data, _ := os.ReadFile(dest)
	if string(data) != "v2" {
		t.Fatalf("dest content = %q, want v2", data)
	}
}

package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "part.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoad_ScalesToFit(t *testing.T) {
	path := writePNG(t, 400, 200)

	img, err := Load(path, 20, 20)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if img.width != 200 || img.height != 100 {
		t.Fatalf("size = %dx%d, want 200x100", img.width, img.height)
	}
	if img.CellWidth() != 20 || img.CellHeight() != 5 {
		t.Fatalf("cells = %dx%d, want 20x5", img.CellWidth(), img.CellHeight())
	}
}

func TestLoad_DoesNotEnlarge(t *testing.T) {
	path := writePNG(t, 30, 20)

	img, err := Load(path, 80, 40)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if img.width != 30 || img.height != 20 {
		t.Fatalf("size = %dx%d, want 30x20", img.width, img.height)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png"), 10, 10); err == nil {
		t.Fatalf("Load(missing) returned nil error")
	}
	if _, err := Load(writePNG(t, 10, 10), 0, 10); err == nil {
		t.Fatalf("Load with empty area returned nil error")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.png")
	if err := os.WriteFile(bogus, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bogus, 10, 10); err == nil {
		t.Fatalf("Load(bogus) returned nil error")
	}
}

func TestRender_ChunksPayload(t *testing.T) {
	img := &Image{data: strings.Repeat("A", chunkSize+10), width: 10, height: 20, id: 42}
	out := img.Render()

	if !strings.HasPrefix(out, "\x1b_Ga=T,f=100,t=d,i=42,s=10,v=20,q=2,m=1;") {
		t.Fatalf("first chunk header = %q", out[:60])
	}
	if strings.Count(out, "\x1b_G") != 2 {
		t.Fatalf("chunks = %d, want 2", strings.Count(out, "\x1b_G"))
	}
	if !strings.Contains(out, "\x1b_Gm=0;"+strings.Repeat("A", 10)+"\x1b\\") {
		t.Fatalf("last chunk missing or malformed")
	}
}

func TestClear(t *testing.T) {
	if got := Clear(7); got != "\x1b_Ga=d,d=I,i=7,q=2\x1b\\" {
		t.Fatalf("Clear = %q", got)
	}
	if got := ClearAll(); got != "\x1b_Ga=d,d=A,q=2\x1b\\" {
		t.Fatalf("ClearAll = %q", got)
	}
}

func TestSupported(t *testing.T) {
	t.Setenv("TERM", "xterm-kitty")
	t.Setenv("TERM_PROGRAM", "")
	if !Supported() {
		t.Fatalf("Supported() = false for xterm-kitty")
	}
	t.Setenv("TERM", "xterm-256color")
	if Supported() {
		t.Fatalf("Supported() = true for plain xterm")
	}
	t.Setenv("TERM_PROGRAM", "WezTerm")
	if !Supported() {
		t.Fatalf("Supported() = false for WezTerm")
	}
}

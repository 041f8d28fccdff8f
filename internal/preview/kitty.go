// Package preview renders downloaded part images in terminals that speak the
// kitty graphics protocol.
package preview

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"os"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
)

// Approximate pixel size of one terminal cell.
const (
	cellWidthPx  = 10
	cellHeightPx = 20
	chunkSize    = 4096
)

var imageIDCounter atomic.Uint32

// Image is a part image scaled and encoded for the kitty protocol.
type Image struct {
	data   string // base64 PNG
	width  int
	height int
	id     uint32
}

// Supported reports whether the terminal is likely to understand kitty
// graphics escapes, judged from TERM and TERM_PROGRAM.
func Supported() bool {
	term := strings.ToLower(os.Getenv("TERM"))
	prog := strings.ToLower(os.Getenv("TERM_PROGRAM"))
	return strings.Contains(term, "kitty") || prog == "wezterm" || prog == "ghostty"
}

// Load opens the image at path and scales it to fit within the given number
// of cells. Images are never enlarged.
func Load(path string, maxWidthCells, maxHeightCells int) (*Image, error) {
	if maxWidthCells <= 0 || maxHeightCells <= 0 {
		return nil, fmt.Errorf("preview area %dx%d is empty", maxWidthCells, maxHeightCells)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	origWidth, origHeight := bounds.Dx(), bounds.Dy()
	if origWidth == 0 || origHeight == 0 {
		return nil, fmt.Errorf("image %s has no pixels", path)
	}

	scaleW := float64(maxWidthCells*cellWidthPx) / float64(origWidth)
	scaleH := float64(maxHeightCells*cellHeightPx) / float64(origHeight)
	scale := min(scaleW, scaleH, 1)

	newWidth := max(int(float64(origWidth)*scale), 1)
	newHeight := max(int(float64(origHeight)*scale), 1)
	resized := imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return &Image{
		data:   base64.StdEncoding.EncodeToString(buf.Bytes()),
		width:  newWidth,
		height: newHeight,
		id:     imageIDCounter.Add(1),
	}, nil
}

// Render returns the escape sequence that transmits and displays the image.
// Payloads are split into 4096 byte chunks. The caller positions the cursor.
func (img *Image) Render() string {
	var out strings.Builder

	data := img.data
	first := true
	for len(data) > 0 {
		chunk := data
		more := 0
		if len(data) > chunkSize {
			chunk = data[:chunkSize]
			data = data[chunkSize:]
			more = 1
		} else {
			data = ""
		}

		out.WriteString("\x1b_G")
		if first {
			fmt.Fprintf(&out, "a=T,f=100,t=d,i=%d,s=%d,v=%d,q=2,m=%d;", img.id, img.width, img.height, more)
			first = false
		} else {
			fmt.Fprintf(&out, "m=%d;", more)
		}
		out.WriteString(chunk)
		out.WriteString("\x1b\\")
	}
	return out.String()
}

// Clear returns the escape sequence that deletes the image with id.
func Clear(id uint32) string {
	return fmt.Sprintf("\x1b_Ga=d,d=I,i=%d,q=2\x1b\\", id)
}

// ClearAll deletes every image on screen.
func ClearAll() string {
	return "\x1b_Ga=d,d=A,q=2\x1b\\"
}

// ID returns the image id used in the escape sequences.
func (img *Image) ID() uint32 {
	return img.id
}

// CellWidth estimates the width in terminal cells.
func (img *Image) CellWidth() int {
	return (img.width + cellWidthPx - 1) / cellWidthPx
}

// CellHeight estimates the height in terminal cells.
func (img *Image) CellHeight() int {
	return (img.height + cellHeightPx - 1) / cellHeightPx
}

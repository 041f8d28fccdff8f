package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/five82/partpick/internal/buildinfo"
)

const defaultExt = ".img"

// StatusError reports a download answered with something other than 200 or 201.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download %s: status %d", e.URL, e.Code)
}

// Fetcher saves remote images under one directory.
type Fetcher struct {
	dir     string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// Options configure a Fetcher.
type Options struct {
	Dir     string
	Timeout time.Duration // zero means no per-download timeout
	Client  *http.Client
	Logger  *zap.Logger
}

// New returns a Fetcher writing into opts.Dir. The directory is created on
// first use.
func New(opts Options) (*Fetcher, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("asset directory is required")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		dir:     opts.Dir,
		http:    client,
		timeout: opts.Timeout,
		log:     log.With(zap.String("component", "asset")),
	}, nil
}

// Dir returns the directory images are stored in.
func (f *Fetcher) Dir() string {
	return f.dir
}

// Destination returns the local path for a part image:
// <dir>/part-<id>-<slug(name)><ext>. The extension comes from the URL path.
func (f *Fetcher) Destination(partID int, name, rawURL string) string {
	base := "part-" + strconv.Itoa(partID)
	if s := slug.Make(name); s != "" {
		base += "-" + s
	}
	return filepath.Join(f.dir, base+extension(rawURL))
}

func extension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultExt
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext == "" || len(ext) > 6 {
		return defaultExt
	}
	return ext
}

// Fetch downloads rawURL to dest. Redirects are followed; only 200 and 201
// count as success.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "partpick/"+buildinfo.Version)

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: rawURL, Code: resp.StatusCode}
	}

	n, err := writeAtomic(dest, resp.Body)
	if err != nil {
		return err
	}
	f.log.Debug("image saved", zap.String("url", rawURL), zap.String("path", dest), zap.Int64("bytes", n))
	return nil
}

// writeAtomic copies r into a temp file beside path and renames it into place.
func writeAtomic(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create asset dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(0o644)

	n, err := io.Copy(tmp, r)
	if err != nil {
		return n, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return n, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("close temp file: %w", err)
	}

	// Renaming over an existing file fails on Windows.
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return n, fmt.Errorf("rename temp file: %w", err)
		}
	}
	committed = true
	return n, nil
}

package inventree

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/partpick/internal/buildinfo"
	"github.com/five82/partpick/internal/catalog"
)

// CatalogFetcher defines the InvenTree calls the driver pipeline is built from.
// This interface is implemented by *Client and can be used for testing.
type CatalogFetcher interface {
	FetchVersion(ctx context.Context) (map[string]string, error)
	FetchToken(ctx context.Context, username, password string) (string, error)
	FetchTemplates(ctx context.Context, token string) ([]catalog.ParameterTemplate, error)
	FetchLocations(ctx context.Context, token string) ([]catalog.StockLocation, error)
	SearchParts(ctx context.Context, token, term string) ([]catalog.FoundPart, error)
	FetchPartAttributes(ctx context.Context, token string, partID int) ([]catalog.RawAttribute, error)
	FetchPartParameters(ctx context.Context, token string, partID int) ([]catalog.RawParameter, error)
}

// Ensure Client implements CatalogFetcher at compile time.
var _ CatalogFetcher = (*Client)(nil)

// Client talks to the InvenTree REST API.
type Client struct {
	serverURL *url.URL
	apiURL    *url.URL
	http      *http.Client
	userAgent string
	timeout   time.Duration
}

const defaultServerURL = "http://localhost:8000"

// StatusError is returned when the server answers with anything but 200 OK.
type StatusError struct {
	Path   string
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("api %s returned status %d %s", e.Path, e.Code, e.Reason)
}

// StatusMessage is the text shown to users when a stage fails with e.
func (e *StatusError) StatusMessage() string {
	return "Error Code:" + strconv.Itoa(e.Code) + "\n" + e.Reason
}

// NewClient builds a Client for the server at serverURL. A zero timeout
// leaves requests unbounded; cancellation still works through ctx.
func NewClient(serverURL string, timeout time.Duration) (*Client, error) {
	base, err := parseServerURL(serverURL)
	if err != nil {
		return nil, err
	}
	api := *base
	api.Path = strings.TrimRight(base.Path, "/") + "/api/"
	return &Client{
		serverURL: base,
		apiURL:    &api,
		http:      &http.Client{},
		userAgent: "partpick/" + buildinfo.Version,
		timeout:   timeout,
	}, nil
}

// ServerURL returns the normalized server root, without a trailing slash.
func (c *Client) ServerURL() string {
	return strings.TrimRight(c.serverURL.String(), "/")
}

// APIURL returns the API root, with a trailing slash.
func (c *Client) APIURL() string {
	return c.apiURL.String()
}

// FetchVersion retrieves the unauthenticated server version document.
func (c *Client) FetchVersion(ctx context.Context) (map[string]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, &url.URL{}, nil)
	if err != nil {
		return nil, err
	}
	return DecodeVersion(body), nil
}

// FetchToken logs in with HTTP basic auth and returns the API token.
func (c *Client) FetchToken(ctx context.Context, username, password string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, &url.URL{Path: "user/token/"}, func(req *http.Request) {
		req.SetBasicAuth(username, password)
	})
	if err != nil {
		return "", err
	}
	return DecodeToken(body), nil
}

// FetchTemplates retrieves every part parameter template.
func (c *Client) FetchTemplates(ctx context.Context, token string) ([]catalog.ParameterTemplate, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, &url.URL{Path: "part/parameter/template/"}, tokenAuth(token))
	if err != nil {
		return nil, err
	}
	return DecodeTemplates(body), nil
}

// FetchLocations retrieves every stock location.
func (c *Client) FetchLocations(ctx context.Context, token string) ([]catalog.StockLocation, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.get(ctx, &url.URL{Path: "stock/location/"}, tokenAuth(token))
	if err != nil {
		return nil, err
	}
	return DecodeLocations(body), nil
}

// SearchParts runs a server-side text search over parts.
func (c *Client) SearchParts(ctx context.Context, token, term string) ([]catalog.FoundPart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("search", term)
	body, err := c.get(ctx, &url.URL{Path: "part/", RawQuery: values.Encode()}, tokenAuth(token))
	if err != nil {
		return nil, err
	}
	return DecodeFoundParts(body), nil
}

// FetchPartAttributes retrieves one part record and flattens it to attributes.
func (c *Client) FetchPartAttributes(ctx context.Context, token string, partID int) ([]catalog.RawAttribute, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "part/" + strconv.Itoa(partID) + "/"}
	body, err := c.get(ctx, rel, tokenAuth(token))
	if err != nil {
		return nil, err
	}
	return DecodeAttributes(body), nil
}

// FetchPartParameters retrieves the parameter values of one part.
func (c *Client) FetchPartParameters(ctx context.Context, token string, partID int) ([]catalog.RawParameter, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("part", strconv.Itoa(partID))
	body, err := c.get(ctx, &url.URL{Path: "part/parameter/", RawQuery: values.Encode()}, tokenAuth(token))
	if err != nil {
		return nil, err
	}
	return DecodeParameters(body), nil
}

func tokenAuth(token string) func(*http.Request) {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Token "+token)
	}
}

// get performs one GET relative to the API root and returns the body of a
// 200 response after checking it is JSON.
func (c *Client) get(ctx context.Context, rel *url.URL, auth func(*http.Request)) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := c.apiURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if auth != nil {
		auth(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Path: reqURL.Path, Code: resp.StatusCode, Reason: reasonPhrase(resp)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode response: invalid JSON from %s", reqURL.Path)
	}
	return body, nil
}

func reasonPhrase(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode)
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, prefix))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func parseServerURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultServerURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse server_url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

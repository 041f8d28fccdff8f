package inventree

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/partpick/internal/catalog"
)

// Ensure Driver implements catalog.Warehouse at compile time.
var _ catalog.Warehouse = (*Driver)(nil)

// Options configure a Driver.
type Options struct {
	ServerURL string
	Timeout   time.Duration // zero means no per-stage timeout
	Assets    catalog.AssetFetcher
	Notifier  catalog.Notifier
	Logger    *zap.Logger
	// Fetcher replaces the HTTP client; nil builds one from ServerURL.
	Fetcher CatalogFetcher
}

// Driver is the InvenTree backend. It runs the connect pipeline, keeps the
// session and delegates part detail assembly to catalog.Assembler.
type Driver struct {
	fetcher   CatalogFetcher
	session   *catalog.Session
	assembler *catalog.Assembler
	notifier  catalog.Notifier
	log       *zap.Logger
}

// NewDriver builds an unconnected driver.
func NewDriver(opts Options) (*Driver, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "inventree"))

	client, err := NewClient(opts.ServerURL, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("init inventree client: %w", err)
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = client
	}

	d := &Driver{
		fetcher:  fetcher,
		session:  catalog.NewSession(client.ServerURL(), client.APIURL()),
		notifier: opts.Notifier,
		log:      log,
	}
	d.assembler = &catalog.Assembler{
		Source:   partSource{d: d},
		Assets:   opts.Assets,
		Notifier: opts.Notifier,
		Logger:   log,
	}
	return d, nil
}

// Session exposes the driver's session for inspection.
func (d *Driver) Session() *catalog.Session {
	return d.session
}

// Connect runs version, token, templates and locations in that order. Only a
// missing token fails the connection; the other stages are reported and
// skipped.
func (d *Driver) Connect(ctx context.Context, creds catalog.Credentials, driverID int) error {
	d.session.DriverID = driverID

	username := creds.Username()
	if len(creds) == 0 || username == "" {
		d.log.Warn("connect without credentials")
		d.status(ctx, "No credentials defined! InvenTree needs credentials to permit access to its database",
			"Connect", catalog.SeverityConsole)
		return catalog.ErrMissingCredentials
	}

	d.session.Reset(username)

	d.fetchVersion(ctx)

	if err := d.fetchToken(ctx, username, creds.Password()); err != nil {
		return err
	}

	d.fetchTemplates(ctx)
	d.fetchLocations(ctx)

	d.log.Info("connected",
		zap.String("user", username),
		zap.String("version", d.session.Version["version"]),
		zap.Int("templates", len(d.session.Templates)),
		zap.Int("locations", len(d.session.Locations)))
	d.status(ctx, "Connected to InvenTree as: "+username, "Version: "+d.session.Version["version"],
		catalog.SeverityStatusBar)
	return nil
}

func (d *Driver) fetchVersion(ctx context.Context) {
	version, err := d.fetcher.FetchVersion(ctx)
	if err != nil {
		d.report(ctx, err, "FetchVersion")
		return
	}
	if version != nil {
		d.session.Version = version
	}
}

func (d *Driver) fetchToken(ctx context.Context, username, password string) error {
	token, err := d.fetcher.FetchToken(ctx, username, password)
	if err != nil {
		d.report(ctx, err, "FetchToken")
		return fmt.Errorf("%w: %w", catalog.ErrNoToken, err)
	}
	if token == "" {
		d.status(ctx, "Server did not return an auth token for "+username, "FetchToken", catalog.SeverityErrorDialog)
		return catalog.ErrNoToken
	}
	d.log.Debug("token received", zap.String("user", username))
	d.session.Token = token
	return nil
}

func (d *Driver) fetchTemplates(ctx context.Context) {
	templates, err := d.fetcher.FetchTemplates(ctx, d.session.Token)
	if err != nil {
		d.report(ctx, err, "FetchTemplates")
		return
	}
	d.session.Templates = templates
	d.log.Debug("templates received", zap.Int("count", len(templates)))
}

func (d *Driver) fetchLocations(ctx context.Context) {
	locations, err := d.fetcher.FetchLocations(ctx, d.session.Token)
	if err != nil {
		d.report(ctx, err, "FetchLocations")
		return
	}
	d.session.Locations = locations
	d.log.Debug("locations received", zap.Int("count", len(locations)))
}

// ConnectionInfo returns the server version fields gathered at connect time.
func (d *Driver) ConnectionInfo() map[string]string {
	return d.session.VersionInfo()
}

// Search replaces the session's results with the hits for term and returns
// their descriptions in order. On failure the results are cleared and an
// empty found-parts event is still published.
func (d *Driver) Search(ctx context.Context, term string) ([]string, error) {
	if !d.session.Authenticated() {
		d.session.ClearResults()
		d.report(ctx, catalog.ErrNotConnected, "Search")
		d.notify(ctx, catalog.FoundPartsEvent{DriverID: d.session.DriverID, Descriptions: []string{}})
		return nil, catalog.ErrNotConnected
	}

	parts, err := d.fetcher.SearchParts(ctx, d.session.Token, term)
	if err != nil {
		d.session.ClearResults()
		d.report(ctx, err, "Search")
		d.notify(ctx, catalog.FoundPartsEvent{DriverID: d.session.DriverID, Descriptions: []string{}})
		return nil, fmt.Errorf("search %q: %w", term, err)
	}

	d.session.ReplaceResults(parts)
	descriptions := make([]string, 0, len(parts))
	for _, p := range parts {
		descriptions = append(descriptions, p.Description())
	}
	d.log.Debug("search finished", zap.String("term", term), zap.Int("hits", len(parts)))
	d.notify(ctx, catalog.FoundPartsEvent{DriverID: d.session.DriverID, Descriptions: descriptions})
	return descriptions, nil
}

// SelectPart assembles the detail map of the hit at position in the last search.
func (d *Driver) SelectPart(ctx context.Context, position int) (catalog.PartDetail, error) {
	detail, err := d.assembler.SelectPart(ctx, d.session, position)
	if err != nil {
		d.log.Warn("select part rejected", zap.Int("position", position), zap.Error(err))
		return catalog.PartDetail{}, err
	}
	return detail, nil
}

// AvailableFilters has no server support yet.
func (d *Driver) AvailableFilters() (map[string][]string, error) {
	return nil, fmt.Errorf("available filters: %w", catalog.ErrNotImplemented)
}

// AddPart has no server support yet.
func (d *Driver) AddPart(ctx context.Context, part catalog.NewPart) error {
	return fmt.Errorf("add part %q: %w", part.Name, catalog.ErrNotImplemented)
}

// Capabilities lists the settings this driver needs from its host.
func (d *Driver) Capabilities() []catalog.Capability {
	return []catalog.Capability{catalog.CapabilityCredentials, catalog.CapabilityServerSettings}
}

// report logs a stage failure and turns it into an error status event.
func (d *Driver) report(ctx context.Context, err error, where string) {
	d.log.Warn("stage failed", zap.String("stage", where), zap.Error(err))
	d.status(ctx, catalog.StatusMessage(err), where, catalog.SeverityErrorDialog)
}

func (d *Driver) status(ctx context.Context, msg, where string, sev catalog.Severity) {
	d.notify(ctx, catalog.StatusEvent{
		DriverID: d.session.DriverID,
		Message:  msg,
		Context:  where,
		Severity: sev,
	})
}

func (d *Driver) notify(ctx context.Context, ev catalog.Event) {
	if d.notifier != nil {
		d.notifier.Notify(ctx, ev)
	}
}

// partSource binds the session token to the client for the assembler.
type partSource struct {
	d *Driver
}

func (p partSource) FetchPartAttributes(ctx context.Context, partID int) ([]catalog.RawAttribute, error) {
	if !p.d.session.Authenticated() {
		return nil, catalog.ErrNotConnected
	}
	return p.d.fetcher.FetchPartAttributes(ctx, p.d.session.Token, partID)
}

func (p partSource) FetchPartParameters(ctx context.Context, partID int) ([]catalog.RawParameter, error) {
	if !p.d.session.Authenticated() {
		return nil, catalog.ErrNotConnected
	}
	return p.d.fetcher.FetchPartParameters(ctx, p.d.session.Token, partID)
}

package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// PartSource fetches the per-part resources the assembler joins.
type PartSource interface {
	FetchPartAttributes(ctx context.Context, partID int) ([]RawAttribute, error)
	FetchPartParameters(ctx context.Context, partID int) ([]RawParameter, error)
}

// AssetFetcher downloads a part image to local storage.
type AssetFetcher interface {
	Destination(partID int, name, url string) string
	Fetch(ctx context.Context, url, dest string) error
}

// PartDetail is the display-ready record for one selected part.
type PartDetail struct {
	PartID int
	Name   string
	// Fields maps display labels to display values.
	Fields map[string]string
	// ImagePath is empty when the part has no image or the download failed.
	ImagePath string
}

// Assembler turns a selected search hit into a PartDetail. It is shared by
// every backend; only PartSource is backend specific.
type Assembler struct {
	Source   PartSource
	Assets   AssetFetcher
	Notifier Notifier
	Logger   *zap.Logger
}

// SelectPart looks up the hit at position, refreshes the session's
// attributes and parameters for it, downloads its image and builds the
// detail map. Attribute, parameter and image failures are reported and the
// map is still produced from whatever arrived.
func (a *Assembler) SelectPart(ctx context.Context, s *Session, position int) (PartDetail, error) {
	if s == nil {
		return PartDetail{}, ErrNotConnected
	}
	part, err := s.PartAt(position)
	if err != nil {
		return PartDetail{}, err
	}
	pk, ok := part.ID()
	if !ok {
		return PartDetail{}, fmt.Errorf("select position %d: %w", position, ErrNoPartID)
	}
	log := a.logger().With(zap.Int("part", pk), zap.Int("driver", s.DriverID))

	rawAttrs, err := a.Source.FetchPartAttributes(ctx, pk)
	if err != nil {
		log.Warn("fetch part attributes failed", zap.Error(err))
		a.status(ctx, s, StatusMessage(err), "FetchPartAttributes", SeverityErrorDialog)
		rawAttrs = nil
	}
	s.Attributes = ResolveAttributes(rawAttrs, s.Locations)

	rawParams, err := a.Source.FetchPartParameters(ctx, pk)
	if err != nil {
		log.Warn("fetch part parameters failed", zap.Error(err))
		a.status(ctx, s, StatusMessage(err), "FetchPartParameters", SeverityErrorDialog)
		rawParams = nil
	}
	s.Parameters = ResolveParameters(rawParams, s.Templates)

	detail := PartDetail{
		PartID: pk,
		Name:   part.Name(),
		Fields: BuildDetail(s.Parameters, s.Attributes),
	}
	detail.ImagePath = a.fetchImage(ctx, s, part, pk, log)

	if a.Notifier != nil {
		a.Notifier.Notify(ctx, PartDetailEvent{DriverID: s.DriverID, Detail: detail})
	}
	return detail, nil
}

func (a *Assembler) fetchImage(ctx context.Context, s *Session, part FoundPart, pk int, log *zap.Logger) string {
	if a.Assets == nil {
		return ""
	}
	rel := part.Image()
	if strings.TrimSpace(rel) == "" {
		log.Debug("part has no image")
		return ""
	}
	url := ImageURL(s.ServerURL, rel)
	dest := a.Assets.Destination(pk, part.Name(), url)
	if err := a.Assets.Fetch(ctx, url, dest); err != nil {
		log.Warn("failed to download part image", zap.String("url", url), zap.Error(err))
		a.status(ctx, s, "Failed to download image: "+err.Error(), "FetchAsset", SeverityConsole)
		return ""
	}
	log.Debug("part image saved", zap.String("path", dest))
	return dest
}

func (a *Assembler) status(ctx context.Context, s *Session, msg, where string, sev Severity) {
	if a.Notifier == nil {
		return
	}
	a.Notifier.Notify(ctx, StatusEvent{DriverID: s.DriverID, Message: msg, Context: where, Severity: sev})
}

func (a *Assembler) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// BuildDetail merges parameters and visible attributes into one display map.
// Parameters are written first, so an attribute whose label collides with a
// parameter label wins.
func BuildDetail(params []PartParameter, attrs []PartAttribute) map[string]string {
	out := make(map[string]string, len(params)+len(visibleAttributes))
	for _, p := range params {
		out[FormatName(p.TemplateName)] = p.Value + " " + p.Unit
	}
	for _, attr := range attrs {
		if VisibleAttribute(attr.Name) {
			out[FormatName(attr.Name)] = attr.ResolvedValue
		}
	}
	return out
}

// ImageURL joins a server base URL with a server-relative image path.
// Absolute URLs are returned unchanged.
func ImageURL(serverURL, image string) string {
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	return strings.TrimRight(serverURL, "/") + "/" + strings.TrimLeft(image, "/")
}

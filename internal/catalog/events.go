package catalog

import "context"

// Severity tells the host how prominently to show a status message.
type Severity int

const (
	SeverityStatusBar Severity = iota
	SeverityErrorDialog
	SeverityInfoDialog
	SeverityConsole
)

func (s Severity) String() string {
	switch s {
	case SeverityStatusBar:
		return "status"
	case SeverityErrorDialog:
		return "error"
	case SeverityInfoDialog:
		return "info"
	case SeverityConsole:
		return "console"
	default:
		return "unknown"
	}
}

// Event is anything a driver reports to its host. Every event carries the
// driver id so a host running several drivers can tell them apart.
type Event interface {
	Driver() int
}

// FoundPartsEvent carries the display strings of a finished search.
type FoundPartsEvent struct {
	DriverID     int
	Descriptions []string
}

// PartDetailEvent carries the assembled detail of the selected part.
type PartDetailEvent struct {
	DriverID int
	Detail   PartDetail
}

// StatusEvent is a human-readable notification.
type StatusEvent struct {
	DriverID int
	Message  string
	Context  string
	Severity Severity
}

func (e FoundPartsEvent) Driver() int { return e.DriverID }
func (e PartDetailEvent) Driver() int { return e.DriverID }
func (e StatusEvent) Driver() int     { return e.DriverID }

// Notifier delivers driver events to the host.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// ChannelNotifier publishes events on a channel. Sends block until the host
// reads or ctx is done; a nil notifier or channel discards events.
type ChannelNotifier struct {
	ch chan Event
}

// NewChannelNotifier returns a notifier backed by a channel with the given buffer.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelNotifier{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the channel.
func (n *ChannelNotifier) Events() <-chan Event {
	if n == nil {
		return nil
	}
	return n.ch
}

// Notify implements Notifier.
func (n *ChannelNotifier) Notify(ctx context.Context, ev Event) {
	if n == nil || n.ch == nil || ev == nil {
		return
	}
	select {
	case n.ch <- ev:
	case <-ctx.Done():
	}
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, ev Event) {
	if f != nil {
		f(ctx, ev)
	}
}

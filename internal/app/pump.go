package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/partpick/internal/catalog"
	"github.com/five82/partpick/internal/state"
)

// StartPump launches a goroutine that folds driver events into the store
// until ctx is cancelled or the channel closes. It returns immediately; the
// returned channel closes when the goroutine exits.
func StartPump(ctx context.Context, store *state.Store, events <-chan catalog.Event, log *zap.Logger) <-chan struct{} {
	if log == nil {
		log = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if events == nil {
			<-ctx.Done()
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				logEvent(log, ev)
				store.Apply(ev)
			}
		}
	}()
	return done
}

func logEvent(log *zap.Logger, ev catalog.Event) {
	switch e := ev.(type) {
	case catalog.StatusEvent:
		fields := []zap.Field{
			zap.Int("driver", e.DriverID),
			zap.String("context", e.Context),
			zap.Stringer("severity", e.Severity),
		}
		if e.Severity == catalog.SeverityErrorDialog {
			log.Warn(e.Message, fields...)
			return
		}
		log.Debug(e.Message, fields...)
	case catalog.FoundPartsEvent:
		log.Debug("found parts", zap.Int("driver", e.DriverID), zap.Int("count", len(e.Descriptions)))
	case catalog.PartDetailEvent:
		log.Debug("part detail", zap.Int("driver", e.DriverID), zap.Int("part", e.Detail.PartID))
	}
}

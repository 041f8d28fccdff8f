package state

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/five82/partpick/internal/catalog"
)

// MaxStatuses bounds the status history kept for the UI.
const MaxStatuses = 50

// StatusLine is one status event as the UI shows it.
type StatusLine struct {
	Time     time.Time
	Message  string
	Context  string
	Severity catalog.Severity
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	DriverID  int
	Connected bool
	Info      map[string]string

	Results     []string
	Detail      catalog.PartDetail
	HasDetail   bool
	SearchCount int // number of found-parts events seen

	Statuses []StatusLine // oldest first

	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed driver calls
}

// LastStatus returns the most recent status line, if any.
func (s Snapshot) LastStatus() (StatusLine, bool) {
	if len(s.Statuses) == 0 {
		return StatusLine{}, false
	}
	return s.Statuses[len(s.Statuses)-1], true
}

// IsOffline returns true when the server has failed several calls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Apply folds one driver event into the snapshot. Events from another driver
// than the one recorded by SetConnected are ignored once a driver is known.
func (s *Store) Apply(ev catalog.Event) {
	if ev == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.DriverID != 0 && ev.Driver() != s.snapshot.DriverID {
		return
	}

	switch e := ev.(type) {
	case catalog.FoundPartsEvent:
		s.snapshot.Results = cloneStrings(e.Descriptions)
		s.snapshot.Detail = catalog.PartDetail{}
		s.snapshot.HasDetail = false
		s.snapshot.SearchCount++
	case catalog.PartDetailEvent:
		s.snapshot.Detail = cloneDetail(e.Detail)
		s.snapshot.HasDetail = true
	case catalog.StatusEvent:
		s.snapshot.Statuses = append(s.snapshot.Statuses, StatusLine{
			Time:     time.Now(),
			Message:  e.Message,
			Context:  e.Context,
			Severity: e.Severity,
		})
		if n := len(s.snapshot.Statuses); n > MaxStatuses {
			s.snapshot.Statuses = append([]StatusLine(nil), s.snapshot.Statuses[n-MaxStatuses:]...)
		}
	}
	s.snapshot.LastUpdated = time.Now()
}

// SetConnected records the outcome of a connect attempt.
func (s *Store) SetConnected(driverID int, info map[string]string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.DriverID = driverID
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Connected = false
		s.recordErrorLocked(err)
		return
	}
	s.snapshot.Connected = true
	s.snapshot.Info = maps.Clone(info)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// RecordResult tracks the outcome of a search or select call. When err is
// non-nil the previous data is kept but the error is recorded for visibility.
func (s *Store) RecordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.recordErrorLocked(err)
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

func (s *Store) recordErrorLocked(err error) {
	s.snapshot.LastError = err
	s.snapshot.ConsecutiveFailures++
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Info = maps.Clone(s.snapshot.Info)
	snap.Results = cloneStrings(s.snapshot.Results)
	snap.Detail = cloneDetail(s.snapshot.Detail)
	if len(s.snapshot.Statuses) > 0 {
		snap.Statuses = append([]StatusLine(nil), s.snapshot.Statuses...)
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStrings(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	dup := make([]string, len(items))
	copy(dup, items)
	return dup
}

func cloneDetail(d catalog.PartDetail) catalog.PartDetail {
	d.Fields = maps.Clone(d.Fields)
	return d
}

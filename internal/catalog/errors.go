package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned by Connect before any network call
	// when no usable credentials were supplied.
	ErrMissingCredentials = errors.New("no credentials defined")
	// ErrNoToken means the server did not hand out an auth token.
	ErrNoToken = errors.New("no auth token received")
	// ErrNotConnected is returned by data calls made before a successful Connect.
	ErrNotConnected = errors.New("not connected")
	// ErrPositionOutOfRange is wrapped by PositionError.
	ErrPositionOutOfRange = errors.New("position out of range")
	// ErrNotImplemented marks driver capabilities with no server support yet.
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoPartID means a search hit carries no numeric primary key.
	ErrNoPartID = errors.New("part has no numeric pk")
)

// PositionError reports a selection outside the current result list.
type PositionError struct {
	Position int
	Count    int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position %d out of range (%d results)", e.Position, e.Count)
}

func (e *PositionError) Unwrap() error {
	return ErrPositionOutOfRange
}

// StatusMessager is implemented by errors that know how they should read in
// a status event.
type StatusMessager interface {
	StatusMessage() string
}

// StatusMessage returns the status text for err. Errors anywhere in the
// chain that implement StatusMessager supply their own text.
func StatusMessage(err error) string {
	var sm StatusMessager
	if errors.As(err, &sm) {
		return sm.StatusMessage()
	}
	return err.Error()
}

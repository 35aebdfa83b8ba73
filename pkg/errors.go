package hadronia

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScatteredLepton is returned when an event has no final-state
	// particle of the beam lepton type.
	ErrNoScatteredLepton = errors.New("no final-state scattered lepton in event")
	// ErrShortEvent is returned for events without beam and target entries.
	ErrShortEvent = errors.New("event has fewer than two particles")
	// ErrTooManyCombinations is returned when reconstruction exceeds the
	// configured combination limit.
	ErrTooManyCombinations = errors.New("combination limit exceeded")
)

// ErrMalformedPattern represents an unparseable criteria pattern.
type ErrMalformedPattern struct {
	Pattern string
	Token   string
	Reason  string
}

func (e *ErrMalformedPattern) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("malformed pattern %q: token %q: %s", e.Pattern, e.Token, e.Reason)
	}
	return fmt.Sprintf("malformed pattern %q: %s", e.Pattern, e.Reason)
}

// ErrIncompatibleArity represents a hadronium set with the wrong number of slots.
type ErrIncompatibleArity struct {
	Want int
	Got  int
}

func (e *ErrIncompatibleArity) Error() string {
	return fmt.Sprintf("incompatible arity: want %d slots, got %d", e.Want, e.Got)
}

// ErrParseLund represents a LUND line that could not be parsed.
type ErrParseLund struct {
	Line int
	Err  error
}

func (e *ErrParseLund) Error() string {
	return fmt.Sprintf("error parsing LUND line %d: %v", e.Line, e.Err)
}

func (e *ErrParseLund) Unwrap() error {
	return e.Err
}

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error {
	return e.Err
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error {
	return e.Err
}

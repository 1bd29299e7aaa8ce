package fs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreachable is returned when a location can't be opened or listed
	ErrUnreachable = errors.New("location unreachable")
	// ErrNotADirectory is returned when a location exists but isn't a directory
	ErrNotADirectory = errors.New("not a directory")
	// ErrMetadata is returned when metadata of an entry can't be resolved
	ErrMetadata = errors.New("metadata error")
)

// ListError describes a failed listing: which location, which kind of failure and why
type ListError struct {
	Kind     error
	Location string
	Err      error
}

func (e *ListError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Location)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Location, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// Is matches the kind of failure, so errors.Is(err, ErrNotADirectory) works
func (e *ListError) Is(target error) bool {
	return e.Kind == target
}

func unreachable(location string, err error) *ListError {
	return &ListError{Kind: ErrUnreachable, Location: location, Err: err}
}

func notADirectory(location string) *ListError {
	return &ListError{Kind: ErrNotADirectory, Location: location}
}

func metadataError(location string, err error) *ListError {
	return &ListError{Kind: ErrMetadata, Location: location, Err: err}
}

// KindName gives a stable name for the kind of a listing failure, for use on the wire
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotADirectory):
		return "not_a_directory"
	case errors.Is(err, ErrMetadata):
		return "metadata"
	default:
		return "unreachable"
	}
}

// NewListError rebuilds a ListError from a kind name produced by KindName
func NewListError(kindName string, location string, err error) *ListError {
	switch kindName {
	case "not_a_directory":
		return &ListError{Kind: ErrNotADirectory, Location: location, Err: err}
	case "metadata":
		return metadataError(location, err)
	default:
		return unreachable(location, err)
	}
}

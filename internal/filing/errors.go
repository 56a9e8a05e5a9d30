package filing

import (
	"errors"
	"fmt"
)

// ErrFilingInProgress is returned when another filing run holds the family lock
var ErrFilingInProgress = errors.New("another filing run is in progress for this family")

// ErrDestinationExists is wrapped by ConflictError
var ErrDestinationExists = errors.New("destination already exists")

// ConflictError reports an add whose destination is already occupied.
// The document is left in place.
type ConflictError struct {
	Document    string
	Destination string
}

// Error implements the error interface for ConflictError.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot add %s: %s: %v", e.Document, e.Destination, ErrDestinationExists)
}

// Unwrap returns ErrDestinationExists for errors.Is support.
func (e *ConflictError) Unwrap() error {
	return ErrDestinationExists
}

// DocumentError reports a document that could not be filed.
// The source is left untouched unless Op is "remove source".
type DocumentError struct {
	Document string // Source path
	Op       string // Step that failed
	Err      error
}

// Error implements the error interface for DocumentError.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Document, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// CopyError reports the path at which a tree copy stopped. Everything copied
// before it remains at the destination.
type CopyError struct {
	Path string
	Err  error
}

// Error implements the error interface for CopyError.
func (e *CopyError) Error() string {
	return fmt.Sprintf("copy stopped at %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CopyError) Unwrap() error {
	return e.Err
}

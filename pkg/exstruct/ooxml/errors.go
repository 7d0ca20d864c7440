package ooxml

import (
	"errors"
	"fmt"
)

// ErrPartNotFound indicates a referenced archive member does not exist.
var ErrPartNotFound = errors.New("part not found")

// ErrRelationshipNotFound indicates a relationship id has no entry in the
// loaded relationship set, or points outside the package.
var ErrRelationshipNotFound = errors.New("relationship not found")

// XMLParseError reports malformed XML in a single part.
type XMLParseError struct {
	Part string
	Err  error
}

func (e *XMLParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Part, e.Err)
}

func (e *XMLParseError) Unwrap() error {
	return e.Err
}

// IsPartNotFound reports whether err was caused by a missing part.
func IsPartNotFound(err error) bool {
	return errors.Is(err, ErrPartNotFound)
}

// IsParseError reports whether err carries an XMLParseError.
func IsParseError(err error) bool {
	var pe *XMLParseError
	return errors.As(err, &pe)
}

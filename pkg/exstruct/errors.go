package exstruct

import (
	"errors"
	"fmt"
)

// ErrInputNotFound indicates the input path does not name an existing
// regular file.
var ErrInputNotFound = errors.New("input file not found")

// ErrInvalidFormat indicates the input file is not a readable zip package.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ExtractionError describes one unit left out of the result.
type ExtractionError struct {
	SheetName string
	Component string // "cells", "defined_names", "relationships", "drawing", "diagram", "image"
	Part      string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
	}
	return fmt.Sprintf("extraction error in sheet %q (%s %s): %v", e.SheetName, e.Component, e.Part, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component, part string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Part:      part,
		Err:       err,
	}
}

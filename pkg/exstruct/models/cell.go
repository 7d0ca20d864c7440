// Package models defines data structures for Excel extraction.
package models

// CellText is one non-empty cell rendered as text.
type CellText struct {
	// Cell is the A1-style address (e.g. "B3").
	Cell string `json:"cell"`
	// Text is the cell value as displayed, trimmed.
	Text string `json:"text"`
	// Hyperlink is the cell hyperlink target (optional).
	Hyperlink string `json:"hyperlink,omitempty"`
	// Comment is the cell comment text (optional).
	Comment string `json:"comment,omitempty"`
}

// DefinedName is a named formula or range declared by the workbook.
type DefinedName struct {
	Name string `json:"name"`
	// RefersTo is the formula text, e.g. "Sales!$A$1:$B$9".
	RefersTo string `json:"refers_to"`
	// Scope is the owning sheet name, empty for workbook-wide names.
	Scope  string `json:"scope,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

package models

// ShapeText is the text body of a shape anchored on a sheet.
type ShapeText struct {
	// SheetName is the owning sheet.
	SheetName string `json:"sheet_name"`
	// Text is the space-joined text of all runs in the shape.
	Text string `json:"text"`
	// Anchor is the shape position.
	Anchor Anchor `json:"anchor"`
}

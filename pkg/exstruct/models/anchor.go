package models

// Anchor is the top-left position of a drawing element in cell-relative
// coordinates. Offsets are in EMU.
type Anchor struct {
	// Col is the 0-based column index.
	Col int `json:"col"`
	// ColOff is the offset inside the column.
	ColOff int `json:"colOff"`
	// Row is the 0-based row index.
	Row int `json:"row"`
	// RowOff is the offset inside the row.
	RowOff int `json:"rowOff"`
}

package models

// ImageItem is a picture copied out of the package.
type ImageItem struct {
	// SheetName is the owning sheet.
	SheetName string `json:"sheet_name"`
	// ImageFilename is the saved file path relative to the output directory.
	ImageFilename string `json:"image_filename"`
	// OriginalPart is the media part path inside the package.
	OriginalPart string `json:"original_part"`
	// Anchor is the picture position.
	Anchor Anchor `json:"anchor"`
}

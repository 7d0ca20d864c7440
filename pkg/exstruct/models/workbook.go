package models

// Metadata describes the extraction run.
type Metadata struct {
	// Filename is the input file name (no path).
	Filename string `json:"filename"`
	// Created is the extraction timestamp (RFC 3339).
	Created string `json:"created"`
	// WorkbookID is "sha256:<hex>" of the input file.
	WorkbookID string `json:"workbook_id,omitempty"`
	// Sheets lists sheet names in workbook order.
	Sheets []string `json:"sheets"`
}

// ExtractionResult is the whole-document model written to extracted_data.json.
type ExtractionResult struct {
	// TextContent is reserved and always empty.
	TextContent []CellText `json:"text_content"`
	// Images rolls up the images of every sheet.
	Images []ImageItem `json:"images"`
	// SmartArt rolls up the SmartArt forests of every sheet.
	SmartArt []*SmartArtNode `json:"smartart"`
	// Links lists the distinct cell hyperlink targets in sheet then cell
	// order. It is empty unless link extraction is enabled.
	Links []string `json:"links"`
	// DefinedNames lists the workbook's defined names in declaration order.
	DefinedNames []DefinedName `json:"defined_names"`
	// Metadata describes the run.
	Metadata Metadata `json:"metadata"`
	// Sheets holds per-sheet results in workbook order.
	Sheets []SheetResult `json:"sheets"`
}

// NewExtractionResult returns an empty result with all lists allocated.
func NewExtractionResult(filename, created string) *ExtractionResult {
	return &ExtractionResult{
		TextContent:  []CellText{},
		Images:       []ImageItem{},
		SmartArt:     []*SmartArtNode{},
		Links:        []string{},
		DefinedNames: []DefinedName{},
		Metadata: Metadata{
			Filename: filename,
			Created:  created,
			Sheets:   []string{},
		},
		Sheets: []SheetResult{},
	}
}

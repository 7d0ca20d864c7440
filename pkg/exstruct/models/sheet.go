package models

// Visibility is the workbook-declared state of a sheet.
type Visibility string

const (
	Visible    Visibility = "visible"
	Hidden     Visibility = "hidden"
	VeryHidden Visibility = "veryHidden"
)

// Sheet is a worksheet as declared by the workbook.
type Sheet struct {
	// Name is the sheet tab name.
	Name string `json:"name"`
	// Visibility is the sheet state.
	Visibility Visibility `json:"visibility"`
	// PartPath is the worksheet part inside the package.
	PartPath string `json:"part_path"`
	// Index is the 0-based declaration order.
	Index int `json:"index"`
}

// SheetStructure records where a sheet lives in the package.
type SheetStructure struct {
	// SheetPart is the worksheet part path.
	SheetPart string `json:"sheet_part"`
	// Hierarchy is reserved and always empty.
	Hierarchy map[string]any `json:"hierarchy"`
}

// SheetResult is the extracted content of one sheet.
type SheetResult struct {
	Name        string          `json:"name"`
	Visibility  Visibility      `json:"visibility"`
	TextContent []CellText      `json:"text_content"`
	Images      []ImageItem     `json:"images"`
	ShapesText  []ShapeText     `json:"shapes_text"`
	SmartArt    []*SmartArtNode `json:"smartart"`
	Structure   SheetStructure  `json:"structure"`
}

// NewSheetResult returns an empty result for s with all lists allocated.
func NewSheetResult(s Sheet) SheetResult {
	return SheetResult{
		Name:        s.Name,
		Visibility:  s.Visibility,
		TextContent: []CellText{},
		Images:      []ImageItem{},
		ShapesText:  []ShapeText{},
		SmartArt:    []*SmartArtNode{},
		Structure: SheetStructure{
			SheetPart: s.PartPath,
			Hierarchy: map[string]any{},
		},
	}
}

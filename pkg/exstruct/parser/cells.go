package parser

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/xuri/excelize/v2"
)

// CellReader reads the text of every non-empty cell, keyed by sheet name.
type CellReader interface {
	ReadCells(path string) (map[string][]models.CellText, error)
}

// ExcelizeCellReader is the CellReader backed by excelize.
type ExcelizeCellReader struct {
	// IncludeLinks attaches cell hyperlink targets.
	IncludeLinks bool
}

// ReadCells opens the workbook at path and extracts the cell text of every
// sheet. A sheet that fails to read is left out.
func (r ExcelizeCellReader) ReadCells(path string) (map[string][]models.CellText, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := make(map[string][]models.CellText)
	for _, sheetName := range f.GetSheetList() {
		cells, err := ExtractCellText(f, sheetName, r.IncludeLinks)
		if err != nil {
			continue
		}
		result[sheetName] = cells
	}
	return result, nil
}

// ExtractCellText returns the non-empty cells of a sheet in row-major order.
// Cell comments are attached to their cell; a commented cell without a value
// is included with empty text.
func ExtractCellText(f *excelize.File, sheetName string, includeLinks bool) ([]models.CellText, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	comments := cellComments(f, sheetName)

	result := []models.CellText{}
	for rowIdx, row := range rows {
		for colIdx, cellValue := range row {
			text := strings.TrimSpace(cellValue)
			if text == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				continue
			}
			item := models.CellText{Cell: cellName, Text: text}

			if includeLinks {
				hasLink, target, err := f.GetCellHyperLink(sheetName, cellName)
				if err == nil && hasLink && target != "" {
					item.Hyperlink = target
				}
			}
			if c, ok := comments[cellName]; ok {
				item.Comment = c
				delete(comments, cellName)
			}
			result = append(result, item)
		}
	}

	if len(comments) == 0 {
		return result, nil
	}
	for cellName, c := range comments {
		result = append(result, models.CellText{Cell: cellName, Comment: c})
	}
	slices.SortStableFunc(result, func(a, b models.CellText) int {
		ac, ar, _ := excelize.CellNameToCoordinates(a.Cell)
		bc, br, _ := excelize.CellNameToCoordinates(b.Cell)
		if c := cmp.Compare(ar, br); c != 0 {
			return c
		}
		return cmp.Compare(ac, bc)
	})
	return result, nil
}

// cellComments maps cell names to their trimmed comment text. Unreadable
// comment parts yield no comments.
func cellComments(f *excelize.File, sheetName string) map[string]string {
	list, err := f.GetComments(sheetName)
	if err != nil {
		return nil
	}
	comments := make(map[string]string, len(list))
	for _, c := range list {
		var b strings.Builder
		b.WriteString(c.Text)
		for _, run := range c.Paragraph {
			b.WriteString(run.Text)
		}
		if text := strings.TrimSpace(b.String()); text != "" && c.Cell != "" {
			comments[c.Cell] = text
		}
	}
	return comments
}

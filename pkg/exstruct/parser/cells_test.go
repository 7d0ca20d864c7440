package parser_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/parser"
)

// saveAndReopen writes f to a temp file and opens it again so reads go
// through the saved package.
func saveAndReopen(t *testing.T, f *excelize.File, name string) (*excelize.File, string) {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(tmpFile))

	reopened, err := excelize.OpenFile(tmpFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	return reopened, tmpFile
}

func TestExtractCellText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "  Header2  ")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "C3", "Text")
	f.SetCellValue(sheetName, "B3", "   ")

	f2, _ := saveAndReopen(t, f, "test.xlsx")

	cells, err := parser.ExtractCellText(f2, sheetName, false)
	require.NoError(t, err)
	assert.Equal(t, []models.CellText{
		{Cell: "A1", Text: "Header1"},
		{Cell: "B1", Text: "Header2"},
		{Cell: "A2", Text: "100"},
		{Cell: "C3", Text: "Text"},
	}, cells)
}

func TestExtractCellTextComments(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Total")
	f.SetCellValue(sheetName, "C1", "Note")
	require.NoError(t, f.AddComment(sheetName, excelize.Comment{
		Cell:      "A1",
		Author:    "reviewer",
		Paragraph: []excelize.RichTextRun{{Text: "check "}, {Text: "rounding"}},
	}))
	require.NoError(t, f.AddComment(sheetName, excelize.Comment{
		Cell:   "B2",
		Author: "reviewer",
		Text:   "fill in later",
	}))

	f2, _ := saveAndReopen(t, f, "comments.xlsx")

	cells, err := parser.ExtractCellText(f2, sheetName, false)
	require.NoError(t, err)
	assert.Equal(t, []models.CellText{
		{Cell: "A1", Text: "Total", Comment: "check rounding"},
		{Cell: "C1", Text: "Note"},
		{Cell: "B2", Comment: "fill in later"},
	}, cells)
}

func TestExcelizeCellReader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Q1 Sales")
	require.NoError(t, err)
	f.SetCellValue("Sheet1", "A1", "intro")
	f.SetCellValue("Q1 Sales", "B2", "revenue")
	require.NoError(t, f.SetCellHyperLink("Q1 Sales", "B2", "https://example.com/q1", "External"))

	_, tmpFile := saveAndReopen(t, f, "links.xlsx")

	result, err := parser.ExcelizeCellReader{IncludeLinks: true}.ReadCells(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, []models.CellText{
		{Cell: "B2", Text: "revenue", Hyperlink: "https://example.com/q1"},
	}, result["Q1 Sales"])
	assert.Len(t, result["Sheet1"], 1)
}

func TestExcelizeCellReaderMissingFile(t *testing.T) {
	_, err := parser.ExcelizeCellReader{}.ReadCells(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exstruct-md/internal/testutil"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/parser"
)

func TestListSheetsOrder(t *testing.T) {
	parts := testutil.BaseParts()
	parts["xl/workbook.xml"] = testutil.WorkbookXML(
		testutil.Sheet{Name: "Summary", RID: "rId3"},
		testutil.Sheet{Name: "Q1 Sales", RID: "rId1", State: "hidden"},
		testutil.Sheet{Name: "Secret", RID: "rId2", State: "veryHidden"},
	)
	parts["xl/_rels/workbook.xml.rels"] = testutil.RelsXML(
		testutil.Rel{ID: "rId1", Type: testutil.RelTypeWorksheet, Target: "worksheets/sheet1.xml"},
		testutil.Rel{ID: "rId2", Type: testutil.RelTypeWorksheet, Target: "/xl/worksheets/sheet2.xml"},
		testutil.Rel{ID: "rId3", Type: testutil.RelTypeWorksheet, Target: "./worksheets/sheet3.xml"},
	)
	pkg := ooxml.NewPackage(testutil.ZipReader(t, parts))

	sheets, err := parser.ListSheets(pkg, nil)
	require.NoError(t, err)
	require.Len(t, sheets, 3)

	assert.Equal(t, models.Sheet{Name: "Summary", Visibility: models.Visible, PartPath: "xl/worksheets/sheet3.xml", Index: 0}, sheets[0])
	assert.Equal(t, models.Sheet{Name: "Q1 Sales", Visibility: models.Hidden, PartPath: "xl/worksheets/sheet1.xml", Index: 1}, sheets[1])
	assert.Equal(t, models.Sheet{Name: "Secret", Visibility: models.VeryHidden, PartPath: "xl/worksheets/sheet2.xml", Index: 2}, sheets[2])
}

func TestListSheetsSkipsUnmatchedRelationship(t *testing.T) {
	parts := testutil.BaseParts("One", "Two")
	parts["xl/workbook.xml"] = testutil.WorkbookXML(
		testutil.Sheet{Name: "One", RID: "rId1"},
		testutil.Sheet{Name: "Ghost", RID: "rId7"},
		testutil.Sheet{Name: "Two", RID: "rId2"},
	)
	pkg := ooxml.NewPackage(testutil.ZipReader(t, parts))

	sheets, err := parser.ListSheets(pkg, nil)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "One", sheets[0].Name)
	assert.Equal(t, "Two", sheets[1].Name)
	assert.Equal(t, 1, sheets[1].Index)
}

func TestListSheetsCustomWorkbookLocation(t *testing.T) {
	parts := testutil.Parts{
		"_rels/.rels": testutil.RelsXML(testutil.Rel{ID: "rId1", Type: testutil.RelTypeOfficeDocument, Target: "book/main.xml"}),
		"book/main.xml": testutil.WorkbookXML(testutil.Sheet{Name: "Data", RID: "rId1"}),
		"book/_rels/main.xml.rels": testutil.RelsXML(
			testutil.Rel{ID: "rId1", Type: testutil.RelTypeWorksheet, Target: "sheets/data.xml"},
		),
		"book/sheets/data.xml": testutil.WorksheetXML,
	}
	pkg := ooxml.NewPackage(testutil.ZipReader(t, parts))

	assert.Equal(t, "book/main.xml", parser.WorkbookPart(pkg))
	sheets, err := parser.ListSheets(pkg, nil)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "book/sheets/data.xml", sheets[0].PartPath)
}

func TestListSheetsOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		parts    testutil.Parts
		fallback bool
	}{
		{"valid workbook", testutil.BaseParts("Sheet A"), false},
		{"missing workbook", testutil.Parts{"xl/worksheets/sheet1.xml": testutil.WorksheetXML}, true},
		{"malformed workbook", testutil.Parts{"xl/workbook.xml": "<workbook><sheets>"}, true},
		{"missing workbook rels", testutil.Parts{
			"xl/workbook.xml": testutil.WorkbookXML(testutil.Sheet{Name: "A", RID: "rId1"}),
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := ooxml.NewPackage(testutil.ZipReader(t, tt.parts))
			sheets, fallback := parser.ListSheetsOrDefault(pkg, nil)
			assert.Equal(t, tt.fallback, fallback)
			require.NotEmpty(t, sheets)
			if tt.fallback {
				require.Len(t, sheets, 1)
				assert.Equal(t, models.Sheet{
					Name:       parser.DefaultSheetName,
					Visibility: models.Visible,
					PartPath:   parser.DefaultSheetPart,
				}, sheets[0])
			}
		})
	}
}

func TestVisibilityOf(t *testing.T) {
	tests := []struct {
		state    string
		expected models.Visibility
	}{
		{"", models.Visible},
		{"visible", models.Visible},
		{"hidden", models.Hidden},
		{"veryHidden", models.VeryHidden},
		{"VERYHIDDEN", models.Visible},
		{"bogus", models.Visible},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parser.VisibilityOf(tt.state), "VisibilityOf(%q)", tt.state)
	}
}

func TestListDefinedNames(t *testing.T) {
	parts := testutil.BaseParts("Summary", "Data")
	parts["xl/workbook.xml"] = strings.Replace(parts["xl/workbook.xml"], "</sheets></workbook>",
		`</sheets><definedNames>`+
			`<definedName name="TaxRate">Summary!$B$1</definedName>`+
			`<definedName name="_xlnm.Print_Area" localSheetId="1" hidden="1"> Data!$A$1:$D$20 </definedName>`+
			`<definedName name="Orphan" localSheetId="7">#REF!</definedName>`+
			`<definedName>Summary!$A$1</definedName>`+
			`</definedNames></workbook>`, 1)
	pkg := ooxml.NewPackage(testutil.ZipReader(t, parts))

	names, err := parser.ListDefinedNames(pkg)
	require.NoError(t, err)
	assert.Equal(t, []models.DefinedName{
		{Name: "TaxRate", RefersTo: "Summary!$B$1"},
		{Name: "_xlnm.Print_Area", RefersTo: "Data!$A$1:$D$20", Scope: "Data", Hidden: true},
		{Name: "Orphan", RefersTo: "#REF!"},
	}, names)
}

func TestListDefinedNamesNone(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.BaseParts("Only")))

	names, err := parser.ListDefinedNames(pkg)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestListDefinedNamesMalformedWorkbook(t *testing.T) {
	parts := testutil.BaseParts("Only")
	parts["xl/workbook.xml"] = `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><definedNames>`
	pkg := ooxml.NewPackage(testutil.ZipReader(t, parts))

	_, err := parser.ListDefinedNames(pkg)
	require.Error(t, err)
	assert.True(t, ooxml.IsParseError(err))
}

package ooxml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exstruct-md/internal/testutil"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
)

func TestLoadPartNotFound(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.BaseParts("Sheet1")))

	_, err := pkg.LoadPart("xl/drawings/drawing9.xml")
	require.Error(t, err)
	assert.True(t, ooxml.IsPartNotFound(err))
	assert.False(t, ooxml.IsParseError(err))
}

func TestLoadPartParseError(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.Parts{"xl/bad.xml": "<a><b></a>"}))

	_, err := pkg.LoadPart("xl/bad.xml")
	require.Error(t, err)
	assert.True(t, ooxml.IsParseError(err))
	assert.Contains(t, err.Error(), "xl/bad.xml")
}

func TestLoadPartNamespaces(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.Parts{
		"xl/drawings/drawing1.xml": testutil.DrawingXML(
			testutil.TwoCellAnchor(testutil.From("1", "0", "2", "0"), testutil.Shape("Hello", "World")),
		),
	}))

	root, err := pkg.LoadPart("xl/drawings/drawing1.xml")
	require.NoError(t, err)
	assert.True(t, root.Is(ooxml.NSSpreadsheetDrawing, "wsDr"))

	anchors := root.ChildrenNamed(ooxml.NSSpreadsheetDrawing, "twoCellAnchor")
	require.Len(t, anchors, 1)

	sp := anchors[0].Child(ooxml.NSSpreadsheetDrawing, "sp")
	require.NotNil(t, sp)
	assert.Equal(t, []string{"Hello", "World"}, sp.Texts(ooxml.NSDrawing, "t"))

	nv := sp.Find(ooxml.NSSpreadsheetDrawing, "cNvPr")
	require.NotNil(t, nv)
	name, ok := nv.Attr("", "name")
	assert.True(t, ok)
	assert.Equal(t, "TextBox 1", name)
}

func TestHasAndNames(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.Parts{
		"b.xml": "<b/>",
		"a.xml": "<a/>",
	}))

	assert.True(t, pkg.Has("a.xml"))
	assert.False(t, pkg.Has("c.xml"))
	assert.Equal(t, []string{"a.xml", "b.xml"}, pkg.Names())
	assert.NoError(t, pkg.Close())
}

package ooxml_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/exstruct-md/internal/testutil"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		baseDir  string
		target   string
		expected string
	}{
		{"xl/drawings", "../media/image1.png", "xl/media/image1.png"},
		{"xl/drawings", "../charts/chart1.xml", "xl/charts/chart1.xml"},
		{"xl", "worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl", "./worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets", "../drawings/./drawing1.xml", "xl/drawings/drawing1.xml"},
		{"xl/drawings", "/xl/media/image2.jpeg", "xl/media/image2.jpeg"},
		{"xl/a/b", "../../../../media/x.png", "media/x.png"},
		{"", "xl/workbook.xml", "xl/workbook.xml"},
		{".", "docProps/core.xml", "docProps/core.xml"},
	}

	for _, tt := range tests {
		got := ooxml.ResolveTarget(tt.baseDir, tt.target)
		assert.Equal(t, tt.expected, got, "ResolveTarget(%q, %q)", tt.baseDir, tt.target)
	}
}

func TestResolveTargetRoundTrip(t *testing.T) {
	bases := []string{"xl", "xl/drawings", "xl/worksheets/sub", "./xl/diagrams"}
	targets := []string{"../media/a.png", "../../x.xml", "./../b/../c.xml", "../../../d.bin", "e/./f/../g.xml"}

	for _, base := range bases {
		for _, target := range targets {
			resolved := ooxml.ResolveTarget(base, target)
			for _, seg := range strings.Split(resolved, "/") {
				assert.NotEqual(t, "..", seg, "resolve(%q, %q) = %q", base, target, resolved)
				assert.NotEqual(t, ".", seg, "resolve(%q, %q) = %q", base, target, resolved)
			}
			assert.False(t, strings.HasPrefix(resolved, "./"))
			assert.Equal(t, resolved, ooxml.ResolveTarget(resolved, ""), "round trip of %q", resolved)
		}
	}
}

func TestRelsPath(t *testing.T) {
	tests := []struct {
		part     string
		expected string
	}{
		{"xl/workbook.xml", "xl/_rels/workbook.xml.rels"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels"},
		{"xl/drawings/drawing1.xml", "xl/drawings/_rels/drawing1.xml.rels"},
		{"workbook.xml", "_rels/workbook.xml.rels"},
		{"", "_rels/.rels"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ooxml.RelsPath(tt.part), "RelsPath(%q)", tt.part)
	}
}

func TestLoadRelationships(t *testing.T) {
	parts := testutil.Parts{
		"xl/drawings/drawing1.xml": testutil.DrawingXML(),
		"xl/drawings/_rels/drawing1.xml.rels": testutil.RelsXML(
			testutil.Rel{ID: "rId2", Type: testutil.RelTypeImage, Target: "../media/image2.png"},
			testutil.Rel{ID: "rId1", Type: testutil.RelTypeImage, Target: "../media/image1.png"},
			testutil.Rel{ID: "rId3", Type: testutil.RelTypeHyperlink, Target: "https://example.com", External: true},
		),
	}
	pkg := ooxml.NewPackage(testutil.ZipReader(t, parts))

	rels, err := pkg.LoadRelationships("xl/drawings/drawing1.xml")
	require.NoError(t, err)
	require.Equal(t, 3, rels.Len())

	all := rels.All()
	assert.Equal(t, "rId2", all[0].ID, "document order is kept")
	assert.Equal(t, "rId1", all[1].ID)

	r, ok := rels.Get("rId1")
	require.True(t, ok)
	assert.Equal(t, "../media/image1.png", r.Target)
	assert.True(t, r.HasType(ooxml.RelImage))
	assert.Len(t, rels.OfType(ooxml.RelImage), 2)

	resolved, err := rels.Resolve("xl/drawings", "rId1")
	require.NoError(t, err)
	assert.Equal(t, "xl/media/image1.png", resolved)

	_, err = rels.Resolve("xl/drawings", "rId9")
	assert.True(t, errors.Is(err, ooxml.ErrRelationshipNotFound))

	_, err = rels.Resolve("xl/drawings", "rId3")
	assert.True(t, errors.Is(err, ooxml.ErrRelationshipNotFound), "external targets are not package parts")
}

func TestLoadRelationshipsMissingIsEmpty(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.Parts{"xl/workbook.xml": "<workbook/>"}))

	rels, err := pkg.LoadRelationships("xl/worksheets/sheet1.xml")
	require.NoError(t, err)
	assert.Equal(t, 0, rels.Len())
	_, ok := rels.Get("rId1")
	assert.False(t, ok)
}

func TestLoadRelationshipsMalformed(t *testing.T) {
	pkg := ooxml.NewPackage(testutil.ZipReader(t, testutil.Parts{
		"xl/_rels/workbook.xml.rels": `<Relationships><Relationship Id="rId1"`,
	}))

	_, err := pkg.LoadRelationships("xl/workbook.xml")
	require.Error(t, err)
	assert.True(t, ooxml.IsParseError(err))
}

func TestDuplicateRelationshipIDKeepsPosition(t *testing.T) {
	rels := ooxml.NewRelationships(
		ooxml.Relationship{ID: "a", Target: "1"},
		ooxml.Relationship{ID: "b", Target: "2"},
		ooxml.Relationship{ID: "a", Target: "3"},
	)
	all := rels.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "3", all[0].Target)
}

package output

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
)

var (
	slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)
	lower      = cases.Lower(language.Und)
)

// Slug returns the table-of-contents anchor for a sheet name: lowercased,
// every run of characters outside [a-z0-9] collapsed to "-", and leading or
// trailing "-" trimmed.
func Slug(name string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(lower.String(name), "-"), "-")
}

// ToMarkdown renders the result as a Markdown document with a table of
// contents followed by one section per sheet.
func ToMarkdown(result *models.ExtractionResult) string {
	var lines []string
	lines = append(lines, "# Excel to Markdown Conversion")
	lines = append(lines, "Source: "+result.Metadata.Filename)
	lines = append(lines, "")

	lines = append(lines, "## Table of Contents")
	for _, sheet := range result.Sheets {
		lines = append(lines, fmt.Sprintf("- [%s](#%s)", sheet.Name, Slug(sheet.Name)))
	}
	lines = append(lines, "")

	for _, sheet := range result.Sheets {
		lines = append(lines, "## "+sheet.Name)

		if len(sheet.TextContent) > 0 {
			lines = append(lines, "", "### Cell Text")
			for _, c := range sheet.TextContent {
				lines = append(lines, cellLine(c))
			}
		}

		if len(sheet.ShapesText) > 0 {
			lines = append(lines, "", "### Shapes Text")
			for _, s := range sheet.ShapesText {
				lines = append(lines, fmt.Sprintf("- (r%d, c%d): %s", s.Anchor.Row, s.Anchor.Col, s.Text))
			}
		}

		if len(sheet.Images) > 0 {
			lines = append(lines, "", "### Images")
			for _, img := range sheet.Images {
				lines = append(lines, fmt.Sprintf("![Image at r%d c%d](%s)", img.Anchor.Row, img.Anchor.Col, img.ImageFilename))
			}
		}

		if len(sheet.SmartArt) > 0 {
			lines = append(lines, "", "### SmartArt")
			lines = appendOutline(lines, sheet.SmartArt, 0)
		}

		lines = append(lines, "")
	}

	if len(result.DefinedNames) > 0 {
		lines = append(lines, "## Defined Names")
		for _, dn := range result.DefinedNames {
			name := dn.Name
			if dn.Scope != "" {
				name = fmt.Sprintf("%s (%s)", dn.Name, dn.Scope)
			}
			lines = append(lines, fmt.Sprintf("- %s: `%s`", name, dn.RefersTo))
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n") + "\n"
}

func cellLine(c models.CellText) string {
	line := "- " + c.Cell + ":"
	if c.Text != "" {
		line += " " + c.Text
	}
	if c.Comment != "" {
		line += fmt.Sprintf(" (comment: %s)", c.Comment)
	}
	return line
}

// appendOutline renders a SmartArt forest as nested bullets, two spaces per
// level. Nodes without text show their id.
func appendOutline(lines []string, nodes []*models.SmartArtNode, depth int) []string {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		text := strings.TrimSpace(n.Text)
		if text == "" {
			text = fmt.Sprintf("(id: %s)", n.ID)
		}
		lines = append(lines, indent+"- "+text)
		lines = appendOutline(lines, n.Children, depth+1)
	}
	return lines
}

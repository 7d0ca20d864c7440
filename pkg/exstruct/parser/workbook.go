// Package parser reads workbook topology, drawings, SmartArt data models and
// cell text out of .xlsx packages.
package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
)

// Conventional part locations used when the package does not say otherwise.
const (
	DefaultWorkbookPart  = "xl/workbook.xml"
	DefaultSheetPart     = "xl/worksheets/sheet1.xml"
	DefaultSheetName     = "Sheet1"
	unnamedSheetFallback = "Sheet"
)

// sheetDecl is one <sheet> entry of workbook.xml.
type sheetDecl struct {
	name  string
	rID   string
	state string
}

// WorkbookPart locates the workbook part through the package relationships,
// falling back to xl/workbook.xml.
func WorkbookPart(pkg *ooxml.Package) string {
	rels, err := pkg.LoadRelationships("")
	if err != nil {
		return DefaultWorkbookPart
	}
	for _, r := range rels.OfType(ooxml.RelOfficeDocument) {
		if r.IsExternal() {
			continue
		}
		if p := ooxml.ResolveTarget("", r.Target); pkg.Has(p) {
			return p
		}
	}
	return DefaultWorkbookPart
}

// ListSheets returns the sheets in workbook-declared order, each resolved
// to its worksheet part. Sheets whose relationship id is unknown are skipped.
func ListSheets(pkg *ooxml.Package, logger *slog.Logger) ([]models.Sheet, error) {
	logger = orDefault(logger)
	wbPart := WorkbookPart(pkg)

	data, err := pkg.ReadPart(wbPart)
	if err != nil {
		return nil, err
	}
	decls, err := parseWorkbookSheets(data)
	if err != nil {
		return nil, &ooxml.XMLParseError{Part: wbPart, Err: err}
	}

	rels, err := pkg.LoadRelationships(wbPart)
	if err != nil {
		return nil, err
	}
	if !pkg.Has(ooxml.RelsPath(wbPart)) {
		return nil, fmt.Errorf("%w: %s", ooxml.ErrPartNotFound, ooxml.RelsPath(wbPart))
	}

	baseDir := path.Dir(wbPart)
	sheets := make([]models.Sheet, 0, len(decls))
	for _, d := range decls {
		rel, ok := rels.Get(d.rID)
		if !ok || !rel.HasType(ooxml.RelWorksheet) || rel.IsExternal() {
			logger.Debug("sheet has no worksheet relationship",
				slog.String("sheet", d.name), slog.String("rel_id", d.rID))
			continue
		}
		sheets = append(sheets, models.Sheet{
			Name:       d.name,
			Visibility: VisibilityOf(d.state),
			PartPath:   ooxml.ResolveTarget(baseDir, rel.Target),
			Index:      len(sheets),
		})
	}
	return sheets, nil
}

// ListSheetsOrDefault is ListSheets with the degraded single-sheet outcome:
// when the workbook part or its relationships cannot be read, the package is
// treated as one visible sheet "Sheet1" at xl/worksheets/sheet1.xml. The
// second return value reports whether the fallback was used.
func ListSheetsOrDefault(pkg *ooxml.Package, logger *slog.Logger) ([]models.Sheet, bool) {
	logger = orDefault(logger)
	sheets, err := ListSheets(pkg, logger)
	if err == nil {
		return sheets, false
	}
	logger.Warn("workbook topology unreadable, assuming a single sheet",
		slog.String("error", err.Error()))
	return []models.Sheet{{
		Name:       DefaultSheetName,
		Visibility: models.Visible,
		PartPath:   DefaultSheetPart,
		Index:      0,
	}}, true
}

// VisibilityOf maps a sheet state attribute to a Visibility. Absent or
// unknown states are visible.
func VisibilityOf(state string) models.Visibility {
	switch models.Visibility(state) {
	case models.Hidden:
		return models.Hidden
	case models.VeryHidden:
		return models.VeryHidden
	default:
		return models.Visible
	}
}

// parseWorkbookSheets walks workbook.xml and collects <sheet> entries in
// document order.
func parseWorkbookSheets(data []byte) ([]sheetDecl, error) {
	var result []sheetDecl
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" || se.Name.Space != ooxml.NSSpreadsheet {
			continue
		}
		d := sheetDecl{name: unnamedSheetFallback}
		for _, attr := range se.Attr {
			switch {
			case attr.Name.Local == "name" && attr.Name.Space == "":
				d.name = attr.Value
			case attr.Name.Local == "state" && attr.Name.Space == "":
				d.state = attr.Value
			case attr.Name.Local == "id" && attr.Name.Space == ooxml.NSRelationships:
				d.rID = attr.Value
			}
		}
		if d.rID != "" {
			result = append(result, d)
		}
	}

	return result, nil
}

// ListDefinedNames returns the defined names of the workbook in declaration
// order. A localSheetId scope is resolved to the name of the sheet declared
// at that position; an out-of-range id leaves the name workbook-wide.
func ListDefinedNames(pkg *ooxml.Package) ([]models.DefinedName, error) {
	wbPart := WorkbookPart(pkg)
	data, err := pkg.ReadPart(wbPart)
	if err != nil {
		return nil, err
	}
	names, err := parseDefinedNames(data)
	if err != nil {
		return nil, &ooxml.XMLParseError{Part: wbPart, Err: err}
	}
	return names, nil
}

func parseDefinedNames(data []byte) ([]models.DefinedName, error) {
	names := []models.DefinedName{}
	var sheetNames []string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Space != ooxml.NSSpreadsheet {
			continue
		}
		switch se.Name.Local {
		case "sheet":
			name := unnamedSheetFallback
			for _, attr := range se.Attr {
				if attr.Name.Local == "name" && attr.Name.Space == "" {
					name = attr.Value
				}
			}
			sheetNames = append(sheetNames, name)
		case "definedName":
			var body struct {
				Text string `xml:",chardata"`
			}
			if err := decoder.DecodeElement(&body, &se); err != nil {
				return nil, err
			}
			dn := models.DefinedName{RefersTo: strings.TrimSpace(body.Text)}
			localSheetID := -1
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					dn.Name = attr.Value
				case "hidden":
					dn.Hidden = attr.Value == "1" || attr.Value == "true"
				case "localSheetId":
					if id, err := strconv.Atoi(attr.Value); err == nil {
						localSheetID = id
					}
				}
			}
			if dn.Name == "" {
				continue
			}
			if localSheetID >= 0 && localSheetID < len(sheetNames) {
				dn.Scope = sheetNames[localSheetID]
			}
			names = append(names, dn)
		}
	}

	return names, nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

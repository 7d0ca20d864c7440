package exstruct

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/parser"
)

// Extract extracts structured data from an Excel file. Only a missing input
// or an unreadable archive fails the call; everything else that goes wrong
// is recorded in the Report and left out of the result.
func Extract(filePath string, opts Options) (*models.ExtractionResult, *Report, error) {
	logger := opts.logger().With(slog.String("input", filepath.Base(filePath)))

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInputNotFound, filePath)
		}
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, filePath)
	}

	pkg, err := ooxml.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer pkg.Close()

	report := &Report{}
	result := models.NewExtractionResult(filepath.Base(filePath), opts.now().UTC().Format(time.RFC3339))

	id, err := workbookID(filePath)
	if err != nil {
		logger.Warn("workbook checksum failed", slog.String("error", err.Error()))
	} else {
		result.Metadata.WorkbookID = id
	}

	cells, err := opts.cellReader().ReadCells(filePath)
	if err != nil {
		logger.Warn("cell text unavailable", slog.String("error", err.Error()))
		report.skip(NewExtractionError("", "cells", "", err))
		cells = nil
	}

	sheets, fallback := parser.ListSheetsOrDefault(pkg, logger)
	report.FallbackUsed = fallback
	if !fallback {
		names, err := parser.ListDefinedNames(pkg)
		if err != nil {
			logger.Warn("defined names unavailable", slog.String("error", err.Error()))
			report.skip(NewExtractionError("", "defined_names", parser.WorkbookPart(pkg), err))
		} else {
			result.DefinedNames = names
		}
	}

	x := &extraction{
		pkg:    pkg,
		logger: logger,
		report: report,
		result: result,
		drawings: &parser.DrawingExtractor{
			Pkg:    pkg,
			Sink:   opts.Media,
			Logger: logger,
		},
	}

	seenLinks := make(map[string]bool)
	for _, sheet := range sheets {
		if opts.SkipHidden && sheet.Visibility != models.Visible {
			logger.Info("skipping hidden sheet", slog.String("sheet", sheet.Name))
			report.HiddenSheets = append(report.HiddenSheets, sheet.Name)
			continue
		}

		sr := models.NewSheetResult(sheet)
		if c := cells[sheet.Name]; c != nil {
			sr.TextContent = c
		}
		x.sheet(sheet, &sr)

		if opts.IncludeLinks {
			for _, c := range sr.TextContent {
				if c.Hyperlink != "" && !seenLinks[c.Hyperlink] {
					seenLinks[c.Hyperlink] = true
					result.Links = append(result.Links, c.Hyperlink)
				}
			}
		}

		result.Metadata.Sheets = append(result.Metadata.Sheets, sheet.Name)
		result.Sheets = append(result.Sheets, sr)
	}

	logger.Info("extraction finished",
		slog.Int("sheets", len(result.Sheets)),
		slog.Int("images", len(result.Images)),
		slog.Int("smartart", len(result.SmartArt)),
		slog.Int("defined_names", len(result.DefinedNames)),
		slog.Int("skipped", len(report.Skipped)))

	return result, report, nil
}

// extraction carries the state of one Extract call.
type extraction struct {
	pkg      *ooxml.Package
	logger   *slog.Logger
	report   *Report
	result   *models.ExtractionResult
	drawings *parser.DrawingExtractor
}

func (x *extraction) skip(sheetName, component, part string, err error) {
	x.logger.Warn("skipping unit",
		slog.String("sheet", sheetName),
		slog.String("component", component),
		slog.String("part", part),
		slog.String("error", err.Error()))
	x.report.skip(NewExtractionError(sheetName, component, part, err))
}

// sheet merges the drawings of one sheet into sr and the document rollups.
func (x *extraction) sheet(sheet models.Sheet, sr *models.SheetResult) {
	rels, err := x.pkg.LoadRelationships(sheet.PartPath)
	if err != nil {
		x.skip(sheet.Name, "relationships", ooxml.RelsPath(sheet.PartPath), err)
		return
	}

	baseDir := path.Dir(sheet.PartPath)
	for _, rel := range rels.OfType(ooxml.RelDrawing) {
		if rel.IsExternal() {
			continue
		}
		drawingPart := ooxml.ResolveTarget(baseDir, rel.Target)
		if !x.pkg.Has(drawingPart) {
			x.logger.Debug("drawing part missing",
				slog.String("sheet", sheet.Name), slog.String("part", drawingPart))
			continue
		}
		x.drawing(sheet.Name, drawingPart, sr)
	}
}

func (x *extraction) drawing(sheetName, drawingPart string, sr *models.SheetResult) {
	drawingRels, err := x.pkg.LoadRelationships(drawingPart)
	if err != nil {
		x.skip(sheetName, "relationships", ooxml.RelsPath(drawingPart), err)
		return
	}

	content, err := x.drawings.Extract(drawingPart, sheetName, drawingRels)
	if err != nil {
		x.skip(sheetName, "drawing", drawingPart, err)
		return
	}
	for _, s := range content.Skipped {
		x.skip(sheetName, s.Component, s.Part, s.Err)
	}

	sr.Images = append(sr.Images, content.Images...)
	x.result.Images = append(x.result.Images, content.Images...)
	sr.ShapesText = append(sr.ShapesText, content.Shapes...)

	for _, ref := range content.Diagrams {
		if !x.pkg.Has(ref.PartPath) {
			x.logger.Debug("diagram part missing",
				slog.String("sheet", sheetName), slog.String("part", ref.PartPath))
			continue
		}
		forest, err := parser.BuildSmartArt(x.pkg, ref.PartPath, x.logger)
		if err != nil {
			x.skip(sheetName, "diagram", ref.PartPath, err)
			continue
		}
		sr.SmartArt = append(sr.SmartArt, forest...)
		x.result.SmartArt = append(x.result.SmartArt, forest...)
	}
}

// workbookID returns "sha256:<hex>" of the file contents.
func workbookID(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), nil
}

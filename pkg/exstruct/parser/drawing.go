package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
)

// diagramRelKeys are the dgm:relIds attributes followed, data model first.
var diagramRelKeys = []string{"dm", "lo", "qs", "cs"}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// MediaSink stores media copied out of the package.
type MediaSink interface {
	// Save writes r under name and returns the stored path relative to the
	// output directory, using forward slashes.
	Save(name string, r io.Reader) (string, error)
}

// Skipped records content left out of the result and why.
type Skipped struct {
	// Component is "image", "drawing", "diagram" or "relationships".
	Component string
	// Part is the package part involved.
	Part string
	// Err is the cause.
	Err error
}

// DrawingContent is everything extracted from one drawing part.
type DrawingContent struct {
	Images   []models.ImageItem
	Shapes   []models.ShapeText
	Diagrams []models.DiagramRef
	Skipped  []Skipped
}

// DrawingExtractor walks drawing parts of one package. Image names are
// unique across every Extract call made on the same extractor.
type DrawingExtractor struct {
	Pkg    *ooxml.Package
	Sink   MediaSink
	Logger *slog.Logger

	saved map[string]bool
}

// Extract walks the anchors of drawingPart, all two-cell anchors first and
// then all one-cell anchors, and classifies each anchor's content as a
// picture, a shape with text or a SmartArt frame. rels must be the
// relationship set owned by drawingPart.
func (e *DrawingExtractor) Extract(drawingPart, sheetName string, rels *ooxml.Relationships) (*DrawingContent, error) {
	logger := orDefault(e.Logger).With(slog.String("drawing", drawingPart))

	root, err := e.Pkg.LoadPart(drawingPart)
	if err != nil {
		return nil, err
	}

	baseDir := path.Dir(drawingPart)
	content := &DrawingContent{
		Images:   []models.ImageItem{},
		Shapes:   []models.ShapeText{},
		Diagrams: []models.DiagramRef{},
	}

	var anchors []*ooxml.Node
	anchors = append(anchors, root.ChildrenNamed(ooxml.NSSpreadsheetDrawing, "twoCellAnchor")...)
	anchors = append(anchors, root.ChildrenNamed(ooxml.NSSpreadsheetDrawing, "oneCellAnchor")...)

	imageCounter := 0
	for _, anchor := range anchors {
		pos := ReadAnchor(anchor)

		if pic := anchor.Child(ooxml.NSSpreadsheetDrawing, "pic"); pic != nil {
			item, skip := e.extractPicture(pic, pos, baseDir, sheetName, rels, imageCounter+1, logger)
			if item != nil {
				imageCounter++
				content.Images = append(content.Images, *item)
			}
			if skip != nil {
				content.Skipped = append(content.Skipped, *skip)
			}
			continue
		}

		if sp := anchor.Child(ooxml.NSSpreadsheetDrawing, "sp"); sp != nil {
			if text := ShapeTextOf(sp); text != "" {
				content.Shapes = append(content.Shapes, models.ShapeText{
					SheetName: sheetName,
					Text:      text,
					Anchor:    pos,
				})
			}
			continue
		}

		if frame := anchor.Child(ooxml.NSSpreadsheetDrawing, "graphicFrame"); frame != nil {
			refs, hasData := diagramRefs(frame, pos, baseDir, rels)
			if len(refs) > 0 && !hasData {
				logger.Debug("diagram frame has no data model relationship",
					slog.Int("row", pos.Row), slog.Int("col", pos.Col))
			}
			content.Diagrams = append(content.Diagrams, refs...)
			continue
		}
	}

	logger.Debug("drawing extracted",
		slog.Int("images", len(content.Images)),
		slog.Int("shapes", len(content.Shapes)),
		slog.Int("diagrams", len(content.Diagrams)))

	return content, nil
}

// extractPicture copies the picture's media part through the sink. A
// missing relationship or media part yields neither an item nor a skip.
func (e *DrawingExtractor) extractPicture(pic *ooxml.Node, pos models.Anchor, baseDir, sheetName string, rels *ooxml.Relationships, seq int, logger *slog.Logger) (*models.ImageItem, *Skipped) {
	blip := pic.Find(ooxml.NSDrawing, "blip")
	if blip == nil {
		return nil, nil
	}
	rid, _ := blip.Attr(ooxml.NSRelationships, "embed")
	if rid == "" {
		return nil, nil
	}
	mediaPart, err := rels.Resolve(baseDir, rid)
	if err != nil {
		logger.Debug("picture relationship unresolved", slog.String("rel_id", rid))
		return nil, nil
	}
	if !e.Pkg.Has(mediaPart) {
		logger.Debug("picture media part missing", slog.String("part", mediaPart))
		return nil, nil
	}

	name := ImageFilename(sheetName, seq, mediaPart)
	if unique := e.uniqueName(name); unique != name {
		logger.Debug("image name taken", slog.String("name", name), slog.String("renamed", unique))
		name = unique
	}
	saved, err := e.copyMedia(mediaPart, name)
	if err != nil {
		return nil, &Skipped{Component: "image", Part: mediaPart, Err: err}
	}
	if e.saved == nil {
		e.saved = make(map[string]bool)
	}
	e.saved[name] = true
	return &models.ImageItem{
		SheetName:     sheetName,
		ImageFilename: saved,
		OriginalPart:  mediaPart,
		Anchor:        pos,
	}, nil
}

// uniqueName returns name, or "<stem>-<k><ext>" with the smallest k >= 2
// that is still free when name was already written.
func (e *DrawingExtractor) uniqueName(name string) string {
	if !e.saved[name] {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for k := 2; ; k++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, k, ext)
		if !e.saved[candidate] {
			return candidate
		}
	}
}

func (e *DrawingExtractor) copyMedia(part, name string) (string, error) {
	if e.Sink == nil {
		return "", fmt.Errorf("no media sink configured")
	}
	rc, err := e.Pkg.Open(part)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return e.Sink.Save(name, rc)
}

// diagramRefs returns one reference per SmartArt relationship id present
// on the frame and known to rels. Duplicates are kept. hasData reports
// whether any of them is typed as a diagram data model.
func diagramRefs(frame *ooxml.Node, pos models.Anchor, baseDir string, rels *ooxml.Relationships) (refs []models.DiagramRef, hasData bool) {
	gdata := frame.Find(ooxml.NSDrawing, "graphicData")
	if gdata == nil {
		return nil, false
	}
	uri, _ := gdata.Attr("", "uri")
	if !strings.HasSuffix(uri, "/diagram") {
		return nil, false
	}
	relIDs := gdata.Child(ooxml.NSDiagram, "relIds")
	if relIDs == nil {
		return nil, false
	}

	for _, key := range diagramRelKeys {
		rid, _ := relIDs.Attr(ooxml.NSRelationships, key)
		if rid == "" {
			continue
		}
		target, err := rels.Resolve(baseDir, rid)
		if err != nil {
			continue
		}
		if rel, _ := rels.Get(rid); rel.HasType(ooxml.RelDiagramData) {
			hasData = true
		}
		refs = append(refs, models.DiagramRef{Anchor: pos, RelID: rid, PartPath: target})
	}
	return refs, hasData
}

// ReadAnchor reads the xdr:from position of an anchor. Missing or
// non-numeric fields are 0.
func ReadAnchor(anchor *ooxml.Node) models.Anchor {
	from := anchor.Child(ooxml.NSSpreadsheetDrawing, "from")
	if from == nil {
		return models.Anchor{}
	}
	field := func(name string) int {
		n := from.Child(ooxml.NSSpreadsheetDrawing, name)
		if n == nil {
			return 0
		}
		v, err := strconv.Atoi(strings.TrimSpace(n.Content))
		if err != nil {
			return 0
		}
		return v
	}
	return models.Anchor{
		Col:    field("col"),
		ColOff: field("colOff"),
		Row:    field("row"),
		RowOff: field("rowOff"),
	}
}

// ShapeTextOf joins the a:t runs under the shape's text body.
func ShapeTextOf(sp *ooxml.Node) string {
	body := sp.Child(ooxml.NSSpreadsheetDrawing, "txBody")
	if body == nil {
		return ""
	}
	return JoinTexts(body.Texts(ooxml.NSDrawing, "t"))
}

// JoinTexts trims each piece, drops empty ones and joins the rest with
// single spaces.
func JoinTexts(pieces []string) string {
	kept := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// SanitizeName replaces every run of characters outside [A-Za-z0-9_-]
// with a single underscore.
func SanitizeName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// ImageFilename builds "<sheet>_img_<seq><ext>" keeping the media part's
// extension, or ".bin" when it has none.
func ImageFilename(sheetName string, seq int, mediaPart string) string {
	ext := path.Ext(mediaPart)
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s_img_%d%s", SanitizeName(sheetName), seq, ext)
}

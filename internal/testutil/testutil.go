// Package testutil builds in-memory OOXML packages for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Full relationship type URIs as written by Excel.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	RelTypeDrawing        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeDiagramData    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/diagramData"
	RelTypeDiagramLayout  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/diagramLayout"
	RelTypeChart          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
)

// Parts maps archive member names to their content.
type Parts map[string]string

// ZipBytes serialises parts into a zip archive with members in name order.
func ZipBytes(t *testing.T, parts Parts) []byte {
	t.Helper()
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(parts[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// ZipReader returns a zip.Reader over parts.
func ZipReader(t *testing.T, parts Parts) *zip.Reader {
	t.Helper()
	data := ZipBytes(t, parts)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip reader: %v", err)
	}
	return zr
}

// WriteZip writes parts as an archive named name inside dir and returns its path.
func WriteZip(t *testing.T, dir, name string, parts Parts) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, ZipBytes(t, parts), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// Sheet declares a <sheet> entry of workbook.xml.
type Sheet struct {
	Name  string
	RID   string
	State string
}

// WorkbookXML renders xl/workbook.xml declaring sheets in order.
func WorkbookXML(sheets ...Sheet) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets>`)
	for i, s := range sheets {
		state := ""
		if s.State != "" {
			state = fmt.Sprintf(` state="%s"`, s.State)
		}
		fmt.Fprintf(&b, `<sheet name="%s" sheetId="%d"%s r:id="%s"/>`, xmlEscape(s.Name), i+1, state, s.RID)
	}
	b.WriteString(`</sheets></workbook>`)
	return b.String()
}

// Rel declares one relationship.
type Rel struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// RelsXML renders a relationships part.
func RelsXML(rels ...Rel) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		mode := ""
		if r.External {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"%s/>`, r.ID, r.Type, xmlEscape(r.Target), mode)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// WorksheetXML is a minimal worksheet body.
const WorksheetXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData/></worksheet>`

// From renders an xdr:from element. Empty strings omit the child element.
func From(col, colOff, row, rowOff string) string {
	var b strings.Builder
	b.WriteString(`<xdr:from>`)
	for _, kv := range [][2]string{{"col", col}, {"colOff", colOff}, {"row", row}, {"rowOff", rowOff}} {
		if kv[1] == "" {
			continue
		}
		fmt.Fprintf(&b, `<xdr:%s>%s</xdr:%s>`, kv[0], kv[1], kv[0])
	}
	b.WriteString(`</xdr:from>`)
	return b.String()
}

// TwoCellAnchor wraps content in an xdr:twoCellAnchor.
func TwoCellAnchor(from, content string) string {
	return `<xdr:twoCellAnchor>` + from + `<xdr:to><xdr:col>5</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>5</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>` + content + `<xdr:clientData/></xdr:twoCellAnchor>`
}

// OneCellAnchor wraps content in an xdr:oneCellAnchor.
func OneCellAnchor(from, content string) string {
	return `<xdr:oneCellAnchor>` + from + `<xdr:ext cx="100" cy="100"/>` + content + `<xdr:clientData/></xdr:oneCellAnchor>`
}

// Pic renders an xdr:pic embedding the image relationship rid.
func Pic(rid string) string {
	return `<xdr:pic><xdr:nvPicPr><xdr:cNvPr id="2" name="Picture 1"/><xdr:cNvPicPr/></xdr:nvPicPr>` +
		`<xdr:blipFill><a:blip r:embed="` + rid + `"/><a:stretch><a:fillRect/></a:stretch></xdr:blipFill>` +
		`<xdr:spPr><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></xdr:spPr></xdr:pic>`
}

// Shape renders an xdr:sp whose text body holds one run per entry.
func Shape(runs ...string) string {
	var b strings.Builder
	b.WriteString(`<xdr:sp><xdr:nvSpPr><xdr:cNvPr id="3" name="TextBox 1"/><xdr:cNvSpPr txBox="1"/></xdr:nvSpPr><xdr:spPr/>`)
	b.WriteString(`<xdr:txBody><a:bodyPr/><a:lstStyle/><a:p>`)
	for _, r := range runs {
		fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US"/><a:t xml:space="preserve">%s</a:t></a:r>`, xmlEscape(r))
	}
	b.WriteString(`</a:p></xdr:txBody></xdr:sp>`)
	return b.String()
}

// DiagramFrame renders a graphic frame referencing SmartArt parts. Empty
// ids are omitted.
func DiagramFrame(dm, lo, qs, cs string) string {
	attrs := ""
	for _, kv := range [][2]string{{"dm", dm}, {"lo", lo}, {"qs", qs}, {"cs", cs}} {
		if kv[1] != "" {
			attrs += fmt.Sprintf(` r:%s="%s"`, kv[0], kv[1])
		}
	}
	return `<xdr:graphicFrame macro=""><xdr:nvGraphicFramePr><xdr:cNvPr id="4" name="Diagram 1"/><xdr:cNvGraphicFramePr/></xdr:nvGraphicFramePr>` +
		`<xdr:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/></xdr:xfrm>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/diagram">` +
		`<dgm:relIds xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram"` + attrs + `/>` +
		`</a:graphicData></a:graphic></xdr:graphicFrame>`
}

// ChartFrame renders a graphic frame referencing a chart part.
func ChartFrame(rid string) string {
	return `<xdr:graphicFrame macro=""><xdr:nvGraphicFramePr><xdr:cNvPr id="5" name="Chart 1"/><xdr:cNvGraphicFramePr/></xdr:nvGraphicFramePr>` +
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">` +
		`<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="` + rid + `"/>` +
		`</a:graphicData></a:graphic></xdr:graphicFrame>`
}

// DrawingXML wraps anchors in an xdr:wsDr root.
func DrawingXML(anchors ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		strings.Join(anchors, "") + `</xdr:wsDr>`
}

// Point declares a SmartArt data-model point.
type Point struct {
	ModelID string
	Text    string
	Name    string
}

// Cxn declares a SmartArt connection.
type Cxn struct {
	Src  string
	Dest string
}

// DataModelXML renders a dgm:dataModel part.
func DataModelXML(points []Point, cxns []Cxn) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<dgm:dataModel xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><dgm:ptLst>`)
	for _, p := range points {
		id := ""
		if p.ModelID != "" {
			id = fmt.Sprintf(` modelId="%s"`, p.ModelID)
		}
		fmt.Fprintf(&b, `<dgm:pt%s>`, id)
		if p.Name != "" {
			fmt.Fprintf(&b, `<dgm:prSet name="%s"/>`, xmlEscape(p.Name))
		} else {
			b.WriteString(`<dgm:prSet/>`)
		}
		b.WriteString(`<dgm:spPr/>`)
		if p.Text != "" {
			fmt.Fprintf(&b, `<dgm:t><a:bodyPr/><a:p><a:r><a:t>%s</a:t></a:r></a:p></dgm:t>`, xmlEscape(p.Text))
		}
		b.WriteString(`</dgm:pt>`)
	}
	b.WriteString(`</dgm:ptLst><dgm:cxnLst>`)
	for i, c := range cxns {
		fmt.Fprintf(&b, `<dgm:cxn modelId="c%d" srcId="%s" destId="%s" srcOrd="%d" destOrd="0"/>`, i, c.Src, c.Dest, i)
	}
	b.WriteString(`</dgm:cxnLst><dgm:bg/><dgm:whole/></dgm:dataModel>`)
	return b.String()
}

// BaseParts returns the package skeleton declaring sheets, each mapped to
// xl/worksheets/sheet<N>.xml via rId<N>.
func BaseParts(sheetNames ...string) Parts {
	parts := Parts{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"_rels/.rels":         RelsXML(Rel{ID: "rId1", Type: RelTypeOfficeDocument, Target: "xl/workbook.xml"}),
	}
	var sheets []Sheet
	var rels []Rel
	for i, name := range sheetNames {
		rid := fmt.Sprintf("rId%d", i+1)
		target := fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		sheets = append(sheets, Sheet{Name: name, RID: rid})
		rels = append(rels, Rel{ID: rid, Type: RelTypeWorksheet, Target: target})
		parts["xl/"+target] = WorksheetXML
	}
	parts["xl/workbook.xml"] = WorkbookXML(sheets...)
	parts["xl/_rels/workbook.xml.rels"] = RelsXML(rels...)
	return parts
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

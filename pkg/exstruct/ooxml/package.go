// Package ooxml reads the parts of an Open Packaging Conventions archive and
// resolves the relationships between them.
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// XML namespaces used across SpreadsheetML and DrawingML parts.
const (
	NSSpreadsheet        = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NSRelationships      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSPackageRels        = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSSpreadsheetDrawing = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	NSDrawing            = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSDiagram            = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
)

// Package is a read-only view over an OOXML zip archive.
type Package struct {
	zr     *zip.Reader
	closer io.Closer
	files  map[string]*zip.File
	names  []string
}

// Open opens the archive at path.
func Open(path string) (*Package, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	p := NewPackage(&rc.Reader)
	p.closer = rc
	return p, nil
}

// NewPackage wraps an already opened zip reader. Close is a no-op for
// packages created this way.
func NewPackage(zr *zip.Reader) *Package {
	p := &Package{
		zr:    zr,
		files: make(map[string]*zip.File, len(zr.File)),
		names: make([]string, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		if _, dup := p.files[f.Name]; dup {
			continue
		}
		p.files[f.Name] = f
		p.names = append(p.names, f.Name)
	}
	return p
}

// Close releases the underlying archive handle.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	return err
}

// Has reports whether the archive contains a member named path.
func (p *Package) Has(path string) bool {
	_, ok := p.files[path]
	return ok
}

// Names returns member names in archive order.
func (p *Package) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Open returns a reader for the member named path.
func (p *Package) Open(path string) (io.ReadCloser, error) {
	f, ok := p.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, path)
	}
	return f.Open()
}

// ReadPart returns the raw bytes of a member.
func (p *Package) ReadPart(path string) ([]byte, error) {
	rc, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// LoadPart reads and parses an XML member into a Node tree.
func (p *Package) LoadPart(path string) (*Node, error) {
	data, err := p.ReadPart(path)
	if err != nil {
		return nil, err
	}
	root := &Node{}
	if err := decodeXML(data, root); err != nil {
		return nil, &XMLParseError{Part: path, Err: err}
	}
	return root, nil
}

// decodeXML unmarshals data into v, accepting non UTF-8 encodings declared
// in the XML prolog.
func decodeXML(data []byte, v any) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(v)
}

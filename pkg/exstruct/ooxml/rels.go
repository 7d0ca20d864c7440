package ooxml

import (
	"fmt"
	"path"
	"strings"
)

// Relationship type suffixes. Matching by suffix accepts both the
// transitional and the strict (purl.oclc.org) namespace URIs.
const (
	RelOfficeDocument = "/officeDocument"
	RelWorksheet      = "/worksheet"
	RelDrawing        = "/drawing"
	RelImage          = "/image"
	RelDiagramData    = "/diagramData"
)

// TargetModeExternal marks a relationship pointing outside the package.
const TargetModeExternal = "External"

// Relationship is a typed pointer from one part to another.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
}

// IsExternal reports whether the target lives outside the package.
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, TargetModeExternal)
}

// HasType reports whether the relationship type ends with suffix.
func (r Relationship) HasType(suffix string) bool {
	return strings.HasSuffix(r.Type, suffix)
}

// Relationships is the relationship set owned by a single part, kept in
// document order.
type Relationships struct {
	order []string
	byID  map[string]Relationship
}

// NewRelationships builds a set from rels. A repeated id replaces the
// earlier entry but keeps its position.
func NewRelationships(rels ...Relationship) *Relationships {
	s := &Relationships{byID: make(map[string]Relationship, len(rels))}
	for _, r := range rels {
		s.add(r)
	}
	return s
}

func (s *Relationships) add(r Relationship) {
	if _, ok := s.byID[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.byID[r.ID] = r
}

// Get looks up a relationship by id.
func (s *Relationships) Get(id string) (Relationship, bool) {
	if s == nil {
		return Relationship{}, false
	}
	r, ok := s.byID[id]
	return r, ok
}

// Len returns the number of relationships.
func (s *Relationships) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns every relationship in document order.
func (s *Relationships) All() []Relationship {
	if s == nil {
		return nil
	}
	out := make([]Relationship, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// OfType returns relationships whose type ends with suffix, in document order.
func (s *Relationships) OfType(suffix string) []Relationship {
	var out []Relationship
	for _, r := range s.All() {
		if r.HasType(suffix) {
			out = append(out, r)
		}
	}
	return out
}

type relationshipsXML struct {
	Relationship []struct {
		ID         string `xml:"Id,attr"`
		Type       string `xml:"Type,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// RelsPath returns the relationship part owned by part, e.g.
// xl/drawings/drawing1.xml -> xl/drawings/_rels/drawing1.xml.rels.
// An empty part names the package itself.
func RelsPath(part string) string {
	part = strings.TrimPrefix(part, "/")
	if part == "" {
		return "_rels/.rels"
	}
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// LoadRelationships loads the relationship set owned by part. A missing
// rels part means the part has no relationships and is not an error.
func (p *Package) LoadRelationships(part string) (*Relationships, error) {
	relsPath := RelsPath(part)
	if !p.Has(relsPath) {
		return NewRelationships(), nil
	}
	data, err := p.ReadPart(relsPath)
	if err != nil {
		return nil, err
	}
	var raw relationshipsXML
	if err := decodeXML(data, &raw); err != nil {
		return nil, &XMLParseError{Part: relsPath, Err: err}
	}
	set := NewRelationships()
	for _, r := range raw.Relationship {
		if r.ID == "" {
			continue
		}
		set.add(Relationship{ID: r.ID, Type: r.Type, Target: r.Target, TargetMode: r.TargetMode})
	}
	return set, nil
}

// ResolveTarget joins a relationship target onto the directory of its
// owning part using POSIX semantics. The result never contains "." or ".."
// segments and has no leading "./" or "/". Targets starting with "/" are
// package-absolute. Segments escaping the package root are dropped.
func ResolveTarget(baseDir, target string) string {
	var joined string
	if strings.HasPrefix(target, "/") {
		joined = path.Clean(target)
	} else {
		joined = path.Clean(path.Join("/", baseDir, target))
	}
	// Cleaning a rooted path already discards ".." above the root.
	joined = strings.TrimPrefix(joined, "/")
	return joined
}

// Resolve maps a relationship id to an absolute package path relative to
// baseDir, the directory of the owning part.
func (s *Relationships) Resolve(baseDir, id string) (string, error) {
	r, ok := s.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRelationshipNotFound, id)
	}
	if r.IsExternal() {
		return "", fmt.Errorf("%w: %s targets external %s", ErrRelationshipNotFound, id, r.Target)
	}
	return ResolveTarget(baseDir, r.Target), nil
}

package ooxml

import "encoding/xml"

// Node is a namespace-resolved XML element with its attributes, direct
// character data and child elements.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

// Is reports whether the element has the given namespace and local name.
func (n *Node) Is(space, local string) bool {
	return n != nil && n.XMLName.Space == space && n.XMLName.Local == local
}

// Attr returns the value of an attribute. Unprefixed attributes have an
// empty space.
func (n *Node) Attr(space, local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Space == space && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given name.
func (n *Node) Child(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(space, local) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children with the given name.
func (n *Node) ChildrenNamed(space, local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Is(space, local) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant with the given name in document order.
func (n *Node) Find(space, local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(space, local) {
			return c
		}
		if found := c.Find(space, local); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant with the given name in document order,
// including matches nested inside other matches.
func (n *Node) FindAll(space, local string) []*Node {
	var out []*Node
	n.walk(func(c *Node) {
		if c.Is(space, local) {
			out = append(out, c)
		}
	})
	return out
}

// Texts returns the character data of every descendant with the given name.
func (n *Node) Texts(space, local string) []string {
	var out []string
	for _, c := range n.FindAll(space, local) {
		out = append(out, c.Content)
	}
	return out
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		fn(c)
		c.walk(fn)
	}
}

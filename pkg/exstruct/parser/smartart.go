package parser

import (
	"log/slog"

	"github.com/ukaji3/exstruct-md/pkg/exstruct/models"
	"github.com/ukaji3/exstruct-md/pkg/exstruct/ooxml"
)

// MaxSmartArtNodes caps the nodes emitted for one diagram. Shared children
// are expanded under every parent, so a dense edge list can otherwise grow
// exponentially.
const MaxSmartArtNodes = 10000

// smartArtGraph is the point and connection list of one data model.
type smartArtGraph struct {
	ids      []string
	texts    map[string]string
	children map[string][]string
	indegree map[string]int
}

// BuildSmartArt parses a diagram data-model part into a forest.
func BuildSmartArt(pkg *ooxml.Package, dataModelPart string, logger *slog.Logger) ([]*models.SmartArtNode, error) {
	root, err := pkg.LoadPart(dataModelPart)
	if err != nil {
		return nil, err
	}
	logger = orDefault(logger).With(slog.String("diagram", dataModelPart))
	return BuildSmartArtFromNode(root, logger), nil
}

// BuildSmartArtFromNode builds the forest of a parsed data model. Roots are
// the points nobody connects to, in point order. When every point has an
// incoming connection each point becomes a childless root.
func BuildSmartArtFromNode(root *ooxml.Node, logger *slog.Logger) []*models.SmartArtNode {
	logger = orDefault(logger)
	g := readSmartArtGraph(root)

	var roots []string
	for _, id := range g.ids {
		if g.indegree[id] == 0 {
			roots = append(roots, id)
		}
	}

	forest := make([]*models.SmartArtNode, 0, len(g.ids))
	if len(roots) == 0 {
		for _, id := range g.ids {
			forest = append(forest, g.node(id))
		}
		return forest
	}

	budget := MaxSmartArtNodes
	for _, id := range roots {
		forest = append(forest, g.buildTree(id, &budget, logger))
	}
	return forest
}

func readSmartArtGraph(root *ooxml.Node) *smartArtGraph {
	g := &smartArtGraph{
		texts:    make(map[string]string),
		children: make(map[string][]string),
		indegree: make(map[string]int),
	}

	for _, pt := range root.FindAll(ooxml.NSDiagram, "pt") {
		id, _ := pt.Attr("", "modelId")
		if id == "" {
			continue
		}
		text := JoinTexts(pt.Texts(ooxml.NSDrawing, "t"))
		if text == "" {
			if name, ok := pt.Child(ooxml.NSDiagram, "prSet").Attr("", "name"); ok {
				text = name
			}
		}
		if _, seen := g.texts[id]; !seen {
			g.ids = append(g.ids, id)
		}
		g.texts[id] = text
	}

	for _, cxn := range root.FindAll(ooxml.NSDiagram, "cxn") {
		src, _ := cxn.Attr("", "srcId")
		dst, _ := cxn.Attr("", "destId")
		if src == "" || dst == "" {
			continue
		}
		g.children[src] = append(g.children[src], dst)
		g.indegree[dst]++
	}

	return g
}

func (g *smartArtGraph) node(id string) *models.SmartArtNode {
	return &models.SmartArtNode{ID: id, Text: g.texts[id], Children: []*models.SmartArtNode{}}
}

// buildTree expands rootID depth-first without recursion. A child already
// on the path from the root is a back edge and is dropped, so cyclic
// connection lists terminate.
func (g *smartArtGraph) buildTree(rootID string, budget *int, logger *slog.Logger) *models.SmartArtNode {
	type frame struct {
		node *models.SmartArtNode
		next int
	}

	root := g.node(rootID)
	*budget--
	stack := []frame{{node: root}}
	onPath := map[string]bool{rootID: true}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		kids := g.children[top.node.ID]
		if top.next >= len(kids) {
			delete(onPath, top.node.ID)
			stack = stack[:len(stack)-1]
			continue
		}
		childID := kids[top.next]
		top.next++

		if onPath[childID] {
			logger.Debug("smartart cycle truncated",
				slog.String("from", top.node.ID), slog.String("to", childID))
			continue
		}
		if *budget <= 0 {
			logger.Warn("smartart node limit reached", slog.Int("limit", MaxSmartArtNodes))
			return root
		}

		child := g.node(childID)
		*budget--
		top.node.Children = append(top.node.Children, child)
		onPath[childID] = true
		stack = append(stack, frame{node: child})
	}

	return root
}

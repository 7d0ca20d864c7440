package models

// SmartArtNode is one node of a SmartArt forest.
type SmartArtNode struct {
	// ID is the data-model point id.
	ID string `json:"id"`
	// Text is the point text, or its property-set name when it has none.
	Text string `json:"text"`
	// Children are the nodes connected from this one, in connection order.
	Children []*SmartArtNode `json:"children"`
}

// DiagramRef points from a drawing anchor to a SmartArt part.
type DiagramRef struct {
	// Anchor is the graphic frame position.
	Anchor Anchor `json:"anchor"`
	// RelID is the relationship id on the drawing part.
	RelID string `json:"rel_id"`
	// PartPath is the resolved diagram part.
	PartPath string `json:"part_path"`
}

package valueobjects

import (
	"fmt"
	"strings"
)

// NodeType is the role of a node in the knowledge graph.
type NodeType string

const (
	// NodeTypeCenter is the single "you" node.
	NodeTypeCenter NodeType = "center"
	// NodeTypePrimary is a category.
	NodeTypePrimary NodeType = "primary"
	// NodeTypeSub is a course.
	NodeTypeSub NodeType = "sub"
)

// IsValid checks if the node type is known
func (t NodeType) IsValid() bool {
	switch t {
	case NodeTypeCenter, NodeTypePrimary, NodeTypeSub:
		return true
	}
	return false
}

func (t NodeType) String() string {
	return string(t)
}

// ParseNodeType parses a node type case-insensitively.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

// CenterNodeID is the id of the center node.
const CenterNodeID = "center"

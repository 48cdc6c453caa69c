package entities

import (
	"strings"

	"fillai-backend/domain/core/valueobjects"
	pkgerrors "fillai-backend/pkg/errors"
)

// NodeStyle carries the visual attributes clients draw with.
type NodeStyle struct {
	Radius    float64
	Color     string
	GlowColor string
}

// Node is a particle in the knowledge graph: the user, a category or a course.
type Node struct {
	id       string
	label    string
	nodeType valueobjects.NodeType
	parentID string
	position valueobjects.Position
	velocity valueobjects.Velocity
	style    NodeStyle
}

// NewNode creates a node at rest.
func NewNode(
	id, label string,
	nodeType valueobjects.NodeType,
	position valueobjects.Position,
	style NodeStyle,
	parentID string,
) (*Node, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.NewValidationError("node id cannot be empty")
	}
	if !nodeType.IsValid() {
		return nil, pkgerrors.NewValidationError("invalid node type: " + string(nodeType))
	}
	if style.Radius <= 0 {
		return nil, pkgerrors.NewValidationError("node radius must be positive")
	}
	if nodeType == valueobjects.NodeTypeSub && parentID == "" {
		return nil, pkgerrors.NewValidationError("sub node " + id + " must belong to a category")
	}
	if nodeType != valueobjects.NodeTypeSub {
		parentID = ""
	}

	return &Node{
		id:       id,
		label:    label,
		nodeType: nodeType,
		parentID: parentID,
		position: position,
		velocity: valueobjects.ZeroVelocity(),
		style:    style,
	}, nil
}

func (n *Node) ID() string                      { return n.id }
func (n *Node) Label() string                   { return n.label }
func (n *Node) Type() valueobjects.NodeType     { return n.nodeType }
func (n *Node) ParentID() string                { return n.parentID }
func (n *Node) Position() valueobjects.Position { return n.position }
func (n *Node) Velocity() valueobjects.Velocity { return n.velocity }
func (n *Node) Style() NodeStyle                { return n.style }

// IsCenter reports whether this is the "you" node.
func (n *Node) IsCenter() bool {
	return n.nodeType == valueobjects.NodeTypeCenter
}

// Rename changes the display label.
func (n *Node) Rename(label string) {
	n.label = label
}

// MoveTo places the node at p without touching its velocity.
func (n *Node) MoveTo(p valueobjects.Position) {
	n.position = p
}

// MoveBy shifts the node by a pointer delta and stops it.
func (n *Node) MoveBy(dx, dy float64) {
	n.position = n.position.Translate(dx, dy)
	n.velocity = valueobjects.ZeroVelocity()
}

// SetVelocity replaces the velocity.
func (n *Node) SetVelocity(v valueobjects.Velocity) {
	n.velocity = v
}

// Accelerate adds to the velocity.
func (n *Node) Accelerate(dvx, dvy float64) {
	n.velocity = n.velocity.Add(dvx, dvy)
}

// Integrate advances the position by velocity × dt.
func (n *Node) Integrate(dt float64) {
	n.position = n.position.Translate(n.velocity.VX()*dt, n.velocity.VY()*dt)
}

// Damp scales the velocity down and snaps tiny components to zero.
func (n *Node) Damp(factor, eps float64) {
	n.velocity = n.velocity.Scale(factor).SnapBelow(eps)
}

// Pin fixes the node at p with zero velocity.
func (n *Node) Pin(p valueobjects.Position) {
	n.position = p
	n.velocity = valueobjects.ZeroVelocity()
}

// Clone returns an independent copy.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

package entities

import (
	"fmt"

	pkgerrors "fillai-backend/pkg/errors"
)

// Link strengths used by the graph builder.
const (
	CenterLinkStrength = 1.0
	CourseLinkStrength = 0.8
)

// Link is a spring between two nodes.
type Link struct {
	id       string
	source   string
	target   string
	strength float64
}

// NewLink validates and creates a link. Endpoints are not checked against
// any node set; the engine skips links whose endpoints are missing.
func NewLink(id, source, target string, strength float64) (*Link, error) {
	if id == "" || source == "" || target == "" {
		return nil, pkgerrors.NewValidationError("link id, source and target are required")
	}
	if source == target {
		return nil, pkgerrors.NewValidationError("link cannot connect a node to itself")
	}
	if strength <= 0 || strength > 1 {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("link strength must be in (0, 1], got %v", strength))
	}
	return &Link{id: id, source: source, target: target, strength: strength}, nil
}

// LinkID formats the conventional "{source}-{target}" id.
func LinkID(source, target string) string {
	return source + "-" + target
}

func (l *Link) ID() string        { return l.id }
func (l *Link) Source() string    { return l.source }
func (l *Link) Target() string    { return l.target }
func (l *Link) Strength() float64 { return l.strength }

// Touches reports whether the link has id as an endpoint.
func (l *Link) Touches(id string) bool {
	return l.source == id || l.target == id
}

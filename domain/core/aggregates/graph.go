package aggregates

import (
	"fmt"
	"sort"
	"time"

	"fillai-backend/domain/config"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
	"fillai-backend/domain/events"
	pkgerrors "fillai-backend/pkg/errors"
)

// DefaultGraphID names the single graph of the single user.
const DefaultGraphID = "default"

// NodePatch is a partial node update. Nil fields are left alone.
type NodePatch struct {
	Label *string
	X     *float64
	Y     *float64
	VX    *float64
	VY    *float64
}

// Graph owns the nodes, links and interaction state of the knowledge graph.
// It is not safe for concurrent use; callers serialise access.
type Graph struct {
	id   string
	mode config.LayoutMode

	nodes     []*entities.Node
	nodeIndex map[string]int
	links     []*entities.Link
	linkIndex map[string]struct{}

	selectedNodeID string
	dragNodeID     string
	expanded       map[string]bool
	cursor         *valueobjects.Position

	version uint64
	events  []events.DomainEvent
}

// NewGraph creates an empty graph.
func NewGraph(id string, mode config.LayoutMode) *Graph {
	if id == "" {
		id = DefaultGraphID
	}
	if !mode.IsValid() {
		mode = config.LayoutRadial
	}
	return &Graph{
		id:        id,
		mode:      mode,
		nodeIndex: make(map[string]int),
		linkIndex: make(map[string]struct{}),
		expanded:  make(map[string]bool),
	}
}

func (g *Graph) ID() string                { return g.id }
func (g *Graph) Mode() config.LayoutMode   { return g.mode }
func (g *Graph) Version() uint64           { return g.version }
func (g *Graph) SelectedNodeID() string    { return g.selectedNodeID }
func (g *Graph) DragNodeID() string        { return g.dragNodeID }
func (g *Graph) IsDragging() bool          { return g.dragNodeID != "" }
func (g *Graph) NodeCount() int            { return len(g.nodes) }
func (g *Graph) LinkCount() int            { return len(g.links) }
func (g *Graph) HasNode(id string) bool    { _, ok := g.nodeIndex[id]; return ok }
func (g *Graph) IsExpanded(id string) bool { return g.expanded[id] }

// Touch marks the graph as changed. The simulation calls it after a tick.
func (g *Graph) Touch() {
	g.version++
}

// AddNode appends a node. Duplicate ids and a second center are rejected.
func (g *Graph) AddNode(n *entities.Node) error {
	if n == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if g.HasNode(n.ID()) {
		return pkgerrors.NewConflictError(fmt.Sprintf("node %s already exists", n.ID()))
	}
	if n.IsCenter() && g.Center() != nil {
		return pkgerrors.NewConflictError("graph already has a center node")
	}
	g.nodeIndex[n.ID()] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.version++
	return nil
}

// AddLink appends a link. Endpoints may be missing.
func (g *Graph) AddLink(l *entities.Link) error {
	if l == nil {
		return pkgerrors.NewValidationError("link cannot be nil")
	}
	if _, ok := g.linkIndex[l.ID()]; ok {
		return pkgerrors.NewConflictError(fmt.Sprintf("link %s already exists", l.ID()))
	}
	g.linkIndex[l.ID()] = struct{}{}
	g.links = append(g.links, l)
	g.version++
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*entities.Node, error) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node " + id)
	}
	return g.nodes[i], nil
}

// Center returns the center node, or nil.
func (g *Graph) Center() *entities.Node {
	if i, ok := g.nodeIndex[valueobjects.CenterNodeID]; ok && g.nodes[i].IsCenter() {
		return g.nodes[i]
	}
	for _, n := range g.nodes {
		if n.IsCenter() {
			return n
		}
	}
	return nil
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*entities.Node {
	out := make([]*entities.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Links returns every link.
func (g *Graph) Links() []*entities.Link {
	out := make([]*entities.Link, len(g.links))
	copy(out, g.links)
	return out
}

// UpdateNode applies a partial update.
func (g *Graph) UpdateNode(id string, patch NodePatch) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if patch.Label != nil {
		n.Rename(*patch.Label)
	}
	if patch.X != nil || patch.Y != nil {
		x, y := n.Position().X(), n.Position().Y()
		if patch.X != nil {
			x = *patch.X
		}
		if patch.Y != nil {
			y = *patch.Y
		}
		p, err := valueobjects.NewPosition(x, y)
		if err != nil {
			return err
		}
		n.MoveTo(p)
	}
	if patch.VX != nil || patch.VY != nil {
		vx, vy := n.Velocity().VX(), n.Velocity().VY()
		if patch.VX != nil {
			vx = *patch.VX
		}
		if patch.VY != nil {
			vy = *patch.VY
		}
		n.SetVelocity(valueobjects.NewVelocity(vx, vy))
	}
	g.version++
	return nil
}

// SelectNode selects id, or clears the selection when id is empty.
func (g *Graph) SelectNode(id string) error {
	if id != "" {
		n, err := g.Node(id)
		if err != nil {
			return err
		}
		if !g.IsVisible(n) {
			return pkgerrors.NewValidationError("node " + id + " is hidden")
		}
	}
	if g.selectedNodeID == id {
		return nil
	}
	g.selectedNodeID = id
	g.version++
	g.addEvent(events.NewNodeSelected(g.id, id, time.Now()))
	return nil
}

// StartDrag begins dragging id. The center node cannot be dragged.
func (g *Graph) StartDrag(id string) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if n.IsCenter() {
		return pkgerrors.NewValidationError("the center node cannot be dragged")
	}
	if !g.IsVisible(n) {
		return pkgerrors.NewValidationError("node " + id + " is hidden")
	}
	g.dragNodeID = id
	n.SetVelocity(valueobjects.ZeroVelocity())
	g.version++
	return nil
}

// DragBy moves the dragged node by a pointer delta.
func (g *Graph) DragBy(id string, dx, dy float64) error {
	if g.dragNodeID == "" || g.dragNodeID != id {
		return pkgerrors.NewConflictError("node " + id + " is not being dragged")
	}
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.MoveBy(dx, dy)
	g.version++
	return nil
}

// StopDrag ends the current drag and returns the released node id.
func (g *Graph) StopDrag() string {
	id := g.dragNodeID
	if id == "" {
		return ""
	}
	g.dragNodeID = ""
	g.version++
	if n, err := g.Node(id); err == nil {
		g.addEvent(events.NewNodeDragged(g.id, id, n.Position().X(), n.Position().Y(), time.Now()))
	}
	return id
}

// ToggleCategory flips the expansion of a category and returns the new state.
func (g *Graph) ToggleCategory(id string) (bool, error) {
	if g.expanded[id] {
		return false, g.CollapseCategory(id)
	}
	return true, g.ExpandCategory(id)
}

// ExpandCategory shows the courses of a category.
func (g *Graph) ExpandCategory(id string) error {
	if err := g.requireCategory(id); err != nil {
		return err
	}
	if g.expanded[id] {
		return nil
	}
	g.expanded[id] = true
	g.version++
	g.addEvent(events.NewCategoryToggled(g.id, id, true, time.Now()))
	return nil
}

// CollapseCategory hides the courses of a category. A hidden selection is
// cleared and a hidden drag is stopped.
func (g *Graph) CollapseCategory(id string) error {
	if err := g.requireCategory(id); err != nil {
		return err
	}
	if !g.expanded[id] {
		return nil
	}
	delete(g.expanded, id)
	if n, err := g.Node(g.selectedNodeID); err == nil && n.ParentID() == id {
		g.selectedNodeID = ""
	}
	if n, err := g.Node(g.dragNodeID); err == nil && n.ParentID() == id {
		g.dragNodeID = ""
	}
	g.version++
	g.addEvent(events.NewCategoryToggled(g.id, id, false, time.Now()))
	return nil
}

// ExpandedCategories lists expanded category ids in sorted order.
func (g *Graph) ExpandedCategories() []string {
	out := make([]string, 0, len(g.expanded))
	for id := range g.expanded {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) requireCategory(id string) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	if n.Type() != valueobjects.NodeTypePrimary {
		return pkgerrors.NewValidationError("node " + id + " is not a category")
	}
	return nil
}

// IsVisible reports whether a node is shown. Courses are shown only while
// their category is expanded.
func (g *Graph) IsVisible(n *entities.Node) bool {
	if n.Type() != valueobjects.NodeTypeSub {
		return true
	}
	return g.expanded[n.ParentID()]
}

// VisibleNodes returns the nodes currently shown, in insertion order.
func (g *Graph) VisibleNodes() []*entities.Node {
	out := make([]*entities.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if g.IsVisible(n) {
			out = append(out, n)
		}
	}
	return out
}

// VisibleLinks returns the links whose endpoints are both shown.
func (g *Graph) VisibleLinks() []*entities.Link {
	out := make([]*entities.Link, 0, len(g.links))
	for _, l := range g.links {
		src, err1 := g.Node(l.Source())
		dst, err2 := g.Node(l.Target())
		if err1 != nil || err2 != nil {
			continue
		}
		if g.IsVisible(src) && g.IsVisible(dst) {
			out = append(out, l)
		}
	}
	return out
}

// SetCursor records the pointer position in graph space.
func (g *Graph) SetCursor(p valueobjects.Position) {
	g.cursor = &p
}

// ClearCursor forgets the pointer, e.g. when it leaves the canvas.
func (g *Graph) ClearCursor() {
	g.cursor = nil
}

// Cursor returns the last pointer position.
func (g *Graph) Cursor() (valueobjects.Position, bool) {
	if g.cursor == nil {
		return valueobjects.Position{}, false
	}
	return *g.cursor, true
}

// Positions returns the current position of every node.
func (g *Graph) Positions() map[string]valueobjects.Position {
	out := make(map[string]valueobjects.Position, len(g.nodes))
	for _, n := range g.nodes {
		out[n.ID()] = n.Position()
	}
	return out
}

// RestorePositions moves known nodes to saved positions and returns how
// many were applied. The center stays where it is.
func (g *Graph) RestorePositions(saved map[string]valueobjects.Position) int {
	applied := 0
	for id, p := range saved {
		n, err := g.Node(id)
		if err != nil || n.IsCenter() {
			continue
		}
		n.Pin(p)
		applied++
	}
	if applied > 0 {
		g.version++
	}
	return applied
}

// AdoptInteractionState carries selection, expansion, an ongoing drag and
// the cursor over from the graph this one replaces, dropping anything that
// no longer exists. The dragged node stays where the pointer left it.
func (g *Graph) AdoptInteractionState(prev *Graph) {
	if prev == nil {
		return
	}
	for id := range prev.expanded {
		if n, err := g.Node(id); err == nil && n.Type() == valueobjects.NodeTypePrimary {
			g.expanded[id] = true
		}
	}
	if n, err := g.Node(prev.selectedNodeID); err == nil && g.IsVisible(n) {
		g.selectedNodeID = n.ID()
	}
	if held, err := prev.Node(prev.dragNodeID); err == nil {
		if n, err := g.Node(held.ID()); err == nil && !n.IsCenter() && g.IsVisible(n) {
			g.dragNodeID = n.ID()
			n.Pin(held.Position())
		}
	}
	g.cursor = prev.cursor
	g.Supersede(prev)
}

// Supersede moves g's version past prev's so observers see a change.
func (g *Graph) Supersede(prev *Graph) {
	if prev != nil && prev.version >= g.version {
		g.version = prev.version + 1
	}
}

// MarkRegenerated records that the graph was rebuilt.
func (g *Graph) MarkRegenerated() {
	g.addEvent(events.NewGraphRegenerated(g.id, len(g.nodes), len(g.links), string(g.mode), time.Now()))
}

// Validate checks the structural invariants: one center, every category
// reachable from it, every course owned by an existing category.
func (g *Graph) Validate() error {
	centers := 0
	for _, n := range g.nodes {
		if n.IsCenter() {
			centers++
		}
	}
	if centers != 1 {
		return pkgerrors.NewValidationError(fmt.Sprintf("graph must have exactly one center node, found %d", centers))
	}

	reached := g.reachableFrom(g.Center().ID())
	for _, n := range g.nodes {
		switch n.Type() {
		case valueobjects.NodeTypePrimary:
			if !reached[n.ID()] {
				return pkgerrors.NewValidationError("category " + n.ID() + " is not connected to the center")
			}
		case valueobjects.NodeTypeSub:
			parent, err := g.Node(n.ParentID())
			if err != nil || parent.Type() != valueobjects.NodeTypePrimary {
				return pkgerrors.NewValidationError("course " + n.ID() + " does not belong to a category")
			}
		}
	}
	return nil
}

func (g *Graph) reachableFrom(start string) map[string]bool {
	adjacent := make(map[string][]string)
	for _, l := range g.links {
		if !g.HasNode(l.Source()) || !g.HasNode(l.Target()) {
			continue
		}
		adjacent[l.Source()] = append(adjacent[l.Source()], l.Target())
		adjacent[l.Target()] = append(adjacent[l.Target()], l.Source())
	}

	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func (g *Graph) addEvent(e events.DomainEvent) {
	g.events = append(g.events, e)
}

// GetUncommittedEvents returns events raised since the last commit.
func (g *Graph) GetUncommittedEvents() []events.DomainEvent {
	return g.events
}

// MarkEventsAsCommitted clears recorded events.
func (g *Graph) MarkEventsAsCommitted() {
	g.events = nil
}

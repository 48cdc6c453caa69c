package services

import (
	"math"
	"unicode/utf8"

	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
)

// Node styles by type.
var (
	CenterStyle   = entities.NodeStyle{Radius: 60, Color: "#252525", GlowColor: "rgba(37, 37, 37, 0.4)"}
	CategoryStyle = entities.NodeStyle{Radius: 44, Color: "#22252b", GlowColor: "rgba(120, 174, 255, 0.35)"}
	CourseStyle   = entities.NodeStyle{Radius: 30, Color: "#30333a", GlowColor: "rgba(144, 238, 144, 0.35)"}
)

// LayoutBuilder derives the knowledge graph from the catalog.
type LayoutBuilder struct {
	cfg config.LayoutConfig
}

// NewLayoutBuilder creates a builder. A zero config falls back to defaults.
func NewLayoutBuilder(cfg config.LayoutConfig) *LayoutBuilder {
	if cfg == (config.LayoutConfig{}) {
		cfg = config.DefaultLayoutConfig()
	}
	return &LayoutBuilder{cfg: cfg}
}

// BuildGraph creates a graph with a center node, one node per category that
// has courses, and one node per course. Categories without courses are left
// out.
func (b *LayoutBuilder) BuildGraph(categories []*entities.Category, mode config.LayoutMode) (*aggregates.Graph, error) {
	if !mode.IsValid() {
		mode = b.cfg.Mode
	}
	g := aggregates.NewGraph(aggregates.DefaultGraphID, mode)

	center, err := entities.NewNode(valueobjects.CenterNodeID, b.cfg.CenterLabel, valueobjects.NodeTypeCenter, valueobjects.Origin(), CenterStyle, "")
	if err != nil {
		return nil, err
	}
	if err := g.AddNode(center); err != nil {
		return nil, err
	}

	visible := make([]*entities.Category, 0, len(categories))
	for _, c := range categories {
		if c != nil && c.HasCourses() {
			visible = append(visible, c)
		}
	}

	for i, cat := range visible {
		catPos, coursePositions := b.place(mode, i, len(visible), len(cat.Courses))

		catNode, err := entities.NewNode(cat.ID, cat.Label, valueobjects.NodeTypePrimary, catPos, CategoryStyle, "")
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(catNode); err != nil {
			return nil, err
		}
		if err := addLink(g, valueobjects.CenterNodeID, cat.ID, entities.CenterLinkStrength); err != nil {
			return nil, err
		}

		for j, course := range cat.Courses {
			node, err := entities.NewNode(course.ID, TruncateLabel(course.Title, b.cfg.MaxLabelLength), valueobjects.NodeTypeSub, coursePositions[j], CourseStyle, cat.ID)
			if err != nil {
				return nil, err
			}
			if err := g.AddNode(node); err != nil {
				return nil, err
			}
			if err := addLink(g, cat.ID, course.ID, entities.CourseLinkStrength); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// place returns the position of category i of n and of its courses.
func (b *LayoutBuilder) place(mode config.LayoutMode, i, n, courses int) (valueobjects.Position, []valueobjects.Position) {
	out := make([]valueobjects.Position, courses)

	if mode == config.LayoutTree {
		catY := float64(i)*b.cfg.TreeCategorySpacing - float64(n-1)*b.cfg.TreeCategorySpacing/2
		startY := catY - float64(courses-1)*b.cfg.TreeCourseSpacing/2
		for j := range out {
			out[j] = pos(b.cfg.TreeCourseX, startY+float64(j)*b.cfg.TreeCourseSpacing)
		}
		return pos(b.cfg.TreeCategoryX, catY), out
	}

	angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
	catPos := pos(b.cfg.CategoryRadius*math.Cos(angle), b.cfg.CategoryRadius*math.Sin(angle))
	for j := range out {
		a := angle + (float64(j)-float64(courses-1)/2)*b.cfg.CourseSpread
		out[j] = catPos.Translate(b.cfg.CourseDistance*math.Cos(a), b.cfg.CourseDistance*math.Sin(a))
	}
	return catPos, out
}

// CenterPositions recomputes the initial positions of every node in g for
// its mode, so the graph snaps back around the center.
func (b *LayoutBuilder) CenterPositions(g *aggregates.Graph) {
	var cats []*entities.Node
	courses := make(map[string][]*entities.Node)
	for _, n := range g.Nodes() {
		switch n.Type() {
		case valueobjects.NodeTypeCenter:
			n.Pin(valueobjects.Origin())
		case valueobjects.NodeTypePrimary:
			cats = append(cats, n)
		case valueobjects.NodeTypeSub:
			courses[n.ParentID()] = append(courses[n.ParentID()], n)
		}
	}
	for i, cat := range cats {
		catPos, coursePos := b.place(g.Mode(), i, len(cats), len(courses[cat.ID()]))
		cat.Pin(catPos)
		for j, c := range courses[cat.ID()] {
			c.Pin(coursePos[j])
		}
	}
	g.Touch()
}

// TruncateLabel shortens s to max runes followed by "...".
func TruncateLabel(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

func addLink(g *aggregates.Graph, source, target string, strength float64) error {
	l, err := entities.NewLink(entities.LinkID(source, target), source, target, strength)
	if err != nil {
		return err
	}
	return g.AddLink(l)
}

// pos builds a position from computed coordinates, which are always finite.
func pos(x, y float64) valueobjects.Position {
	p, _ := valueobjects.NewPosition(x, y)
	return p
}

package entities

import (
	"strings"
	"unicode"
)

// UncategorizedName is used when a course arrives without a category.
const UncategorizedName = "Uncategorized"

// Category is a primary node in the graph. Its ID is the slug of its label.
type Category struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Courses []*Course `json:"courses"`
}

// Slugify lowercases name and replaces each whitespace run with "-".
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(name)), unicode.IsSpace)
	return strings.Join(fields, "-")
}

// HasCourses reports whether the category would show up in the graph.
func (c *Category) HasCourses() bool {
	return len(c.Courses) > 0
}

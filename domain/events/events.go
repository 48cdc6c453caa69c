package events

import "time"

// SourceBackend is the EventBridge source for events raised by this service.
const SourceBackend = "fillai.backend"

// Event type names.
const (
	TypeCourseAdded      = "course.added"
	TypeCourseShared     = "course.shared"
	TypeCourseRemoved    = "course.removed"
	TypeGraphRegenerated = "graph.regenerated"
	TypeNodeSelected     = "graph.node_selected"
	TypeNodeDragged      = "graph.node_dragged"
	TypeCategoryToggled  = "graph.category_toggled"
	TypeLessonCompleted  = "progress.lesson_completed"
)

// DomainEvent is something that has already happened.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func base(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{AggregateID: aggregateID, EventType: eventType, Timestamp: at}
}

// CourseAdded is raised when a course enters the catalog.
type CourseAdded struct {
	BaseEvent
	CourseID   string `json:"course_id"`
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Generated  bool   `json:"generated"`
	Fallback   bool   `json:"fallback"`
}

func NewCourseAdded(courseID, categoryID, title string, generated, fallback bool, at time.Time) CourseAdded {
	return CourseAdded{
		BaseEvent:  base(courseID, TypeCourseAdded, at),
		CourseID:   courseID,
		CategoryID: categoryID,
		Title:      title,
		Generated:  generated,
		Fallback:   fallback,
	}
}

// CourseShared is raised the first time a course is published to the community.
type CourseShared struct {
	BaseEvent
	CourseID string `json:"course_id"`
}

func NewCourseShared(courseID string, at time.Time) CourseShared {
	return CourseShared{BaseEvent: base(courseID, TypeCourseShared, at), CourseID: courseID}
}

// CourseRemoved is raised when a course leaves the catalog.
type CourseRemoved struct {
	BaseEvent
	CourseID   string `json:"course_id"`
	CategoryID string `json:"category_id"`
}

func NewCourseRemoved(courseID, categoryID string, at time.Time) CourseRemoved {
	return CourseRemoved{BaseEvent: base(courseID, TypeCourseRemoved, at), CourseID: courseID, CategoryID: categoryID}
}

// GraphRegenerated is raised when nodes and links are rebuilt from the catalog.
type GraphRegenerated struct {
	BaseEvent
	NodeCount int    `json:"node_count"`
	LinkCount int    `json:"link_count"`
	Mode      string `json:"mode"`
}

func NewGraphRegenerated(graphID string, nodes, links int, mode string, at time.Time) GraphRegenerated {
	return GraphRegenerated{
		BaseEvent: base(graphID, TypeGraphRegenerated, at),
		NodeCount: nodes,
		LinkCount: links,
		Mode:      mode,
	}
}

// NodeSelected is raised when the selection changes. NodeID is empty on clear.
type NodeSelected struct {
	BaseEvent
	NodeID string `json:"node_id"`
}

func NewNodeSelected(graphID, nodeID string, at time.Time) NodeSelected {
	return NodeSelected{BaseEvent: base(graphID, TypeNodeSelected, at), NodeID: nodeID}
}

// NodeDragged is raised when a drag ends.
type NodeDragged struct {
	BaseEvent
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func NewNodeDragged(graphID, nodeID string, x, y float64, at time.Time) NodeDragged {
	return NodeDragged{BaseEvent: base(graphID, TypeNodeDragged, at), NodeID: nodeID, X: x, Y: y}
}

// CategoryToggled is raised when a category is expanded or collapsed.
type CategoryToggled struct {
	BaseEvent
	CategoryID string `json:"category_id"`
	Expanded   bool   `json:"expanded"`
}

func NewCategoryToggled(graphID, categoryID string, expanded bool, at time.Time) CategoryToggled {
	return CategoryToggled{
		BaseEvent:  base(graphID, TypeCategoryToggled, at),
		CategoryID: categoryID,
		Expanded:   expanded,
	}
}

// LessonCompleted is raised when a lesson is marked complete.
type LessonCompleted struct {
	BaseEvent
	CourseID  string `json:"course_id"`
	LessonKey string `json:"lesson_key"`
	Progress  int    `json:"progress"`
}

func NewLessonCompleted(courseID, lessonKey string, progress int, at time.Time) LessonCompleted {
	return LessonCompleted{
		BaseEvent: base(courseID, TypeLessonCompleted, at),
		CourseID:  courseID,
		LessonKey: lessonKey,
		Progress:  progress,
	}
}

package ports

// FrameNode is a node as clients draw it.
type FrameNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Type      string  `json:"type"`
	ParentID  string  `json:"parentId,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VX        float64 `json:"vx"`
	VY        float64 `json:"vy"`
	Radius    float64 `json:"radius"`
	Color     string  `json:"color"`
	GlowColor string  `json:"glowColor"`
	Glow      float64 `json:"glow"`
	Selected  bool    `json:"selected,omitempty"`
	Dragging  bool    `json:"dragging,omitempty"`
	Expanded  bool    `json:"expanded,omitempty"`
}

// FrameLink is a visible link.
type FrameLink struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Strength float64 `json:"strength"`
}

// Frame is a snapshot of the visible graph after a tick.
type Frame struct {
	Tick               uint64      `json:"tick"`
	Version            uint64      `json:"version"`
	Mode               string      `json:"mode"`
	Nodes              []FrameNode `json:"nodes"`
	Links              []FrameLink `json:"links"`
	SelectedNodeID     string      `json:"selectedNodeId,omitempty"`
	DragNodeID         string      `json:"dragNodeId,omitempty"`
	ExpandedCategories []string    `json:"expandedCategories"`
}

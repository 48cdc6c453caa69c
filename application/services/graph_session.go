package services

import (
	"sync"

	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/events"
	domainservices "fillai-backend/domain/services"

	"go.uber.org/zap"
)

// GraphSession is the in-memory home of the single graph and the catalog it
// is built from. Every access goes through Do, View or their catalog
// counterparts, which serialise on one lock.
type GraphSession struct {
	mu      sync.RWMutex
	graph   *aggregates.Graph
	catalog *aggregates.Catalog
	builder *domainservices.LayoutBuilder
	pending []events.DomainEvent
	logger  *zap.Logger
}

// NewGraphSession starts with an empty catalog and a graph holding only the
// center node.
func NewGraphSession(builder *domainservices.LayoutBuilder, mode config.LayoutMode, logger *zap.Logger) (*GraphSession, error) {
	g, err := builder.BuildGraph(nil, mode)
	if err != nil {
		return nil, err
	}
	return &GraphSession{
		graph:   g,
		catalog: aggregates.NewCatalog(),
		builder: builder,
		logger:  logger,
	}, nil
}

// Do runs fn with exclusive access to the graph.
func (s *GraphSession) Do(fn func(g *aggregates.Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.graph)
	s.collect()
	return err
}

// View runs fn with shared access to the graph. fn must not mutate it.
func (s *GraphSession) View(fn func(g *aggregates.Graph) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.graph)
}

// UpdateCatalog runs fn with exclusive access to the catalog and rebuilds
// the graph when fn succeeds. Nodes that survive keep their positions.
func (s *GraphSession) UpdateCatalog(fn func(c *aggregates.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.catalog); err != nil {
		s.collect()
		return err
	}
	err := s.rebuild(s.graph.Mode(), true)
	s.collect()
	return err
}

// EditCatalog runs fn with exclusive access to the catalog without
// rebuilding the graph. Use it for changes that do not affect nodes.
func (s *GraphSession) EditCatalog(fn func(c *aggregates.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.catalog)
	s.collect()
	return err
}

// ViewCatalog runs fn with shared access to the catalog.
func (s *GraphSession) ViewCatalog(fn func(c *aggregates.Catalog) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.catalog)
}

// Regenerate rebuilds the graph from the catalog in the given mode. With
// keepPositions the surviving nodes stay where they are; otherwise every
// node starts from its initial layout position.
func (s *GraphSession) Regenerate(mode config.LayoutMode, keepPositions bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.rebuild(mode, keepPositions)
	s.collect()
	return err
}

// Reset drops all interaction state and rebuilds from scratch.
func (s *GraphSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.builder.BuildGraph(s.catalog.WithCoursesOnly(), s.graph.Mode())
	if err != nil {
		return err
	}
	g.Supersede(s.graph)
	g.MarkRegenerated()
	s.graph = g
	s.collect()
	return nil
}

// Center snaps every node back to its initial layout position.
func (s *GraphSession) Center() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builder.CenterPositions(s.graph)
}

func (s *GraphSession) rebuild(mode config.LayoutMode, keepPositions bool) error {
	next, err := s.builder.BuildGraph(s.catalog.WithCoursesOnly(), mode)
	if err != nil {
		return err
	}
	if keepPositions && mode == s.graph.Mode() {
		next.RestorePositions(s.graph.Positions())
	}
	next.AdoptInteractionState(s.graph)
	next.MarkRegenerated()
	s.graph = next

	s.logger.Debug("Graph rebuilt",
		zap.Int("nodes", next.NodeCount()),
		zap.Int("links", next.LinkCount()),
		zap.String("mode", string(mode)),
	)
	return nil
}

// collect moves uncommitted aggregate events to the pending queue. Callers
// hold the write lock.
func (s *GraphSession) collect() {
	s.pending = append(s.pending, s.graph.GetUncommittedEvents()...)
	s.graph.MarkEventsAsCommitted()
	s.pending = append(s.pending, s.catalog.GetUncommittedEvents()...)
	s.catalog.MarkEventsAsCommitted()
}

// DrainEvents returns and clears the events raised since the last drain.
func (s *GraphSession) DrainEvents() []events.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

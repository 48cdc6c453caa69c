package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fillai-backend/application/services"
	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
	"fillai-backend/domain/events"
	domainservices "fillai-backend/domain/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSession(t *testing.T) *services.GraphSession {
	t.Helper()
	s, err := services.NewGraphSession(domainservices.NewLayoutBuilder(config.DefaultLayoutConfig()), config.LayoutRadial, zap.NewNop())
	require.NoError(t, err)
	return s
}

func testCourse(id, title string) *entities.Course {
	return &entities.Course{
		ID:    id,
		Title: title,
		Modules: []entities.Module{
			{Title: "Intro", Lessons: []entities.Lesson{{Title: "One"}, {Title: "Two"}}},
			{Title: "Deeper", Lessons: []entities.Lesson{{Title: "Three"}, {Title: "Four"}}},
		},
	}
}

func seed(t *testing.T, s *services.GraphSession) {
	t.Helper()
	require.NoError(t, s.UpdateCatalog(func(c *aggregates.Catalog) error {
		if err := c.AddCourse(testCourse("c1", "React"), "Frontend", aggregates.OriginManual); err != nil {
			return err
		}
		return c.AddCourse(testCourse("c2", "SQL"), "Data", aggregates.OriginManual)
	}))
	s.DrainEvents()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{e})
}

func (p *recordingPublisher) PublishBatch(_ context.Context, es []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, es...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type memCatalogRepo struct {
	courses map[string]*entities.Course
	saveErr error
}

func newMemCatalogRepo() *memCatalogRepo {
	return &memCatalogRepo{courses: make(map[string]*entities.Course)}
}

func (m *memCatalogRepo) LoadAll(context.Context) ([]*entities.Course, error) {
	out := make([]*entities.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCatalogRepo) Save(_ context.Context, c *entities.Course) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.courses[c.ID] = c
	return nil
}

func (m *memCatalogRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

type memLayoutRepo struct {
	saved   map[string]valueobjects.Position
	saveErr error
	saves   int
}

func (m *memLayoutRepo) Load(context.Context) map[string]valueobjects.Position { return m.saved }

func (m *memLayoutRepo) Save(_ context.Context, p map[string]valueobjects.Position) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = p
	return nil
}

type memProgressRepo struct {
	completed map[string][]string
	notes     map[string]map[string]string
	bookmarks map[string][]string
	deleted   []string
}

func newMemProgressRepo() *memProgressRepo {
	return &memProgressRepo{
		completed: make(map[string][]string),
		notes:     make(map[string]map[string]string),
		bookmarks: make(map[string][]string),
	}
}

func (m *memProgressRepo) CompletedLessons(_ context.Context, id string) []string {
	return append([]string(nil), m.completed[id]...)
}

func (m *memProgressRepo) SaveCompletedLessons(_ context.Context, id string, keys []string) error {
	m.completed[id] = keys
	return nil
}

func (m *memProgressRepo) Notes(_ context.Context, id string) map[string]string {
	out := make(map[string]string)
	for k, v := range m.notes[id] {
		out[k] = v
	}
	return out
}

func (m *memProgressRepo) SaveNotes(_ context.Context, id string, notes map[string]string) error {
	m.notes[id] = notes
	return nil
}

func (m *memProgressRepo) Bookmarks(_ context.Context, id string) []string {
	return append([]string(nil), m.bookmarks[id]...)
}

func (m *memProgressRepo) SaveBookmarks(_ context.Context, id string, keys []string) error {
	m.bookmarks[id] = keys
	return nil
}

func (m *memProgressRepo) DeleteCourse(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.completed, id)
	delete(m.notes, id)
	delete(m.bookmarks, id)
	return nil
}

type stubGenerator struct {
	course *entities.Course
	err    error
	calls  int
}

func (g *stubGenerator) Generate(_ context.Context, s entities.GenerationSettings) (*entities.Course, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	c := *g.course
	if c.Title == "" {
		c.Title = s.Topic
	}
	return &c, nil
}

func (g *stubGenerator) Health(context.Context) error { return g.err }

type countingMetrics struct {
	outcomes []string
}

func (m *countingMetrics) ObserveTick(time.Duration, int, float64) {}
func (m *countingMetrics) FramePublished()                         {}
func (m *countingMetrics) GeneratorCall(outcome string)            { m.outcomes = append(m.outcomes, outcome) }

var errBoom = errors.New("boom")

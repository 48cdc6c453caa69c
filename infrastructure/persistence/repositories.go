// Package persistence maps the application repositories onto a key-value
// store. Values are plain JSON blobs.
package persistence

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"fillai-backend/application/ports"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
	pkgerrors "fillai-backend/pkg/errors"

	"go.uber.org/zap"
)

// Storage keys.
const (
	progressPrefix  = "course_progress_"
	notesPrefix     = "course_notes_"
	bookmarksPrefix = "course_bookmarks_"
	layoutKey       = "graph_layout"
	catalogPrefix   = "catalog_course_"
)

// readJSON decodes key into v. Missing keys leave v untouched; unreadable
// ones are logged and reported as false.
func readJSON(ctx context.Context, store ports.KeyValueStore, logger *zap.Logger, key string, v interface{}) bool {
	data, err := store.Get(ctx, key)
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			logger.Warn("Failed to read stored value", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("Failed to parse stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func writeJSON(ctx context.Context, store ports.KeyValueStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode "+key)
	}
	return store.Set(ctx, key, data)
}

// ProgressRepository stores completed lessons, notes and bookmarks.
type ProgressRepository struct {
	store  ports.KeyValueStore
	logger *zap.Logger
}

// NewProgressRepository creates a progress repository
func NewProgressRepository(store ports.KeyValueStore, logger *zap.Logger) *ProgressRepository {
	return &ProgressRepository{store: store, logger: logger}
}

func (r *ProgressRepository) CompletedLessons(ctx context.Context, courseID string) []string {
	keys := []string{}
	if !readJSON(ctx, r.store, r.logger, progressPrefix+courseID, &keys) || keys == nil {
		return []string{}
	}
	return keys
}

func (r *ProgressRepository) SaveCompletedLessons(ctx context.Context, courseID string, keys []string) error {
	return writeJSON(ctx, r.store, progressPrefix+courseID, nonNil(keys))
}

func (r *ProgressRepository) Notes(ctx context.Context, courseID string) map[string]string {
	notes := map[string]string{}
	if !readJSON(ctx, r.store, r.logger, notesPrefix+courseID, &notes) || notes == nil {
		return map[string]string{}
	}
	return notes
}

func (r *ProgressRepository) SaveNotes(ctx context.Context, courseID string, notes map[string]string) error {
	if notes == nil {
		notes = map[string]string{}
	}
	return writeJSON(ctx, r.store, notesPrefix+courseID, notes)
}

func (r *ProgressRepository) Bookmarks(ctx context.Context, courseID string) []string {
	keys := []string{}
	if !readJSON(ctx, r.store, r.logger, bookmarksPrefix+courseID, &keys) || keys == nil {
		return []string{}
	}
	return keys
}

func (r *ProgressRepository) SaveBookmarks(ctx context.Context, courseID string, keys []string) error {
	return writeJSON(ctx, r.store, bookmarksPrefix+courseID, nonNil(keys))
}

// DeleteCourse removes all three records. It keeps going after a failure
// and returns the first error.
func (r *ProgressRepository) DeleteCourse(ctx context.Context, courseID string) error {
	var first error
	for _, prefix := range []string{progressPrefix, notesPrefix, bookmarksPrefix} {
		if err := r.store.Delete(ctx, prefix+courseID); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// point is the stored form of a position.
type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutRepository stores node positions under a single key.
type LayoutRepository struct {
	store  ports.KeyValueStore
	logger *zap.Logger
}

// NewLayoutRepository creates a layout repository
func NewLayoutRepository(store ports.KeyValueStore, logger *zap.Logger) *LayoutRepository {
	return &LayoutRepository{store: store, logger: logger}
}

// Load returns the saved positions. Entries with non-finite coordinates are
// dropped.
func (r *LayoutRepository) Load(ctx context.Context) map[string]valueobjects.Position {
	var raw map[string]point
	out := make(map[string]valueobjects.Position)
	if !readJSON(ctx, r.store, r.logger, layoutKey, &raw) {
		return out
	}
	for id, p := range raw {
		pos, err := valueobjects.NewPosition(p.X, p.Y)
		if err != nil {
			r.logger.Warn("Dropping invalid stored position", zap.String("nodeID", id), zap.Error(err))
			continue
		}
		out[id] = pos
	}
	return out
}

func (r *LayoutRepository) Save(ctx context.Context, positions map[string]valueobjects.Position) error {
	raw := make(map[string]point, len(positions))
	for id, p := range positions {
		raw[id] = point{X: p.X(), Y: p.Y()}
	}
	return writeJSON(ctx, r.store, layoutKey, raw)
}

// CatalogRepository stores one blob per course.
type CatalogRepository struct {
	store  ports.KeyValueStore
	logger *zap.Logger
}

// NewCatalogRepository creates a catalog repository
func NewCatalogRepository(store ports.KeyValueStore, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{store: store, logger: logger}
}

// LoadAll returns the stored courses ordered by creation time, then id.
func (r *CatalogRepository) LoadAll(ctx context.Context) ([]*entities.Course, error) {
	raw, err := r.store.List(ctx, catalogPrefix)
	if err != nil {
		return nil, err
	}

	courses := make([]*entities.Course, 0, len(raw))
	for key, data := range raw {
		var c entities.Course
		if err := json.Unmarshal(data, &c); err != nil {
			r.logger.Warn("Skipping unreadable course", zap.String("key", key), zap.Error(err))
			continue
		}
		if c.ID == "" {
			c.ID = strings.TrimPrefix(key, catalogPrefix)
		}
		courses = append(courses, &c)
	}
	sort.Slice(courses, func(i, j int) bool {
		if !courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].CreatedAt.Before(courses[j].CreatedAt)
		}
		return courses[i].ID < courses[j].ID
	})
	return courses, nil
}

func (r *CatalogRepository) Save(ctx context.Context, course *entities.Course) error {
	return writeJSON(ctx, r.store, catalogPrefix+course.ID, course)
}

func (r *CatalogRepository) Delete(ctx context.Context, courseID string) error {
	return r.store.Delete(ctx, catalogPrefix+courseID)
}

var (
	_ ports.ProgressRepository = (*ProgressRepository)(nil)
	_ ports.LayoutRepository   = (*LayoutRepository)(nil)
	_ ports.CatalogRepository  = (*CatalogRepository)(nil)
)

package ports

import (
	"context"

	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"
)

// KeyValueStore is the persistence port for small JSON blobs.
// Implementations: badger (local), DynamoDB (cloud) and in-memory.
type KeyValueStore interface {
	// Get returns the value for key or a NotFound AppError.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key/value pair whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)

	// Close releases the underlying resources.
	Close() error
}

// ProgressRepository stores per-course learning state. Reads never fail:
// missing or unreadable state is returned empty and logged.
type ProgressRepository interface {
	CompletedLessons(ctx context.Context, courseID string) []string
	SaveCompletedLessons(ctx context.Context, courseID string, keys []string) error

	Notes(ctx context.Context, courseID string) map[string]string
	SaveNotes(ctx context.Context, courseID string, notes map[string]string) error

	Bookmarks(ctx context.Context, courseID string) []string
	SaveBookmarks(ctx context.Context, courseID string, keys []string) error

	// DeleteCourse removes progress, notes and bookmarks of a course.
	DeleteCourse(ctx context.Context, courseID string) error
}

// LayoutRepository stores the last known node positions.
type LayoutRepository interface {
	Load(ctx context.Context) map[string]valueobjects.Position
	Save(ctx context.Context, positions map[string]valueobjects.Position) error
}

// CatalogRepository stores courses.
type CatalogRepository interface {
	// LoadAll returns every stored course. Unreadable entries are skipped.
	LoadAll(ctx context.Context) ([]*entities.Course, error)
	Save(ctx context.Context, course *entities.Course) error
	Delete(ctx context.Context, courseID string) error
}

package handlers

import (
	"context"
	"sync"
	"time"

	"fillai-backend/application/commands"
	"fillai-backend/application/ports"
	"fillai-backend/application/services"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/events"
	domainservices "fillai-backend/domain/services"
	pkgerrors "fillai-backend/pkg/errors"

	"go.uber.org/zap"
)

// ProgressHandler handles lesson progress, notes and bookmarks.
type ProgressHandler struct {
	session   *services.GraphSession
	repo      ports.ProgressRepository
	publisher ports.EventPublisher
	logger    *zap.Logger

	// mu serialises read-modify-write cycles on the repository.
	mu sync.Mutex
}

// NewProgressHandler creates a progress command handler
func NewProgressHandler(
	session *services.GraphSession,
	repo ports.ProgressRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		session:   session,
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *ProgressHandler) HandleCompleteLesson(ctx context.Context, cmd commands.CompleteLessonCommand) error {
	course, err := h.lesson(cmd.CourseID, cmd.LessonKey)
	if err != nil {
		return err
	}

	h.mu.Lock()
	completed := h.repo.CompletedLessons(ctx, cmd.CourseID)
	if domainservices.IsLessonCompleted(completed, cmd.LessonKey) {
		h.mu.Unlock()
		return nil
	}
	completed = append(completed, cmd.LessonKey)
	err = h.repo.SaveCompletedLessons(ctx, cmd.CourseID, completed)
	h.mu.Unlock()
	if err != nil {
		return err
	}

	progress := domainservices.CalculateProgress(course, completed)
	publishPending(ctx, h.session, h.publisher, h.logger,
		events.NewLessonCompleted(cmd.CourseID, cmd.LessonKey, progress, time.Now()))
	return nil
}

func (h *ProgressHandler) HandleUncompleteLesson(ctx context.Context, cmd commands.UncompleteLessonCommand) error {
	if _, err := h.lesson(cmd.CourseID, cmd.LessonKey); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	completed := h.repo.CompletedLessons(ctx, cmd.CourseID)
	kept := make([]string, 0, len(completed))
	for _, k := range completed {
		if k != cmd.LessonKey {
			kept = append(kept, k)
		}
	}
	if len(kept) == len(completed) {
		return nil
	}
	return h.repo.SaveCompletedLessons(ctx, cmd.CourseID, kept)
}

// HandleSaveNote stores the note text. Blank text removes the note.
func (h *ProgressHandler) HandleSaveNote(ctx context.Context, cmd commands.SaveNoteCommand) error {
	if _, err := h.lesson(cmd.CourseID, cmd.LessonKey); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	notes := h.repo.Notes(ctx, cmd.CourseID)
	if notes == nil {
		notes = make(map[string]string)
	}
	if cmd.Text == "" {
		delete(notes, cmd.LessonKey)
	} else {
		notes[cmd.LessonKey] = cmd.Text
	}
	return h.repo.SaveNotes(ctx, cmd.CourseID, notes)
}

func (h *ProgressHandler) HandleToggleBookmark(ctx context.Context, cmd commands.ToggleBookmarkCommand) error {
	if _, err := h.lesson(cmd.CourseID, cmd.LessonKey); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	bookmarks := h.repo.Bookmarks(ctx, cmd.CourseID)
	next := make([]string, 0, len(bookmarks)+1)
	found := false
	for _, k := range bookmarks {
		if k == cmd.LessonKey {
			found = true
			continue
		}
		next = append(next, k)
	}
	if !found {
		next = append(next, cmd.LessonKey)
	}
	return h.repo.SaveBookmarks(ctx, cmd.CourseID, next)
}

// lesson checks that the course exists and has the lesson.
func (h *ProgressHandler) lesson(courseID, key string) (*entities.Course, error) {
	var course *entities.Course
	err := h.session.ViewCatalog(func(c *aggregates.Catalog) error {
		var err error
		course, err = c.Course(courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !course.HasLesson(key) {
		return nil, pkgerrors.NewNotFoundError("lesson " + key)
	}
	return course, nil
}

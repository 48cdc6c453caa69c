package commands

import (
	"fillai-backend/domain/core/entities"
	pkgerrors "fillai-backend/pkg/errors"
)

// MaxNoteLength bounds a single lesson note.
const MaxNoteLength = 10000

// CompleteLessonCommand marks a lesson as done.
type CompleteLessonCommand struct {
	CourseID  string
	LessonKey string
}

func (c CompleteLessonCommand) Validate() error {
	return validateLessonRef(c.CourseID, c.LessonKey)
}

// UncompleteLessonCommand clears the done mark of a lesson.
type UncompleteLessonCommand struct {
	CourseID  string
	LessonKey string
}

func (c UncompleteLessonCommand) Validate() error {
	return validateLessonRef(c.CourseID, c.LessonKey)
}

// SaveNoteCommand stores the note of a lesson. Empty text deletes it.
type SaveNoteCommand struct {
	CourseID  string
	LessonKey string
	Text      string
}

func (c SaveNoteCommand) Validate() error {
	if len(c.Text) > MaxNoteLength {
		return pkgerrors.NewValidationError("note exceeds maximum length")
	}
	return validateLessonRef(c.CourseID, c.LessonKey)
}

// ToggleBookmarkCommand flips the bookmark of a lesson.
type ToggleBookmarkCommand struct {
	CourseID  string
	LessonKey string
}

func (c ToggleBookmarkCommand) Validate() error {
	return validateLessonRef(c.CourseID, c.LessonKey)
}

// validateLessonRef is shared by the progress commands.
func validateLessonRef(courseID, lessonKey string) error {
	if courseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	if _, _, err := entities.ParseLessonKey(lessonKey); err != nil {
		return err
	}
	return nil
}

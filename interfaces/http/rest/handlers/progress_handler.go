package handlers

import (
	"net/http"

	"fillai-backend/application/commands"
	"fillai-backend/application/commands/bus"
	"fillai-backend/application/queries"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProgressHandler handles lesson completion, notes and bookmarks. Changes
// answer with the updated progress of the course.
type ProgressHandler struct {
	base
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(cmds CommandSender, qs QueryAsker, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{base{commands: cmds, queries: qs, errors: errs, logger: logger}}
}

// GetProgress handles GET /courses/{courseID}/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, http.StatusOK, queries.GetCourseProgressQuery{CourseID: chi.URLParam(r, "courseID")})
}

func (h *ProgressHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	courseID, key := lessonRef(r)
	h.apply(w, r, courseID, commands.CompleteLessonCommand{CourseID: courseID, LessonKey: key})
}

func (h *ProgressHandler) UncompleteLesson(w http.ResponseWriter, r *http.Request) {
	courseID, key := lessonRef(r)
	h.apply(w, r, courseID, commands.UncompleteLessonCommand{CourseID: courseID, LessonKey: key})
}

// noteRequest is the body of PUT .../note.
type noteRequest struct {
	Text string `json:"text"`
}

func (h *ProgressHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	courseID, key := lessonRef(r)
	h.apply(w, r, courseID, commands.SaveNoteCommand{CourseID: courseID, LessonKey: key, Text: req.Text})
}

func (h *ProgressHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	courseID, key := lessonRef(r)
	h.apply(w, r, courseID, commands.ToggleBookmarkCommand{CourseID: courseID, LessonKey: key})
}

func (h *ProgressHandler) apply(w http.ResponseWriter, r *http.Request, courseID string, cmd bus.Command) {
	if err := h.commands.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, http.StatusOK, queries.GetCourseProgressQuery{CourseID: courseID})
}

func lessonRef(r *http.Request) (courseID, lessonKey string) {
	return chi.URLParam(r, "courseID"), chi.URLParam(r, "lessonKey")
}

package handlers

import (
	"net/http"

	"fillai-backend/application/commands"
	"fillai-backend/application/queries"
	"fillai-backend/domain/core/entities"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CourseHandler handles the course catalog endpoints.
type CourseHandler struct {
	base
	newID func() string
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(cmds CommandSender, qs QueryAsker, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		base:  base{commands: cmds, queries: qs, errors: errs, logger: logger},
		newID: func() string { return uuid.New().String() },
	}
}

// ListCategories handles GET /categories?includeEmpty=true
func (h *CourseHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	includeEmpty, err := boolParam(r, "includeEmpty")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, http.StatusOK, queries.ListCategoriesQuery{IncludeEmpty: includeEmpty})
}

// ListCourses handles GET /courses?category=&public=true
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	public, err := boolParam(r, "public")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, http.StatusOK, queries.ListCoursesQuery{
		CategoryID: r.URL.Query().Get("category"),
		PublicOnly: public,
	})
}

// GetCourse handles GET /courses/{courseID}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, http.StatusOK, queries.GetCourseQuery{CourseID: chi.URLParam(r, "courseID")})
}

// CreateCourse handles POST /courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var input entities.CourseInput
	if err := h.decode(w, r, &input); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id := h.newID()
	if err := h.commands.Send(r.Context(), commands.CreateCourseCommand{CourseID: id, Input: input}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, http.StatusCreated, queries.GetCourseQuery{CourseID: id})
}

// GenerateCourse handles POST /courses/generate
func (h *CourseHandler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	var settings entities.GenerationSettings
	if err := h.decode(w, r, &settings); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	id := h.newID()
	if err := h.commands.Send(r.Context(), commands.GenerateCourseCommand{CourseID: id, Settings: settings}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.logger.Info("Course generated via API",
		zap.String("courseID", id),
		zap.String("topic", settings.Topic),
	)
	h.ask(w, r, http.StatusCreated, queries.GetCourseQuery{CourseID: id})
}

// ShareCourse handles POST /courses/{courseID}/share
func (h *CourseHandler) ShareCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")
	if err := h.commands.Send(r.Context(), commands.ShareCourseCommand{CourseID: id}); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, http.StatusOK, queries.GetCourseQuery{CourseID: id})
}

// DeleteCourse handles DELETE /courses/{courseID}
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteCourseCommand{CourseID: chi.URLParam(r, "courseID")})
}

package commands

import (
	"fillai-backend/domain/core/entities"
	pkgerrors "fillai-backend/pkg/errors"
	"fillai-backend/pkg/utils"
)

// GenerateCourseCommand asks the generator for a course on a topic. The
// caller picks CourseID so it can read the course back afterwards.
type GenerateCourseCommand struct {
	CourseID string
	Settings entities.GenerationSettings
}

func (c GenerateCourseCommand) Validate() error {
	if c.CourseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	return utils.ValidateStruct(c.Settings)
}

// CreateCourseCommand adds a hand-authored course.
type CreateCourseCommand struct {
	CourseID string
	Input    entities.CourseInput
}

func (c CreateCourseCommand) Validate() error {
	if c.CourseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	return utils.ValidateStruct(c.Input)
}

// ShareCourseCommand publishes a course to the community.
type ShareCourseCommand struct {
	CourseID string
}

func (c ShareCourseCommand) Validate() error {
	if c.CourseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	return nil
}

// DeleteCourseCommand removes a course and its learning state.
type DeleteCourseCommand struct {
	CourseID string
}

func (c DeleteCourseCommand) Validate() error {
	if c.CourseID == "" {
		return pkgerrors.NewValidationError("course ID is required")
	}
	return nil
}

package services

import (
	"math"

	"fillai-backend/domain/core/entities"
)

// CalculateProgress returns the completed share of a course in percent,
// rounded to the nearest integer. Keys that do not address a lesson of the
// course are ignored.
func CalculateProgress(course *entities.Course, completed []string) int {
	total := course.TotalLessons()
	if total == 0 {
		return 0
	}
	done := CompletedCount(course, completed)
	return int(math.Round(float64(done) / float64(total) * 100))
}

// IsLessonCompleted reports whether key is among the completed keys.
func IsLessonCompleted(completed []string, key string) bool {
	for _, k := range completed {
		if k == key {
			return true
		}
	}
	return false
}

// CompletedCount counts distinct completed keys that exist in the course.
func CompletedCount(course *entities.Course, completed []string) int {
	seen := make(map[string]struct{}, len(completed))
	for _, k := range completed {
		if course.HasLesson(k) {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourse() *Course {
	return &Course{
		ID:    "c1",
		Title: "Go from scratch",
		Modules: []Module{
			{ID: "m1", Title: "Basics", Lessons: []Lesson{{ID: "l1", Title: "Syntax"}, {ID: "l2", Title: "Types"}}},
			{ID: "m2", Title: "Practice", Lessons: []Lesson{{ID: "l3", Title: "Project"}}},
		},
	}
}

func TestCourse_Lessons(t *testing.T) {
	c := sampleCourse()

	assert.Equal(t, 3, c.TotalLessons())
	assert.Equal(t, []string{"0-0", "0-1", "1-0"}, c.LessonKeys())
	assert.True(t, c.HasLesson("1-0"))
	assert.False(t, c.HasLesson("1-1"))
	assert.False(t, c.HasLesson("2-0"))
	assert.False(t, c.HasLesson("garbage"))

	l, err := c.Lesson("0-1")
	require.NoError(t, err)
	assert.Equal(t, "Types", l.Title)

	_, err = c.Lesson("5-5")
	assert.Error(t, err)
}

func TestParseLessonKey(t *testing.T) {
	m, l, err := ParseLessonKey("12-3")
	require.NoError(t, err)
	assert.Equal(t, 12, m)
	assert.Equal(t, 3, l)

	for _, bad := range []string{"", "1", "a-b", "-1-2", "1-2-3"} {
		_, _, err := ParseLessonKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestCourse_Validate(t *testing.T) {
	c := sampleCourse()
	assert.NoError(t, c.Validate())

	c.Title = "  "
	assert.Error(t, c.Validate())

	c = sampleCourse()
	c.Price = -1
	assert.Error(t, c.Validate())
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Data Science":           "data-science",
		"  English   for IT  ":   "english-for-it",
		"Frontend":               "frontend",
		"Machine\tLearning\nOps": "machine-learning-ops",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestGenerationSettings_CategoryName(t *testing.T) {
	assert.Equal(t, "Rust", GenerationSettings{CustomCategory: "Rust", Category: "Systems"}.CategoryName())
	assert.Equal(t, "Systems", GenerationSettings{CustomCategory: " ", Category: "Systems"}.CategoryName())
	assert.Equal(t, UncategorizedName, GenerationSettings{}.CategoryName())
}

func TestCourseInput_TagList(t *testing.T) {
	assert.Equal(t, []string{"go", "backend"}, CourseInput{Tags: " go, ,backend "}.TagList())
	assert.Nil(t, CourseInput{}.TagList())
}

package coursegen

import (
	"fmt"
	"math"
	"strings"
	"time"

	"fillai-backend/domain/core/entities"

	"github.com/google/uuid"
)

// Settings is the request body the generation backend expects.
type Settings struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description,omitempty"`
	Difficulty             string   `json:"difficulty"`
	DurationHours          int      `json:"duration_hours"`
	TargetAudience         string   `json:"target_audience"`
	LearningObjectives     []string `json:"learning_objectives,omitempty"`
	CustomCategoryName     string   `json:"custom_category_name,omitempty"`
	AdditionalRequirements string   `json:"additional_requirements,omitempty"`
}

type generateRequest struct {
	Settings Settings `json:"settings"`
}

type generateResponse struct {
	Success bool           `json:"success"`
	Course  *BackendCourse `json:"course,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

// BackendLesson is a lesson as the generation backend returns it.
type BackendLesson struct {
	Title               string                        `json:"title"`
	Content             string                        `json:"content"`
	DurationMinutes     int                           `json:"duration_minutes"`
	Exercises           []string                      `json:"exercises"`
	PracticeExercises   []entities.PracticeExercise   `json:"practice_exercises"`
	Videos              []entities.VideoMaterial      `json:"videos"`
	AdditionalMaterials []entities.AdditionalMaterial `json:"additional_materials"`
}

// BackendModule is a module as the generation backend returns it.
type BackendModule struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Lessons       []BackendLesson `json:"lessons"`
	DurationHours float64         `json:"duration_hours"`
}

// BackendCourse is a course as the generation backend returns it.
type BackendCourse struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Difficulty         string          `json:"difficulty"`
	Modules            []BackendModule `json:"modules"`
	TotalDurationHours float64         `json:"total_duration_hours"`
	LearningObjectives []string        `json:"learning_objectives"`
}

const (
	defaultDifficulty    = "intermediate"
	defaultDurationHours = 10
	defaultAudience      = "General audience"
)

var levelToDifficulty = map[string]string{
	"Beginner":     "beginner",
	"Intermediate": "intermediate",
	"Advanced":     "advanced",
	"Expert":       "advanced",
}

var difficultyToLevel = map[string]string{
	"beginner":     "Beginner",
	"intermediate": "Intermediate",
	"advanced":     "Advanced",
}

var durationToHours = map[string]int{
	"1 week":  5,
	"2 weeks": 10,
	"4 weeks": 20,
	"8 weeks": 40,
}

var hoursToDuration = map[int]string{
	5:  "1 week",
	10: "2 weeks",
	20: "4 weeks",
	40: "8 weeks",
}

// ToBackendSettings converts the user's settings into the request format.
// Unknown levels and durations map to intermediate and 10 hours.
func ToBackendSettings(s entities.GenerationSettings) Settings {
	difficulty, ok := levelToDifficulty[s.Level]
	if !ok {
		difficulty = defaultDifficulty
	}
	hours, ok := durationToHours[s.Duration]
	if !ok {
		hours = defaultDurationHours
	}

	out := Settings{
		Title:                  s.Topic,
		Description:            s.Preferences,
		Difficulty:             difficulty,
		DurationHours:          hours,
		TargetAudience:         s.Preferences,
		LearningObjectives:     splitObjectives(s.Goal),
		CustomCategoryName:     strings.TrimSpace(s.CustomCategory),
		AdditionalRequirements: s.Preferences,
	}
	if out.Description == "" {
		out.Description = fmt.Sprintf("A course on %q", s.Topic)
	}
	if out.TargetAudience == "" {
		out.TargetAudience = defaultAudience
	}
	return out
}

// splitObjectives breaks a goal into sentences or lines.
func splitObjectives(goal string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(goal, func(r rune) bool { return r == '.' || r == '\n' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ToCourse converts a backend course. The category name is kept as the
// label; the catalog assigns the slug. Module and lesson ids are fresh.
func ToCourse(bc *BackendCourse, now time.Time) *entities.Course {
	level, ok := difficultyToLevel[bc.Difficulty]
	if !ok {
		level = "Intermediate"
	}

	course := &entities.Course{
		ID:            bc.ID,
		Title:         bc.Title,
		Description:   bc.Description,
		CategoryLabel: strings.TrimSpace(bc.Category),
		Format:        "Mixed",
		Level:         level,
		Duration:      durationLabel(bc.TotalDurationHours),
		Intensity:     "Medium",
		Goal:          strings.Join(bc.LearningObjectives, ", "),
		CreatedAt:     now.UTC(),
		CreatedBy:     "Fill AI",
		Modules:       make([]entities.Module, 0, len(bc.Modules)),
	}

	for _, m := range bc.Modules {
		module := entities.Module{
			ID:          uuid.NewString(),
			Title:       m.Title,
			Description: m.Description,
			Lessons:     make([]entities.Lesson, 0, len(m.Lessons)),
		}
		for _, l := range m.Lessons {
			module.Lessons = append(module.Lessons, entities.Lesson{
				ID:                  uuid.NewString(),
				Title:               l.Title,
				Content:             l.Content + exercisesText(l.Exercises),
				DurationMinutes:     l.DurationMinutes,
				PracticeExercises:   l.PracticeExercises,
				Videos:              l.Videos,
				AdditionalMaterials: l.AdditionalMaterials,
			})
		}
		course.Modules = append(course.Modules, module)
	}
	return course
}

func durationLabel(hours float64) string {
	if label, ok := hoursToDuration[int(hours)]; ok && float64(int(hours)) == hours {
		return label
	}
	weeks := int(math.Round(hours / 5))
	if weeks == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", weeks)
}

func exercisesText(exercises []string) string {
	if len(exercises) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nPractice exercises:")
	for i, ex := range exercises {
		fmt.Fprintf(&b, "\n%d. %s", i+1, ex)
	}
	return b.String()
}

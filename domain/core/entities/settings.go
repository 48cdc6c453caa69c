package entities

import "strings"

// GenerationSettings is what the user fills in before a course is generated.
type GenerationSettings struct {
	Topic          string   `json:"topic" validate:"required,min=2,max=200"`
	Level          string   `json:"level,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced Expert"`
	Duration       string   `json:"duration,omitempty" validate:"omitempty,oneof='1 week' '2 weeks' '4 weeks' '8 weeks'"`
	Format         string   `json:"format,omitempty" validate:"max=50"`
	Intensity      string   `json:"intensity,omitempty" validate:"max=50"`
	Goal           string   `json:"goal,omitempty" validate:"max=1000"`
	Preferences    string   `json:"preferences,omitempty" validate:"max=2000"`
	Category       string   `json:"category,omitempty" validate:"max=100"`
	CustomCategory string   `json:"customCategory,omitempty" validate:"max=100"`
	Language       string   `json:"language,omitempty" validate:"max=10"`
	Tags           []string `json:"tags,omitempty" validate:"max=20,dive,max=30"`
}

// CategoryName returns the custom category, the chosen one, or the fallback.
func (s GenerationSettings) CategoryName() string {
	for _, name := range []string{s.CustomCategory, s.Category} {
		if n := strings.TrimSpace(name); n != "" {
			return n
		}
	}
	return UncategorizedName
}

// CourseInput is a manually authored course.
type CourseInput struct {
	Title        string  `json:"title" validate:"required,min=1,max=200"`
	Description  string  `json:"description" validate:"max=5000"`
	CategoryName string  `json:"categoryName" validate:"required,max=100"`
	Level        string  `json:"level,omitempty" validate:"max=50"`
	Duration     string  `json:"duration,omitempty" validate:"max=50"`
	IsPaid       bool    `json:"isPaid"`
	Price        float64 `json:"price,omitempty" validate:"gte=0"`
	Tags         string  `json:"tags,omitempty" validate:"max=500"`
	IsPrivate    bool    `json:"isPrivate"`
}

// TagList splits the comma separated tag string.
func (in CourseInput) TagList() []string {
	var tags []string
	for _, t := range strings.Split(in.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

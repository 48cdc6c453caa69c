package services

import (
	"time"

	"github.com/google/uuid"

	"fillai-backend/domain/core/entities"
)

// DemoCourses returns the starter catalog shown to a new user.
func DemoCourses(now time.Time) []*entities.Course {
	at := now.UTC()
	return []*entities.Course{
		{
			ID:            uuid.New().String(),
			Title:         "Frontend from scratch to React",
			Description:   "Step by step through HTML, CSS, JavaScript and a first React project.",
			CategoryLabel: "Frontend",
			Format:        "Online",
			Level:         "Beginner",
			Duration:      "8 weeks",
			Intensity:     "3-5 hours per week",
			Goal:          "Build modern web interfaces and understand JavaScript fundamentals.",
			CreatedAt:     at,
			IsPaid:        true,
			Price:         4900,
			IsPublic:      true,
			Tags:          []string{"frontend", "react", "html", "css", "javascript"},
			Language:      "en",
			CreatedBy:     "FillAI",
			Modules: []entities.Module{{
				ID:          uuid.New().String(),
				Title:       "HTML & CSS basics",
				Description: "Page structure and basic styling.",
				Lessons: []entities.Lesson{
					{ID: uuid.New().String(), Title: "The HTML skeleton", Content: "Core tags, document structure and semantics."},
					{ID: uuid.New().String(), Title: "CSS and layout grids", Content: "Styling and simple grids with Flexbox."},
				},
			}},
		},
		{
			ID:            uuid.New().String(),
			Title:         "English for IT professionals",
			Description:   "Working English for meetings, email, documentation and interviews.",
			CategoryLabel: "English IT",
			Format:        "Online",
			Level:         "Intermediate",
			Duration:      "4 weeks",
			Intensity:     "2-3 hours per week",
			Goal:          "Communicate confidently in an English-speaking IT team.",
			CreatedAt:     at,
			IsPublic:      true,
			Tags:          []string{"english", "it", "communication"},
			Language:      "en",
			CreatedBy:     "FillAI",
			Modules: []entities.Module{{
				ID:          uuid.New().String(),
				Title:       "Developer vocabulary",
				Description: "Everyday terms and phrases.",
				Lessons: []entities.Lesson{
					{ID: uuid.New().String(), Title: "Daily standups", Content: "Phrases for status calls and task updates."},
				},
			}},
		},
		{
			ID:            uuid.New().String(),
			Title:         "Introduction to Data Science with Python",
			Description:   "Python basics, working with data and a first ML project.",
			CategoryLabel: "Data Science",
			Format:        "Online",
			Level:         "Beginner",
			Duration:      "4 weeks",
			Intensity:     "3-4 hours per week",
			Goal:          "Understand how a data science project works and run a first analysis.",
			CreatedAt:     at,
			IsPaid:        true,
			Price:         5900,
			IsPublic:      true,
			Tags:          []string{"python", "data science", "ml"},
			Language:      "en",
			CreatedBy:     "You",
			Modules: []entities.Module{{
				ID:          uuid.New().String(),
				Title:       "Python for data analysis",
				Description: "Variables, loops, lists, dictionaries and reading files.",
				Lessons: []entities.Lesson{{
					ID:              uuid.New().String(),
					Title:           "First steps in Python",
					Content:         "Set up the environment, write the first scripts and meet the basic data types.",
					DurationMinutes: 25,
					PracticeExercises: []entities.PracticeExercise{{
						Title:       "Loops and sums",
						Description: "Sum the first 100 members of an arithmetic progression with a for loop.",
						Difficulty:  "easy",
					}},
					Terms: []entities.TermExplanation{
						{Term: "arithmetic progression", Explanation: "A sequence where each member is the previous one plus a fixed number."},
						{Term: "for loop", Explanation: "A construct that repeats a block of code a given number of times."},
					},
				}},
			}},
		},
	}
}

package services

import (
	"context"
	"time"

	"fillai-backend/application/ports"
	"fillai-backend/domain/core/aggregates"
	"fillai-backend/domain/core/entities"
	"fillai-backend/domain/core/valueobjects"

	"go.uber.org/zap"
)

// StateService moves the session between memory and storage.
type StateService struct {
	session     *GraphSession
	catalogRepo ports.CatalogRepository
	layoutRepo  ports.LayoutRepository
	seedDemo    bool
	logger      *zap.Logger
}

// NewStateService creates a state service. With seedDemo an empty catalog
// is filled with the demo courses on Load.
func NewStateService(
	session *GraphSession,
	catalogRepo ports.CatalogRepository,
	layoutRepo ports.LayoutRepository,
	seedDemo bool,
	logger *zap.Logger,
) *StateService {
	return &StateService{
		session:     session,
		catalogRepo: catalogRepo,
		layoutRepo:  layoutRepo,
		seedDemo:    seedDemo,
		logger:      logger,
	}
}

// Load restores the catalog and the saved node positions.
func (s *StateService) Load(ctx context.Context) error {
	courses, err := s.catalogRepo.LoadAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to load catalog, starting empty", zap.Error(err))
		courses = nil
	}

	origin := aggregates.OriginRestored
	if len(courses) == 0 && s.seedDemo {
		courses = DemoCourses(time.Now())
		origin = aggregates.OriginManual
		for _, c := range courses {
			if err := s.catalogRepo.Save(ctx, c); err != nil {
				s.logger.Warn("Failed to store demo course", zap.String("courseID", c.ID), zap.Error(err))
			}
		}
	}

	err = s.session.UpdateCatalog(func(c *aggregates.Catalog) error {
		for _, course := range courses {
			if err := c.AddCourse(course, categoryName(course), origin); err != nil {
				s.logger.Warn("Skipping stored course", zap.String("courseID", course.ID), zap.Error(err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	positions := s.layoutRepo.Load(ctx)
	restored := 0
	_ = s.session.Do(func(g *aggregates.Graph) error {
		restored = g.RestorePositions(positions)
		return nil
	})

	s.logger.Info("State loaded",
		zap.Int("courses", len(courses)),
		zap.Int("restoredPositions", restored),
	)
	return nil
}

// SaveLayout persists the current node positions.
func (s *StateService) SaveLayout(ctx context.Context) error {
	var positions map[string]valueobjects.Position
	_ = s.session.View(func(g *aggregates.Graph) error {
		positions = g.Positions()
		return nil
	})
	return s.layoutRepo.Save(ctx, positions)
}

// categoryName is the label a stored course was filed under.
func categoryName(c *entities.Course) string {
	if c.CategoryLabel != "" {
		return c.CategoryLabel
	}
	return c.Category
}

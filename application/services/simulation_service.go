package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fillai-backend/application/ports"
	"fillai-backend/domain/config"
	"fillai-backend/domain/core/aggregates"
	domainservices "fillai-backend/domain/services"

	"go.uber.org/zap"
)

// motionEpsilon is the smallest per-tick movement that counts as a change.
const motionEpsilon = 1e-3

// SimulationService drives the physics loop and publishes frames.
type SimulationService struct {
	session  *GraphSession
	engine   atomic.Pointer[domainservices.PhysicsEngine]
	interval atomic.Int64

	sinkMu sync.RWMutex
	sink   ports.FrameSink

	metrics ports.Metrics
	logger  *zap.Logger

	tick        uint64
	lastVersion uint64
	published   bool
}

// NewSimulationService creates a stopped simulation. Call Run to start it.
func NewSimulationService(
	session *GraphSession,
	physics config.PhysicsConfig,
	layout config.LayoutConfig,
	metrics ports.Metrics,
	logger *zap.Logger,
) *SimulationService {
	s := &SimulationService{
		session: session,
		metrics: metrics,
		logger:  logger,
	}
	s.engine.Store(domainservices.NewPhysicsEngine(physics))
	s.SetFrameInterval(layout.FrameInterval)
	return s
}

// SetFrameSink sets where frames go. A nil sink discards them.
func (s *SimulationService) SetFrameSink(sink ports.FrameSink) {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	s.sink = sink
}

// UpdatePhysics swaps the engine constants, e.g. after a config reload.
func (s *SimulationService) UpdatePhysics(cfg config.PhysicsConfig) {
	s.engine.Store(domainservices.NewPhysicsEngine(cfg))
	s.logger.Info("Physics constants updated",
		zap.Float64("damping", cfg.Damping),
		zap.Float64("repulsion", cfg.Repulsion),
		zap.Float64("spring_strength", cfg.SpringStrength),
	)
}

// SetFrameInterval changes the tick period. It applies on the next Run.
func (s *SimulationService) SetFrameInterval(d time.Duration) {
	if d <= 0 {
		d = config.DefaultLayoutConfig().FrameInterval
	}
	s.interval.Store(int64(d))
}

// Engine returns the engine currently in use.
func (s *SimulationService) Engine() *domainservices.PhysicsEngine {
	return s.engine.Load()
}

// Run ticks until ctx is cancelled.
func (s *SimulationService) Run(ctx context.Context) error {
	interval := time.Duration(s.interval.Load())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Simulation started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Simulation stopped", zap.Uint64("ticks", s.tick))
			return nil
		case <-ticker.C:
			if frame, changed := s.Tick(); changed {
				s.publish(frame)
			}
		}
	}
}

// Tick advances the simulation once. It returns the resulting frame and
// whether anything changed since the last published frame. In tree mode
// physics is off and only external changes produce a frame.
func (s *SimulationService) Tick() (ports.Frame, bool) {
	start := time.Now()
	engine := s.engine.Load()

	var frame ports.Frame
	var changed bool
	var nodes int
	var res domainservices.StepResult

	_ = s.session.Do(func(g *aggregates.Graph) error {
		s.tick++
		visible := g.VisibleNodes()
		nodes = len(visible)

		if g.Mode() == config.LayoutRadial {
			if cursor, ok := g.Cursor(); ok {
				engine.ApplyCursorRepulsion(visible, cursor, g.DragNodeID())
			}
			res = engine.Step(visible, g.VisibleLinks(), g.DragNodeID())
			if res.MaxDisplacement > motionEpsilon {
				g.Touch()
			}
		}

		changed = !s.published || g.Version() != s.lastVersion
		if changed {
			frame = BuildFrame(g, s.tick)
			s.lastVersion = g.Version()
			s.published = true
		}
		return nil
	})

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start), nodes, res.MaxDisplacement)
	}
	return frame, changed
}

// Settle runs the physics headlessly until the visible layout comes to rest
// or maxSteps ticks pass. Tree layouts are static and report settled at
// once. It returns the steps taken and whether the layout converged.
func (s *SimulationService) Settle(maxSteps int) (int, bool) {
	engine := s.engine.Load()
	steps, converged := 0, true

	_ = s.session.Do(func(g *aggregates.Graph) error {
		if g.Mode() != config.LayoutRadial {
			return nil
		}
		steps, converged = engine.Settle(g.VisibleNodes(), g.VisibleLinks(), maxSteps, motionEpsilon)
		if steps > 0 {
			g.Touch()
		}
		return nil
	})

	s.logger.Debug("Layout settled",
		zap.Int("steps", steps),
		zap.Bool("converged", converged),
	)
	return steps, converged
}

func (s *SimulationService) publish(frame ports.Frame) {
	s.sinkMu.RLock()
	sink := s.sink
	s.sinkMu.RUnlock()
	if sink == nil {
		return
	}
	sink.PublishFrame(frame)
	if s.metrics != nil {
		s.metrics.FramePublished()
	}
}

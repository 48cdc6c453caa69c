// Package rest is the HTTP interface of the service.
package rest

import (
	"context"
	"net/http"
	"time"

	"fillai-backend/infrastructure/observability"
	"fillai-backend/interfaces/http/rest/handlers"
	"fillai-backend/interfaces/http/rest/middleware"
	"fillai-backend/pkg/common"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// readyTimeout bounds all readiness checks together.
const readyTimeout = 3 * time.Second

// Check is one readiness probe. A failing non-critical check is reported
// but does not make the service unready.
type Check struct {
	Name     string
	Critical bool
	Probe    func(ctx context.Context) error
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsPath    string
	Debug          bool
	// Tracer, when set, opens a server span per request.
	Tracer trace.Tracer
}

// Router creates and configures the HTTP router
type Router struct {
	commands  handlers.CommandSender
	queries   handlers.QueryAsker
	websocket http.HandlerFunc
	metrics   *observability.Collector
	checks    []Check
	opts      Options
	logger    *zap.Logger
}

// NewRouter creates a new router instance. websocket and metrics may be
// nil; their routes are then not mounted.
func NewRouter(
	commands handlers.CommandSender,
	queries handlers.QueryAsker,
	websocket http.HandlerFunc,
	metrics *observability.Collector,
	checks []Check,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commands:  commands,
		queries:   queries,
		websocket: websocket,
		metrics:   metrics,
		checks:    checks,
		opts:      opts,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errs := pkgerrors.NewErrorHandler(rt.logger, rt.opts.Debug)

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	if rt.opts.Tracer != nil {
		router.Use(observability.TracingMiddleware(rt.opts.Tracer))
	}
	if rt.metrics != nil {
		router.Use(observability.MetricsMiddleware(rt.metrics))
	}
	router.Use(errs.Middleware)

	origins := rt.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		path := rt.opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, rt.metrics.Handler())
	}
	if rt.websocket != nil {
		router.Get("/ws", rt.websocket)
	}

	graph := handlers.NewGraphHandler(rt.commands, rt.queries, errs, rt.logger)
	courses := handlers.NewCourseHandler(rt.commands, rt.queries, errs, rt.logger)
	progress := handlers.NewProgressHandler(rt.commands, rt.queries, errs, rt.logger)
	limiter := middleware.NewRateLimiter(rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/graph", func(r chi.Router) {
			r.Get("/", graph.GetGraph)
			r.Get("/nodes/{nodeID}", graph.GetNode)
			r.Post("/select", graph.SelectNode)
			r.Post("/drag/start", graph.StartDrag)
			r.Post("/drag/move", graph.DragNode)
			r.Post("/drag/stop", graph.StopDrag)
			r.Post("/categories/{categoryID}/toggle", graph.ToggleCategory)
			r.Post("/center", graph.Center)
			r.Post("/regenerate", graph.Regenerate)
			r.Post("/reset", graph.Reset)
			r.Post("/cursor", graph.SetCursor)
			r.Delete("/cursor", graph.ClearCursor)
			r.Put("/layout", graph.SetLayoutMode)
		})

		r.Get("/categories", courses.ListCategories)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courses.ListCourses)
			r.Post("/", courses.CreateCourse)
			r.With(limiter.Handler(errs)).Post("/generate", courses.GenerateCourse)

			r.Route("/{courseID}", func(r chi.Router) {
				r.Get("/", courses.GetCourse)
				r.Delete("/", courses.DeleteCourse)
				r.Post("/share", courses.ShareCourse)
				r.Get("/progress", progress.GetProgress)

				r.Route("/lessons/{lessonKey}", func(r chi.Router) {
					r.Post("/complete", progress.CompleteLesson)
					r.Delete("/complete", progress.UncompleteLesson)
					r.Put("/note", progress.SaveNote)
					r.Post("/bookmark", progress.ToggleBookmark)
				})
			})
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errs.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errs.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// checkResult is one entry of the /ready response.
type checkResult struct {
	Status   string `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	ready := true
	results := make(map[string]checkResult, len(rt.checks))
	for _, c := range rt.checks {
		res := checkResult{Status: "ok", Critical: c.Critical}
		if err := c.Probe(ctx); err != nil {
			res.Status = "failing"
			res.Error = err.Error()
			if c.Critical {
				ready = false
			}
			rt.logger.Warn("Readiness check failed",
				zap.String("check", c.Name),
				zap.Bool("critical", c.Critical),
				zap.Error(err),
			)
		}
		results[c.Name] = res
	}

	status, label := http.StatusOK, "ready"
	if !ready {
		status, label = http.StatusServiceUnavailable, "not ready"
	}
	common.RespondJSON(w, status, map[string]interface{}{
		"status": label,
		"checks": results,
	})
}

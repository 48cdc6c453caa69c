package di

import (
	"context"
	"fmt"
	"time"

	"fillai-backend/application/commands/bus"
	commandhandlers "fillai-backend/application/commands/handlers"
	"fillai-backend/application/ports"
	querybus "fillai-backend/application/queries/bus"
	queryhandlers "fillai-backend/application/queries/handlers"
	"fillai-backend/application/services"
	domainservices "fillai-backend/domain/services"
	"fillai-backend/infrastructure/config"
	"fillai-backend/infrastructure/coursegen"
	"fillai-backend/infrastructure/messaging/eventbridge"
	"fillai-backend/infrastructure/messaging/logging"
	"fillai-backend/infrastructure/observability"
	"fillai-backend/infrastructure/persistence"
	"fillai-backend/infrastructure/persistence/badger"
	"fillai-backend/infrastructure/persistence/dynamodb"
	"fillai-backend/infrastructure/persistence/memory"
	"fillai-backend/interfaces/http/rest"
	"fillai-backend/interfaces/websocket"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// metricsNamespace prefixes every Prometheus metric.
const metricsNamespace = "fillai"

// readyProbeKey is read by the storage readiness check. It never exists.
const readyProbeKey = "__ready_probe"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWS.Region),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideTracerProvider sets up OpenTelemetry. The cleanup flushes pending
// spans.
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: string(cfg.Environment),
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.Tracing.Enabled {
		logger.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.Endpoint))
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTracer returns the service tracer.
func ProvideTracer(tp *observability.TracerProvider) trace.Tracer {
	return tp.Tracer()
}

// ProvideCollector returns nil when metrics are disabled.
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewCollector(metricsNamespace)
}

// ProvideMetrics keeps a disabled collector a nil interface.
func ProvideMetrics(c *observability.Collector) ports.Metrics {
	if c == nil {
		return nil
	}
	return c
}

// ProvideKeyValueStore opens the configured storage backend.
func ProvideKeyValueStore(
	cfg *config.Config,
	client *awsdynamodb.Client,
	collector *observability.Collector,
	logger *zap.Logger,
) (ports.KeyValueStore, func(), error) {
	var store ports.KeyValueStore
	switch cfg.Storage.Backend {
	case config.StorageBadger:
		s, err := badger.Open(badger.DefaultConfig(cfg.Storage.BadgerPath), logger)
		if err != nil {
			return nil, nil, err
		}
		store = s
	case config.StorageDynamoDB:
		store = dynamodb.NewKVStore(client, cfg.Storage.TableName, logger)
	case config.StorageMemory:
		store = memory.NewKVStore()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	logger.Info("Storage opened", zap.String("backend", cfg.Storage.Backend))
	store = observability.InstrumentKV(store, collector)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close storage", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

func ProvideProgressRepository(store ports.KeyValueStore, logger *zap.Logger) ports.ProgressRepository {
	return persistence.NewProgressRepository(store, logger)
}

func ProvideLayoutRepository(store ports.KeyValueStore, logger *zap.Logger) ports.LayoutRepository {
	return persistence.NewLayoutRepository(store, logger)
}

func ProvideCatalogRepository(store ports.KeyValueStore, logger *zap.Logger) ports.CatalogRepository {
	return persistence.NewCatalogRepository(store, logger)
}

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// to the log otherwise.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if !cfg.Events.Enabled {
		return logging.NewPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.Events.EventBusName, logger)
}

// ProvideGenerators creates the remote generator and the mock fallback.
// Without a base URL the mock serves every request.
func ProvideGenerators(cfg *config.Config, logger *zap.Logger) Generators {
	mock := coursegen.NewMockGenerator()
	if cfg.Generator.BaseURL == "" {
		logger.Warn("No generator URL configured, using the local generator")
		return Generators{Remote: mock}
	}

	client := coursegen.NewClient(coursegen.ClientConfig{
		BaseURL:         cfg.Generator.BaseURL,
		Timeout:         cfg.Generator.Timeout,
		BreakerFailures: cfg.Generator.BreakerFailures,
		BreakerTimeout:  cfg.Generator.BreakerTimeout,
		BreakerInterval: cfg.Generator.BreakerInterval,
	}, logger)

	g := Generators{Remote: client, Client: client}
	if cfg.Generator.MockFallback {
		g.Fallback = mock
	}
	return g
}

func ProvideLayoutBuilder(cfg *config.Config) *domainservices.LayoutBuilder {
	return domainservices.NewLayoutBuilder(cfg.Layout)
}

func ProvideGraphSession(builder *domainservices.LayoutBuilder, cfg *config.Config, logger *zap.Logger) (*services.GraphSession, error) {
	return services.NewGraphSession(builder, cfg.Layout.Mode, logger.Named("session"))
}

func ProvideStateService(
	session *services.GraphSession,
	catalog ports.CatalogRepository,
	layout ports.LayoutRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *services.StateService {
	return services.NewStateService(session, catalog, layout, cfg.SeedDemo, logger.Named("state"))
}

// ProvideSimulationService creates the simulation and points it at the hub.
func ProvideSimulationService(
	session *services.GraphSession,
	hub *websocket.Hub,
	metrics ports.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *services.SimulationService {
	sim := services.NewSimulationService(session, cfg.Physics, cfg.Layout, metrics, logger.Named("simulation"))
	sim.SetFrameSink(hub)
	return sim
}

// ProvideHub creates the websocket hub.
func ProvideHub(collector *observability.Collector, logger *zap.Logger) *websocket.Hub {
	var gauge websocket.ConnectionGauge
	if collector != nil {
		gauge = collector
	}
	return websocket.NewHub(gauge, logger.Named("hub"))
}

func ProvideWebSocketServer(hub *websocket.Hub, commandBus *bus.CommandBus, cfg *config.Config, logger *zap.Logger) *websocket.Server {
	wsCfg := websocket.DefaultServerConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		wsCfg.AllowedOrigins = cfg.CORS.AllowedOrigins
	}
	return websocket.NewServer(hub, commandBus, wsCfg, logger.Named("websocket"))
}

func ProvideGraphCommandHandler(
	session *services.GraphSession,
	state *services.StateService,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commandhandlers.GraphHandler {
	return commandhandlers.NewGraphHandler(session, state, publisher, logger)
}

func ProvideCourseCommandHandler(
	session *services.GraphSession,
	catalog ports.CatalogRepository,
	progress ports.ProgressRepository,
	generators Generators,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *commandhandlers.CourseHandler {
	return commandhandlers.NewCourseHandler(
		session,
		catalog,
		progress,
		generators.Remote,
		generators.Fallback,
		publisher,
		metrics,
		cfg.PublicBaseURL,
		logger,
	)
}

func ProvideProgressCommandHandler(
	session *services.GraphSession,
	progress ports.ProgressRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *commandhandlers.ProgressHandler {
	return commandhandlers.NewProgressHandler(session, progress, publisher, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// registerCommand binds the handler of command type C.
func registerCommand[C bus.Command](b *bus.CommandBus, handle func(context.Context, C) error) error {
	var zero C
	return b.Register(zero, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			typed, ok := cmd.(C)
			if !ok {
				return fmt.Errorf("invalid command type %T", cmd)
			}
			return handle(ctx, typed)
		},
	})
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	graph *commandhandlers.GraphHandler,
	course *commandhandlers.CourseHandler,
	progress *commandhandlers.ProgressHandler,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	b := bus.NewCommandBus(
		bus.TracingMiddleware(tracer),
		bus.LoggingMiddleware(logger.Named("commands")),
	)

	registrations := []error{
		registerCommand(b, graph.HandleSelectNode),
		registerCommand(b, graph.HandleStartDrag),
		registerCommand(b, graph.HandleDragNode),
		registerCommand(b, graph.HandleStopDrag),
		registerCommand(b, graph.HandleToggleCategory),
		registerCommand(b, graph.HandleCenterGraph),
		registerCommand(b, graph.HandleRegenerateGraph),
		registerCommand(b, graph.HandleResetGraph),
		registerCommand(b, graph.HandleSetCursor),
		registerCommand(b, graph.HandleSetLayoutMode),

		registerCommand(b, course.HandleGenerateCourse),
		registerCommand(b, course.HandleCreateCourse),
		registerCommand(b, course.HandleShareCourse),
		registerCommand(b, course.HandleDeleteCourse),

		registerCommand(b, progress.HandleCompleteLesson),
		registerCommand(b, progress.HandleUncompleteLesson),
		registerCommand(b, progress.HandleSaveNote),
		registerCommand(b, progress.HandleToggleBookmark),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// registerQuery binds the handler of query type Q.
func registerQuery[Q querybus.Query, R any](b *querybus.QueryBus, handle func(context.Context, Q) (R, error)) error {
	var zero Q
	return b.Register(zero, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			typed, ok := query.(Q)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return handle(ctx, typed)
		},
	})
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	session *services.GraphSession,
	progress ports.ProgressRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	b := querybus.NewQueryBus(querybus.TracingMiddleware(tracer))
	graph := queryhandlers.NewGraphQueryHandler(session, logger)
	courses := queryhandlers.NewCourseQueryHandler(session, progress, logger)

	registrations := []error{
		registerQuery(b, graph.HandleGetGraphData),
		registerQuery(b, graph.HandleGetNode),
		registerQuery(b, courses.HandleListCategories),
		registerQuery(b, courses.HandleListCourses),
		registerQuery(b, courses.HandleGetCourse),
		registerQuery(b, courses.HandleGetCourseProgress),
	}
	for _, err := range registrations {
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ProvideReadinessChecks probes storage and the generator. The generator
// only matters when there is no fallback.
func ProvideReadinessChecks(store ports.KeyValueStore, generators Generators) []rest.Check {
	return []rest.Check{
		{
			Name:     "storage",
			Critical: true,
			Probe: func(ctx context.Context) error {
				_, err := store.Get(ctx, readyProbeKey)
				if err != nil && !pkgerrors.IsNotFound(err) {
					return err
				}
				return nil
			},
		},
		{
			Name:     "generator",
			Critical: generators.Fallback == nil,
			Probe:    generators.Remote.Health,
		},
	}
}

// ProvideRouter creates the HTTP router.
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	ws *websocket.Server,
	collector *observability.Collector,
	checks []rest.Check,
	tracer trace.Tracer,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(
		commandBus,
		queryBus,
		ws.HandleWebSocket,
		collector,
		checks,
		rest.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			MetricsPath:    cfg.Metrics.Path,
			Debug:          cfg.IsDevelopment(),
			Tracer:         tracer,
		},
		logger.Named("http"),
	)
}

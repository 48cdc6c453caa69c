// Package di wires the application together.
package di

import (
	"fillai-backend/application/commands/bus"
	"fillai-backend/application/ports"
	querybus "fillai-backend/application/queries/bus"
	"fillai-backend/application/services"
	"fillai-backend/infrastructure/config"
	"fillai-backend/infrastructure/coursegen"
	"fillai-backend/infrastructure/observability"
	"fillai-backend/interfaces/http/rest"
	"fillai-backend/interfaces/websocket"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      ports.KeyValueStore
	Session    *services.GraphSession
	State      *services.StateService
	Simulation *services.SimulationService
	Generators Generators
	Hub        *websocket.Hub
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Router     *rest.Router
	// Metrics is nil when metrics are disabled.
	Metrics *observability.Collector
}

// Generators are the remote course generator and its local fallback.
// Fallback is nil when the fallback is switched off.
type Generators struct {
	Remote   ports.CourseGenerator
	Fallback ports.CourseGenerator
	// Client is the remote HTTP client when Remote is one.
	Client *coursegen.Client
}

package bus

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Query represents a read-only query
type Query interface {
	Validate() error
}

// QueryHandler handles a specific query type
type QueryHandler interface {
	Handle(ctx context.Context, query Query) (interface{}, error)
}

// QueryHandlerFunc is an adapter to allow functions to be used as handlers
type QueryHandlerFunc func(ctx context.Context, query Query) (interface{}, error)

// Handle implements QueryHandler
func (f QueryHandlerFunc) Handle(ctx context.Context, query Query) (interface{}, error) {
	return f(ctx, query)
}

// Middleware wraps a query handler.
type Middleware func(next QueryHandler) QueryHandler

// QueryBus routes graph and catalog reads to their handlers by query type.
type QueryBus struct {
	mu         sync.RWMutex
	handlers   map[reflect.Type]QueryHandler
	middleware []Middleware
}

// NewQueryBus creates a bus whose handlers are wrapped by middleware, first
// one outermost.
func NewQueryBus(middleware ...Middleware) *QueryBus {
	return &QueryBus{
		handlers:   make(map[reflect.Type]QueryHandler),
		middleware: middleware,
	}
}

// Register binds handler to the concrete type of query.
func (b *QueryBus) Register(query Query, handler QueryHandler) error {
	t := reflect.TypeOf(query)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.handlers[t]; dup {
		return fmt.Errorf("handler already registered for query type %s", t.Name())
	}
	for i := len(b.middleware) - 1; i >= 0; i-- {
		handler = b.middleware[i](handler)
	}
	b.handlers[t] = handler
	return nil
}

// Ask validates query and returns its handler's result.
func (b *QueryBus) Ask(ctx context.Context, query Query) (interface{}, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("query validation failed: %w", err)
	}

	b.mu.RLock()
	handler, ok := b.handlers[reflect.TypeOf(query)]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for query type %T", query)
	}
	return handler.Handle(ctx, query)
}

// TracingMiddleware records one span per query, named after its type.
func TracingMiddleware(tracer trace.Tracer) Middleware {
	return func(next QueryHandler) QueryHandler {
		return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
			queryType := reflect.TypeOf(query).Name()
			ctx, span := tracer.Start(ctx, "query "+queryType,
				trace.WithAttributes(attribute.String("query.type", queryType)),
			)
			defer span.End()

			res, err := next.Handle(ctx, query)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return res, err
		})
	}
}

// Package coursegen talks to the course generation backend and provides the
// local mock used when it is unreachable.
package coursegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fillai-backend/domain/core/entities"
	pkgerrors "fillai-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const serviceName = "course generator"

// ClientConfig configures the HTTP client and its circuit breaker.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration

	// The breaker opens after BreakerFailures consecutive failures and
	// probes again after BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	BreakerInterval time.Duration
}

// Client is the remote course generator.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	now     func() time.Time
}

// rejectedError is a well-formed refusal from the backend. It does not
// count against the breaker.
type rejectedError struct {
	status  int
	message string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("generator rejected request (%d): %s", e.status, e.message)
}

// NewClient creates a new generator client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		now:     time.Now,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        serviceName,
			MaxRequests: 1,
			Interval:    cfg.BreakerInterval,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				var rejected *rejectedError
				return err == nil || errors.As(err, &rejected) || errors.Is(err, context.Canceled)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// Generate asks the backend for a course. Every failure is returned as an
// ExternalError.
func (c *Client) Generate(ctx context.Context, settings entities.GenerationSettings) (*entities.Course, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generate(ctx, settings)
	})
	if err != nil {
		return nil, pkgerrors.NewExternalError(serviceName, err)
	}
	return result.(*entities.Course), nil
}

func (c *Client) generate(ctx context.Context, settings entities.GenerationSettings) (*entities.Course, error) {
	body, err := json.Marshal(generateRequest{Settings: ToBackendSettings(settings)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/courses/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out generateResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &rejectedError{status: resp.StatusCode, message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if !out.Success || out.Course == nil {
		msg := out.Error
		if msg == "" {
			msg = "failed to generate course"
		}
		return nil, &rejectedError{status: resp.StatusCode, message: msg}
	}

	course := ToCourse(out.Course, c.now())
	c.logger.Info("Course generated",
		zap.String("topic", settings.Topic),
		zap.Int("modules", len(course.Modules)),
		zap.Int("lessons", course.TotalLessons()),
		zap.Duration("took", c.now().Sub(start)),
	)
	return course, nil
}

// Health checks GET /health on the backend.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return pkgerrors.NewExternalError(serviceName, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.NewExternalError(serviceName, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.NewExternalError(serviceName, fmt.Errorf("health returned status %d", resp.StatusCode))
	}
	return nil
}

// State reports the breaker state, for readiness output.
func (c *Client) State() string {
	return c.breaker.State().String()
}

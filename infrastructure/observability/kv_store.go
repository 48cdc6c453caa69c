package observability

import (
	"context"
	"time"

	"fillai-backend/application/ports"
)

// instrumentedKV records the outcome and latency of every store call.
type instrumentedKV struct {
	next ports.KeyValueStore
	c    *Collector
}

// InstrumentKV wraps store so its operations show up in the collector.
// A nil collector returns store unchanged.
func InstrumentKV(store ports.KeyValueStore, c *Collector) ports.KeyValueStore {
	if c == nil {
		return store
	}
	return &instrumentedKV{next: store, c: c}
}

func (s *instrumentedKV) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.c.StoreOperations.WithLabelValues(op, status).Inc()
	s.c.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedKV) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return v, err
}

func (s *instrumentedKV) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *instrumentedKV) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.observe("delete", start, err)
	return err
}

func (s *instrumentedKV) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	start := time.Now()
	v, err := s.next.List(ctx, prefix)
	s.observe("list", start, err)
	return v, err
}

func (s *instrumentedKV) Close() error {
	return s.next.Close()
}

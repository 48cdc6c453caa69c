// Package badger stores key-value blobs in an embedded BadgerDB.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	pkgerrors "fillai-backend/pkg/errors"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Config configures the database.
type Config struct {
	Path     string
	InMemory bool

	// GCInterval is how often the value log is compacted. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
}

// DefaultConfig returns a persistent configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:           path,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a configuration that never touches disk.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// KVStore implements ports.KeyValueStore on BadgerDB.
type KVStore struct {
	db     *badger.DB
	logger *zap.Logger

	stopGC    chan struct{}
	gcDone    chan struct{}
	closeOnce sync.Once
}

// zapLogger adapts zap to badger's logger interface.
type zapLogger struct {
	l *zap.SugaredLogger
}

func (z zapLogger) Errorf(f string, a ...interface{})   { z.l.Errorf(f, a...) }
func (z zapLogger) Warningf(f string, a ...interface{}) { z.l.Warnf(f, a...) }
func (z zapLogger) Infof(f string, a ...interface{})    { z.l.Debugf(f, a...) }
func (z zapLogger) Debugf(f string, a ...interface{})   { z.l.Debugf(f, a...) }

// Open opens or creates the database.
func Open(cfg Config, logger *zap.Logger) (*KVStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required for persistent database")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(zapLogger{l: logger.Named("badger").Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	s := &KVStore{db: db, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		s.stopGC = make(chan struct{})
		s.gcDone = make(chan struct{})
		go s.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	logger.Info("Badger store opened",
		zap.String("path", cfg.Path),
		zap.Bool("inMemory", cfg.InMemory),
	)
	return s, nil
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, pkgerrors.NewNotFoundError("key " + key)
	}
	if err != nil {
		return nil, pkgerrors.NewStorageError("get", err)
	}
	return value, nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return pkgerrors.NewStorageError("set", err)
	}
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return pkgerrors.NewStorageError("delete", err)
	}
	return nil
}

// List scans keys by prefix.
func (s *KVStore) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	out := make(map[string][]byte)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out[string(item.KeyCopy(nil))] = v
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.NewStorageError("list", err)
	}
	return out, nil
}

// Close stops the GC loop and closes the database.
func (s *KVStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.stopGC != nil {
			close(s.stopGC)
			<-s.gcDone
		}
		err = s.db.Close()
	})
	return err
}

func (s *KVStore) runGC(interval time.Duration, ratio float64) {
	defer close(s.gcDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.logger.Warn("Badger value log GC failed", zap.Error(err))
			}
		}
	}
}

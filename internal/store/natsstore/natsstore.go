// Package natsstore backs the shared document store with a NATS JetStream
// key-value bucket. Each document path maps to one KV key; watchers deliver
// the full value on every put, which matches the store contract exactly.
package natsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/store"
)

// Config holds connection settings for the JetStream KV backend.
type Config struct {
	URL           string
	Bucket        string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns defaults suitable for a local NATS server.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Bucket:        "BOARD_STATE",
		MaxReconnects: -1, // infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Store is a JetStream-KV-backed document store.
type Store struct {
	nc *nats.Conn
	kv jetstream.KeyValue
}

// New connects to NATS and creates (or opens) the state bucket.
func New(ctx context.Context, config Config) (*Store, error) {
	opts := []nats.Option{
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      config.Bucket,
		Description: "buzzboard shared board state",
		History:     1, // last write wins; no history kept
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("open KV bucket %s: %w", config.Bucket, err)
	}

	log.Info().Str("bucket", config.Bucket).Msg("connected to JetStream KV store")

	return &Store{nc: nc, kv: kv}, nil
}

// Read returns the current document at path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, bool, error) {
	entry, err := s.kv.Get(ctx, path)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, store.NewPersistenceError("read", path, err)
	}
	return entry.Value(), true, nil
}

// Write replaces the document at path. Put carries no revision check, so the
// most recent write fully replaces prior content.
func (s *Store) Write(ctx context.Context, path string, value []byte) error {
	if _, err := s.kv.Put(ctx, path, value); err != nil {
		return store.NewPersistenceError("write", path, err)
	}
	return nil
}

// Subscribe watches path and invokes fn with the full value of every put.
func (s *Store) Subscribe(ctx context.Context, path string, fn store.ChangeFunc) (store.Unsubscribe, error) {
	watcher, err := s.kv.Watch(ctx, path, jetstream.UpdatesOnly())
	if err != nil {
		return nil, store.NewPersistenceError("subscribe", path, err)
	}

	go func() {
		for entry := range watcher.Updates() {
			if entry == nil {
				// Marker signalling the initial replay is done.
				continue
			}
			if entry.Operation() != jetstream.KeyValuePut {
				continue
			}
			fn(path, entry.Value())
		}
	}()

	return func() {
		if err := watcher.Stop(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to stop KV watcher")
		}
	}, nil
}

// Close drains the NATS connection.
func (s *Store) Close() error {
	if s.nc != nil {
		s.nc.Close()
	}
	return nil
}

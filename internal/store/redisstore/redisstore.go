// Package redisstore backs the shared document store with Redis: documents
// live in plain keys, and change fan-out rides pub/sub. The published payload
// is the full new document, so subscribers never need a follow-up read.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"buzzboard/internal/store"
)

const (
	keyPrefix     = "buzzboard:doc:"
	channelPrefix = "buzzboard:changes:"
)

// Config holds connection settings for the Redis backend.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// DefaultConfig returns defaults suitable for a local Redis server.
func DefaultConfig() Config {
	return Config{Addr: "localhost:6379"}
}

// Store is a Redis-backed document store.
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		return nil, fmt.Errorf("connect to Redis at %s: %w", config.Addr, err)
	}

	log.Info().Str("addr", config.Addr).Msg("connected to Redis store")
	return &Store{client: client}, nil
}

// Read returns the current document at path.
func (s *Store) Read(ctx context.Context, path string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, keyPrefix+path).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, store.NewPersistenceError("read", path, err)
	}
	return value, true, nil
}

// Write replaces the document at path and publishes the new value to the
// path's change channel. SET then PUBLISH are not atomic together; two racing
// writers can interleave, which is the documented last-write-wins behavior.
func (s *Store) Write(ctx context.Context, path string, value []byte) error {
	if err := s.client.Set(ctx, keyPrefix+path, value, 0).Err(); err != nil {
		return store.NewPersistenceError("write", path, err)
	}
	if err := s.client.Publish(ctx, channelPrefix+path, value).Err(); err != nil {
		return store.NewPersistenceError("write", path, err)
	}
	return nil
}

// Subscribe listens on the path's change channel and invokes fn with every
// published document.
func (s *Store) Subscribe(ctx context.Context, path string, fn store.ChangeFunc) (store.Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, channelPrefix+path)

	// Force the subscription to be established before returning so callers
	// don't miss writes issued right after Subscribe.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, store.NewPersistenceError("subscribe", path, err)
	}

	go func() {
		for msg := range pubsub.Channel() {
			fn(path, []byte(msg.Payload))
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to close Redis subscription")
		}
	}, nil
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

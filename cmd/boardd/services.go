package main

import (
	"context"
	"fmt"

	"buzzboard/internal/board"
	"buzzboard/internal/gateway"
	"buzzboard/internal/join"
	"buzzboard/internal/prefs"
	"buzzboard/internal/store"
	"buzzboard/internal/store/memstore"
	"buzzboard/internal/store/natsstore"
	"buzzboard/internal/store/redisstore"
)

// Services holds the wired application components.
type Services struct {
	Store   store.Store
	Board   *board.Service
	Gateway *gateway.Service
}

// setupStore opens the configured shared state store backend.
func setupStore(ctx context.Context, config *Config) (store.Store, error) {
	switch config.Store.Backend {
	case "nats":
		natsCfg := natsstore.DefaultConfig()
		natsCfg.URL = config.Store.NATS.URL
		natsCfg.Bucket = config.Store.NATS.Bucket
		return natsstore.New(ctx, natsCfg)
	case "redis":
		redisCfg := redisstore.Config{
			Addr:     config.Store.Redis.Addr,
			Password: config.Store.Redis.Password,
			DB:       config.Store.Redis.DB,
		}
		return redisstore.New(ctx, redisCfg)
	default:
		return memstore.New(), nil
	}
}

// setupServices wires the dependency chain:
// store backend → synchronization layer → join resolver → gateway.
func setupServices(ctx context.Context, config *Config) (*Services, error) {
	st, err := setupStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("setup store: %w", err)
	}

	boardSvc := board.NewService(st)
	if err := boardSvc.Start(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("start board sync: %w", err)
	}

	prefStore, err := prefs.NewStore(config.PrefsDir)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("setup prefs: %w", err)
	}

	resolver := join.NewResolver(boardSvc)
	gatewaySvc := gateway.NewService(gateway.DefaultConfig(), boardSvc, resolver, prefStore)

	return &Services{
		Store:   st,
		Board:   boardSvc,
		Gateway: gatewaySvc,
	}, nil
}

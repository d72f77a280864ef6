package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/hidvid/traderpark/backend/internal/external/kiwoom"
	"github.com/hidvid/traderpark/backend/pkg/config"
	"github.com/hidvid/traderpark/backend/pkg/httputil"
	"github.com/hidvid/traderpark/backend/pkg/logger"
	"github.com/hidvid/traderpark/backend/pkg/redis"
)

// app bundles the dependencies every command needs
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	loc    *time.Location
	redis  *redis.Client
	kiwoom *kiwoom.Client
}

// Close releases the Redis connection
func (rt *app) Close() {
	if err := rt.redis.Close(); err != nil {
		rt.log.WithError(err).Warn("Failed to close redis")
	}
}

// newApp loads config and builds the broker client.
// ⭐ SSOT: 의존성 조립 순서는 여기서만 (config → logger → redis → token store → http → kiwoom)
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	loc := cfg.Location()

	rdb, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if rdb.Enabled() {
		log.Info("Using Redis token store")
	}

	httpClient := httputil.New(cfg, log)
	store := kiwoom.NewTokenStore(rdb, log)
	client := kiwoom.NewClient(cfg.Kiwoom, httpClient, store, loc, log)

	log.WithFields(map[string]interface{}{
		"base_url": cfg.Kiwoom.BaseURL,
		"virtual":  cfg.Kiwoom.IsVirtual,
		"timezone": loc.String(),
	}).Debug("Kiwoom client initialized")

	return &app{
		cfg:    cfg,
		log:    log,
		loc:    loc,
		redis:  rdb,
		kiwoom: client,
	}, nil
}

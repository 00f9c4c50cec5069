package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/owms-dashboard/internal/cache"
	"github.com/GregMSThompson/owms-dashboard/internal/config"
	"github.com/GregMSThompson/owms-dashboard/internal/store"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Firebase  *auth.Client
	Cache     cache.Cache
	Location  *time.Location
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	slog.SetDefault(bs.Log)

	if err = cfg.Validate(); err != nil {
		return bs, fmt.Errorf("invalid config: %w", err)
	}
	bs.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return bs, err
	}
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Cache, err = InitCache(applicationCtx, cfg, bs.Log)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

// InitCache picks Redis when REDISADDR is set and the in-process LRU
// otherwise. An unreachable Redis is logged, not fatal: the cache already
// degrades to misses.
func InitCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		log.Info("widget cache: in-memory", "size", cfg.WidgetCacheSize)
		return cache.NewMemory(cfg.WidgetCacheSize, cfg.WidgetRefresh), nil
	}

	password := cfg.RedisPassword
	if cfg.RedisPasswordSecret != "" {
		var err error
		password, err = readSecret(ctx, cfg.ProjectID, cfg.RedisPasswordSecret)
		if err != nil {
			return nil, fmt.Errorf("redis password: %w", err)
		}
	}

	rc := cache.NewRedis(cfg.RedisAddr, password, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn("redis ping failed, continuing with fail-safe cache", "addr", cfg.RedisAddr, "error", err)
	} else {
		log.Info("widget cache: redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	}
	return rc, nil
}

func readSecret(ctx context.Context, projectID, secret string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()
	return store.NewSecretsStore(client, projectID).Get(ctx, secret)
}

func (bs *Bootstrap) Close() {
	if bs.Cache != nil {
		if err := bs.Cache.Close(); err != nil {
			bs.Log.Warn("cache close failed", "error", err)
		}
	}
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("firestore close failed", "error", err)
		}
	}
}

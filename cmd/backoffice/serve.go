package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"katydid-backoffice-forms/pkg/cache"
	"katydid-backoffice-forms/pkg/config"
	"katydid-backoffice-forms/pkg/facade"
	"katydid-backoffice-forms/pkg/idgen/snowflake"
	"katydid-backoffice-forms/pkg/logger"
	"katydid-backoffice-forms/pkg/server"
	"katydid-backoffice-forms/pkg/store"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (YAML); env BACKOFFICE_* overrides")
	return cmd
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Forms.Location()
	if err != nil {
		return err
	}
	reg, err := newRegistry(log.Named("forms"), loc)
	if err != nil {
		return fmt.Errorf("register entities: %w", err)
	}

	db, err := store.Open(cfg.Database, log.Named("db"))
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ids, err := snowflake.New(cfg.IDGen, snowflake.WithLogger(log.Named("idgen")))
	if err != nil {
		return fmt.Errorf("id generator: %w", err)
	}

	codes, closeCodes, err := codeFacade(ctx, cfg.Redis, store.NewCodeStore(db), log)
	if err != nil {
		return err
	}
	defer closeCodes()

	gin.SetMode(cfg.Server.Mode)
	router := server.NewRouter(server.Deps{
		Registry:      reg,
		Discounts:     store.NewDiscountStore(db, ids, log.Named("discounts")),
		StoreProducts: store.NewStoreProductStore(db, ids, log.Named("store-products")),
		Codes:         codes,
		Resources:     store.NewResourceStore(db),
		Logger:        log.Named("http"),
		Auth:          server.AuthConfig{Secret: cfg.Auth.JWTSecret, Issuer: cfg.Auth.Issuer},
	})
	return server.Run(ctx, cfg.Server.Addr, router, cfg.Server.ShutdownTimeout, log)
}

// codeFacade 启用 Redis 时使用 Redis 缓存，否则使用进程内缓存
func codeFacade(ctx context.Context, cfg cache.Config, next facade.CommonCodeFacade, log *zap.Logger) (facade.CommonCodeFacade, func(), error) {
	if !cfg.Enabled {
		return cache.NewCodeFacade(next, cache.NewMemory(), cfg.TTL, log), func() {}, nil
	}
	client := cache.NewRedisClient(cfg)
	rc := cache.NewRedis(client, cfg.Prefix)
	if err := rc.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	log.Info("code cache backed by redis", zap.String("addr", cfg.Addr))
	return cache.NewCodeFacade(next, rc, cfg.TTL, log), func() { _ = client.Close() }, nil
}

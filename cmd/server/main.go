package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/karyawan-web/internal/adapters/http/handler"
	"github.com/ogurasousui/karyawan-web/internal/adapters/http/session"
	"github.com/ogurasousui/karyawan-web/internal/adapters/http/view"
	"github.com/ogurasousui/karyawan-web/internal/adapters/repository/postgres"
	"github.com/ogurasousui/karyawan-web/internal/core/employee"
	"github.com/ogurasousui/karyawan-web/internal/platform/config"
	pg "github.com/ogurasousui/karyawan-web/internal/platform/db/postgres"
	"github.com/ogurasousui/karyawan-web/internal/platform/logger"
	"github.com/ogurasousui/karyawan-web/internal/platform/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	appLogger, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	dbPool, err := pg.NewPool(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	employeeSvc := employee.NewService(employeeRepo, nil, pg.NewTransactionManager(dbPool))

	flash := session.NewStore([]byte(cfg.Server.SessionSecret))
	httpServer := server.New(cfg.Server, appLogger, renderer, flash, server.NewMetrics(employeeRepo),
		handler.NewEmployeeHandler(employeeSvc, flash))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info().Str("addr", cfg.Server.ListenAddr).Msg("HTTP server listening")
		return httpServer.Run(gctx)
	})

	if cfg.Server.AdminListenAddr != "" {
		adminServer := server.NewAdminServer(cfg.Server.AdminListenAddr, dbPool, appLogger)
		g.Go(func() error {
			appLogger.Info().Str("addr", cfg.Server.AdminListenAddr).Msg("admin gRPC server listening")
			return adminServer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

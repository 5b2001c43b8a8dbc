// Package main wires the HTTP server for the review consensus service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"review-consensus-guard/internal/transport/http/server/handlers-fiber"
	"review-consensus-guard/internal/usecase"

	"review-consensus-guard/config"
	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/gitref"
	api "review-consensus-guard/internal/oapi"
	"review-consensus-guard/internal/repository"
	"review-consensus-guard/internal/transport/http/middleware"
	"review-consensus-guard/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	refs, err := gitref.New(cfg.Refs.Backend, log, cfg)
	if err != nil {
		log.Errorw("ref store initialization error", "error", err, "backend", cfg.Refs.Backend)
		return
	}

	timeout := cfg.HTTP.RequestTimeout
	uc := usecase.New(log, ctx, repo, timeout, usecase.Options{
		Refs:    refs,
		Tagger:  entities.PersonIdent{Name: cfg.System.Name, Email: cfg.System.Email},
		Combine: entities.CombineStrategy(cfg.Protection.Combine),

		RefTimeout: cfg.RefsTimeout(),
	})

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log, "/healthz"))

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	h := handlers_fiber.NewHandler(log, uc)
	api.RegisterHandlers(serv, h)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}

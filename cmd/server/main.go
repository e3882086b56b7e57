package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/communet/communet-api/internal/config"
	"github.com/communet/communet-api/internal/database"
	"github.com/communet/communet-api/internal/handler"
	"github.com/communet/communet-api/internal/middleware"
	"github.com/communet/communet-api/internal/queue"
	"github.com/communet/communet-api/internal/repository"
	"github.com/communet/communet-api/internal/router"
	"github.com/communet/communet-api/internal/service"
	"github.com/communet/communet-api/internal/sms"
)

func main() {
	cfg := config.Load()
	config.SetupLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is down
	if rdb != nil {
		defer rdb.Close()
	}

	accounts := repository.NewAccountRepo(db)
	tokens := repository.NewTokenRepo(db)
	geo := repository.NewGeographyRepo(db)

	var events service.EventPublisher // nil disables auth events
	if cfg.RabbitURL != "" {
		async := service.NewAsyncPublisher(service.NewRabbitPublisher(cfg.RabbitURL, cfg.EventTimeout), 256, cfg.EventTimeout)
		defer async.Close()
		events = async
	}
	auth := service.NewAuthService(cfg, accounts, tokens, sms.NewMsgClubClient(cfg.SMS), events)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuditConsumerEnabled && cfg.RabbitURL != "" {
		go queue.StartAuditConsumer(ctx, cfg.RabbitURL, cfg.AuditLogPath)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(), middleware.Prometheus())

	users := handler.NewUserHandler(accounts)
	api := router.API(e)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(api, handler.NewAuthHandler(auth), config.LoadRateLimitConfig(), rdb)
	router.RegisterMember(api, auth, users, handler.NewGeographyHandler(geo), config.LoadCacheConfig(), rdb)
	router.RegisterAdmin(api, auth, users)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

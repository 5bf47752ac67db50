package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "time/tzdata"

	"github.com/XavierBriggs/oddsboard/adapters/cuotasapi"
	"github.com/XavierBriggs/oddsboard/adapters/cuotasfile"
	"github.com/XavierBriggs/oddsboard/internal/board"
	"github.com/XavierBriggs/oddsboard/internal/config"
	"github.com/XavierBriggs/oddsboard/internal/publish"
	"github.com/XavierBriggs/oddsboard/internal/registry"
	"github.com/XavierBriggs/oddsboard/internal/render"
	"github.com/XavierBriggs/oddsboard/internal/scheduler"
	"github.com/XavierBriggs/oddsboard/internal/view"
	"github.com/XavierBriggs/oddsboard/internal/web"
	"github.com/XavierBriggs/oddsboard/pkg/contracts"
	"github.com/XavierBriggs/oddsboard/sports/soccer"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load("")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure logging")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.WithError(err).Fatal("failed to load display timezone")
	}

	source := newSource(cfg)
	log.WithField("source", source.Describe()).Info("odds source configured")

	sinks := registry.NewSinkRegistry()
	b := board.New(source, sinks, view.Options{
		Location: loc,
		Locale:   view.LocaleESPE,
		Order:    soccer.Order,
	}, log)

	if cfg.Terminal {
		mustRegister(log, sinks, render.NewTerminal(os.Stdout, cfg.Color))
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("failed to connect to Redis")
		}
		log.WithField("addr", cfg.RedisURL).Info("connected to Redis")

		mustRegister(log, sinks, publish.NewRedisPublisher(redisClient, b, cfg.CacheTTL, log))
	}

	var server *web.Server
	if cfg.HTTPAddr != "" {
		hub := web.NewHub(log)
		mustRegister(log, sinks, hub)

		server = web.NewServer(cfg.HTTPAddr, b, hub, log)
		go func() {
			if err := server.Start(); err != nil {
				log.WithError(err).Fatal("http server failed")
			}
		}()
	}

	log.WithField("sinks", sinks.Count()).Info("sinks registered")

	if cfg.League != "" {
		b.SelectLeague(ctx, cfg.League)
	}

	sched := scheduler.NewScheduler(cfg.PollInterval, b.Refresh, scheduler.WithLogger(log))
	if err := sched.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}

	log.WithFields(logrus.Fields{
		"interval": cfg.PollInterval,
		"timezone": loc.String(),
		"league":   cfg.League,
	}).Info("oddsboard started")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("http server shutdown")
		}
	}

	cancel()
	sched.Stop()

	log.Info("oddsboard stopped")
}

func newSource(cfg *config.Config) contracts.SnapshotSource {
	if cfg.SourceFile != "" {
		return cuotasfile.NewSource(cfg.SourceFile)
	}
	return cuotasapi.NewClient(cfg.Endpoint, cuotasapi.WithTimeout(cfg.RequestTimeout))
}

func mustRegister(log logrus.FieldLogger, sinks *registry.SinkRegistry, sink contracts.Sink) {
	if err := sinks.Register(sink); err != nil {
		log.WithError(err).WithField("sink", sink.Name()).Fatal("failed to register sink")
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wasupalonely/appointments-chatbot/bot/dialog"
	"github.com/wasupalonely/appointments-chatbot/bot/health"
	"github.com/wasupalonely/appointments-chatbot/bot/photos"
	"github.com/wasupalonely/appointments-chatbot/bot/presenter"
	"github.com/wasupalonely/appointments-chatbot/bot/session"
	"github.com/wasupalonely/appointments-chatbot/core/bootstrap"
	coreconfig "github.com/wasupalonely/appointments-chatbot/core/config"
	"github.com/wasupalonely/appointments-chatbot/core/logger"
	tg "github.com/wasupalonely/appointments-chatbot/core/telegram"
	"github.com/wasupalonely/appointments-chatbot/core/telegram/middleware"
	"github.com/wasupalonely/appointments-chatbot/core/telegram/router"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	boot, err := bootstrap.Run(cfg)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hs := health.NewServer(cfg.Health.Listen)
	go func() {
		if err := hs.Run(ctx); err != nil {
			logger.Health.Error("health server failed",
				slog.String("event", "health.run"),
				slog.String("err", err.Error()),
			)
		}
	}()

	setup := func(bot *tele.Bot) (tg.Wiring, error) {
		pres := presenter.New(bot, session.New())
		gallery := photos.NewGallery(cfg.Photos.Dir)
		flow := dialog.NewFlow(boot.Store, pres, gallery)

		reg := tg.NewRegistry()
		flow.Wire(reg)

		var middlewares []tg.Middleware
		if cfg.RateLimit.IntervalMS > 0 {
			exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
			for _, kind := range cfg.RateLimit.ExcludeUpdates {
				exclude[kind] = struct{}{}
			}
			middlewares = append(middlewares, tg.Middleware{
				Name: "rate_limit",
				Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
					Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
					Exclude:  exclude,
				}),
			})
		}

		routes := router.CommandRoutes(reg)
		routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
		routes = append(routes, router.TextRoutes(flow, reg, router.TextOptions{})...)

		return tg.Wiring{
			Registry:    reg,
			Middlewares: middlewares,
			Routes:      routes,
			OnStart: func(runCtx context.Context) error {
				hs.SetBotRunning(true)
				go pres.RunSweeper(runCtx, time.Hour)
				return nil
			},
			OnStop: func(context.Context) error {
				hs.SetBotRunning(false)
				return boot.Store.Close()
			},
		}, nil
	}

	if err := tg.Run(ctx, cfg, setup); err != nil {
		logger.L.Error("bot stopped",
			slog.String("event", "shutdown"),
			slog.String("err", err.Error()),
		)
		os.Exit(1)
	}
}

// Package bot wires the EventEase booking dialog to Telegram.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eventease/eventbot/booking"
	"github.com/eventease/eventbot/catalog"
	"github.com/eventease/eventbot/conversation"
	"github.com/eventease/eventbot/core/bootstrap"
	"github.com/eventease/eventbot/core/logger"
	coretelegram "github.com/eventease/eventbot/core/telegram"
	"github.com/eventease/eventbot/core/telegram/commands"
	"github.com/eventease/eventbot/core/telegram/router"
)

const (
	sessionMaxIdle       = 30 * time.Minute
	sessionEvictInterval = 5 * time.Minute
)

// App is the assembled bot: dialog engine, catalog access, and the
// booking ledger behind it.
type App struct {
	cfg    *Config
	store  *conversation.Store
	engine *conversation.Engine
	db     *sqlx.DB
}

// New bootstraps infrastructure and assembles the application.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Core.Catalog.TimeoutSeconds) * time.Second

	client, err := catalog.NewClient(cfg.Core.Catalog.BaseURL, timeout, cfg.Core.Catalog.Markup)
	if err != nil {
		_ = res.DB.Close()
		return nil, fmt.Errorf("bot: catalog client: %w", err)
	}

	finalizer, err := booking.NewFinalizer(cfg.Core.Catalog.BaseURL, timeout, booking.NewLedger(res.DB))
	if err != nil {
		_ = res.DB.Close()
		return nil, fmt.Errorf("bot: booking finalizer: %w", err)
	}

	store := conversation.NewStore()
	engine := conversation.NewEngine(store, client, finalizer, cfg.Core.Flow.SkipEventList)

	return &App{
		cfg:    cfg,
		store:  store,
		engine: engine,
		db:     res.DB,
	}, nil
}

// TelegramRunOptions builds the runtime wiring for the Telegram loop.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.commandHandler("/start"),
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/restart", commands.Command{
		Handler:     a.commandHandler("/restart"),
		Description: "Restart the booking dialog",
	})

	for _, key := range []string{cbMenu, cbCategories, cbInfo, cbContact, cbCategory, cbEvent, cbConfirm, cbBack} {
		if err := reg.RegisterCallback(key, a.callbackHandler(key)); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(textFlow{app: a}, reg, router.TextOptions{
		UnknownText: a.commandHandler("/start"),
	}))

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			go a.evictLoop(ctx)
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

// evictLoop drops idle sessions until the runtime shuts down.
func (a *App) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(sessionEvictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.store.EvictIdle(sessionMaxIdle); n > 0 {
				logger.Debug(ctx, "conversation", "sessions.evicted",
					slog.Int("evicted", n),
					slog.Int("remaining", a.store.Len()),
				)
			}
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vape-shop-api/internal/application/phoneauth"
	"github.com/vape-shop-api/internal/config"
	"github.com/vape-shop-api/internal/infrastructure/cache"
	"github.com/vape-shop-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/vape-shop-api/internal/infrastructure/jwt"
	"github.com/vape-shop-api/internal/infrastructure/lognotify"
	"github.com/vape-shop-api/internal/infrastructure/sns"
	"github.com/vape-shop-api/internal/infrastructure/sqlstore"
	"github.com/vape-shop-api/internal/infrastructure/telegram"
	transporthttp "github.com/vape-shop-api/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	setupLogger(cfg)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("jwt provider: %w", err)
	}
	deps.JWTProvider = jwtProvider

	notifier, err := newNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	deps.Notifier = notifier
	deps.LoginVerifier = telegram.NewLoginVerifier(cfg.TelegramBotToken, cfg.TelegramLoginMaxAge)

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		deps.BlockCache = cache.NewRedis(client, "vape:")
	} else {
		deps.BlockCache = cache.NewMemory()
	}

	deps.Sweeper = phoneauth.NewSweeper(deps.PhoneCodeRepo)
	if err := deps.Sweeper.Start(cfg.PhoneCodeSweepCron); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv,
			"store", cfg.StoreDriver, "notifier", notifier.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	deps.Sweeper.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// openStore wires the repositories of the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (*transporthttp.Deps, func(), error) {
	switch cfg.StoreDriver {
	case "dynamo":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		// Creates tables that don't exist yet.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return &transporthttp.Deps{
			UserRepo:      dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
			SessionRepo:   dynamo.NewSessionRepo(client, cfg.DynamoTables.Sessions),
			PhoneCodeRepo: dynamo.NewPhoneCodeRepo(client, cfg.DynamoTables.PhoneCodes),
			HomeBlockRepo: dynamo.NewHomeBlockRepo(client, cfg.DynamoTables.HomeBlocks),
			Ready: func(ctx context.Context) error {
				return dynamo.Ping(ctx, client, cfg.DynamoTables.PhoneCodes)
			},
		}, func() {}, nil
	case "sqlite", "postgres":
		db, err := sqlstore.Open(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlstore.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return &transporthttp.Deps{
			UserRepo:      sqlstore.NewUserRepo(db),
			SessionRepo:   sqlstore.NewSessionRepo(db),
			PhoneCodeRepo: sqlstore.NewPhoneCodeRepo(db),
			HomeBlockRepo: sqlstore.NewHomeBlockRepo(db),
			Ready: func(ctx context.Context) error {
				return sqlstore.Ping(ctx, db)
			},
		}, closeDB, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func newNotifier(ctx context.Context, cfg *config.Config) (phoneauth.Notifier, error) {
	switch cfg.NotifierDriver {
	case "telegram":
		if cfg.TelegramBotToken == "" {
			return nil, errors.New("NOTIFIER_DRIVER=telegram requires TELEGRAM_BOT_TOKEN")
		}
		bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramAPIURL, cfg.TelegramTimeout)
		if err != nil {
			return nil, err
		}
		return bot, nil
	case "sns":
		sender, err := sns.NewSender(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("sns sender: %w", err)
		}
		return sender, nil
	case "log":
		if cfg.IsProduction() {
			slog.Warn("log notifier in production: login codes are written to the log only")
		}
		return lognotify.New(slog.Default()), nil
	default:
		return nil, fmt.Errorf("unknown NOTIFIER_DRIVER %q", cfg.NotifierDriver)
	}
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/duelforge/duel-server-go/internal/catalog"
	"github.com/duelforge/duel-server-go/internal/config"
	"github.com/duelforge/duel-server-go/internal/duel"
	"github.com/duelforge/duel-server-go/internal/match"
	"github.com/duelforge/duel-server-go/internal/repository"
	"github.com/duelforge/duel-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Store: postgres when a DSN is configured, in-memory otherwise.
	var store repository.Store
	if cfg.Database.DSN != "" {
		connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		pg, pgErr := repository.NewPostgresStore(connectCtx, cfg.Database.DSN, logger)
		connectCancel()
		if pgErr != nil {
			logger.Fatal("failed to connect postgres store", zap.Error(pgErr))
		}
		defer pg.Close()
		store = pg
	} else {
		logger.Info("no database configured, using in-memory store")
		store = repository.NewMemoryStore()
	}

	cat := catalog.NewBuiltin()

	rules := duel.DefaultRules()
	rules.StartingLP = cfg.Game.StartingLP
	rules.OpeningHandSize = cfg.Game.OpeningHandSize
	rules.FatigueDamage = cfg.Game.FatigueDamage

	mgr := match.NewManager(cat, store, rules, logger)
	logger.Info("match manager initialized",
		zap.Int("starting_lp", rules.StartingLP),
		zap.Int("opening_hand", rules.OpeningHandSize),
	)

	hub := server.NewHub(mgr, logger)
	go hub.Run()

	mux := http.NewServeMux()
	hub.Routes(mux)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(serveErr))
		}
	}()

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}

	logger.Info("duel server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

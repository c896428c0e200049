package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/audit"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/auth"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/bot"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/bot/telegram"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/config"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/db"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/httpapi"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/i18n"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/model"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/prefs"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/records"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/report"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The snapshot and the model artifact are independent files; load them
	// side by side.
	var (
		rows     []records.ProjectRecord
		artifact *model.Artifact
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = records.LoadSnapshot(cfg.SnapshotPath)
		return err
	})
	g.Go(func() error {
		var err error
		artifact, err = model.LoadArtifact(cfg.ModelPath)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("startup load failed", "error", err)
	}
	local := records.NewLocal(rows)
	logger.Info("snapshot loaded", "rows", local.Len(), "path", cfg.SnapshotPath)

	// Preferences live in postgres when configured, otherwise in the local
	// sqlite file. The remote record backend only exists with postgres.
	var prefDB, remoteDB *gorm.DB
	if cfg.DatabaseURL != "" {
		pg, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres connect failed", "error", err)
		}
		prefDB, remoteDB = pg, pg
	} else {
		lite, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("sqlite open failed", "error", err)
		}
		prefDB = lite
		logger.Warn("no DATABASE_URL configured, remote lookups will fall back to the snapshot")
	}

	var cache *prefs.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, preference cache disabled", "error", err)
		} else {
			cache = prefs.NewCache(rdb, logger)
		}
	}

	prefStore := prefs.NewStore(prefDB, cache, logger)
	if err := prefStore.Migrate(); err != nil {
		logger.Fatal("preference migration failed", "error", err)
	}
	if err := auth.EnsureOperator(prefDB, cfg.OperatorUser, cfg.OperatorPassword); err != nil {
		logger.Fatal("operator seed failed", "error", err)
	}

	var resolver *records.Resolver
	if remoteDB != nil {
		resolver = records.NewResolver(local, records.NewRemote(remoteDB, cfg.RemoteTimeout), logger)
	} else {
		resolver = records.NewResolver(local, nil, logger)
	}

	var auditor analysis.Auditor
	if cfg.RabbitURL != "" {
		pub, err := audit.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue, logger)
		if err != nil {
			logger.Warn("audit queue unavailable, history disabled", "error", err)
		} else {
			defer pub.Close()
			auditor = pub
		}
	}

	catalog, err := i18n.Load()
	if err != nil {
		logger.Fatal("locale load failed", "error", err)
	}

	analyzer := analysis.NewService(resolver, artifact, auditor, logger)
	composer := report.NewComposer(catalog, logger)
	transport := telegram.NewClient(cfg.BotAPIBaseURL, cfg.BotToken)
	controller := bot.NewController(prefStore, analyzer, composer, transport, catalog, logger)

	router := httpapi.NewRouter(prefDB, cfg, controller, analyzer, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

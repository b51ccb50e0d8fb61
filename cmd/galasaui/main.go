package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/config"
	"github.com/xxxsen/galasaui/internal/featureflag"
	"github.com/xxxsen/galasaui/internal/filestore"
	"github.com/xxxsen/galasaui/internal/galasaapi"
	"github.com/xxxsen/galasaui/internal/handler"
	"github.com/xxxsen/galasaui/internal/i18n"
	"github.com/xxxsen/galasaui/internal/job"
	"github.com/xxxsen/galasaui/internal/middleware"
	"github.com/xxxsen/galasaui/internal/optcache"
	"github.com/xxxsen/galasaui/internal/pkg/timeutil"
	"github.com/xxxsen/galasaui/internal/repo"
	"github.com/xxxsen/galasaui/internal/schedule"
	"github.com/xxxsen/galasaui/internal/service"
	"github.com/xxxsen/galasaui/internal/view"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "galasaui",
		Short: "galasa test run explorer",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run galasaui server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer func() { _ = db.Close() }()
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json or config.yaml")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *repo.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("api_server", cfg.Galasa.APIServerURL),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("file_store", cfg.FileStore.Type),
	)

	loc, err := timeutil.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	catalog, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	renderer, err := view.New()
	if err != nil {
		return fmt.Errorf("init views: %w", err)
	}
	flags := featureflag.New(cfg.FeatureFlags)

	client := galasaapi.New(cfg.Galasa.APIServerURL, cfg.Galasa.ClientAPIVersion,
		&http.Client{Timeout: time.Duration(cfg.Galasa.TimeoutSeconds) * time.Second})
	options := optcache.New(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)

	tokenService := service.NewTokenService(client, cfg.WebUIURL, cfg.Galasa.WebUIClientID)
	runService := service.NewRunService(client, options, cfg.Galasa.MaxRecords)
	savedService := service.NewSavedQueryService(repo.NewSavedQueryRepo(db))
	exportService := service.NewExportService(runService, repo.NewExportRepo(db), store, loc)

	deps := handler.RouterDeps{
		Pages:          handler.NewPageHandler(runService, savedService, renderer, catalog, flags, loc),
		Tokens:         handler.NewTokenHandler(tokenService, renderer, catalog),
		Runs:           handler.NewRunsHandler(runService, loc),
		Flags:          handler.NewFeatureFlagHandler(flags),
		SavedQueries:   handler.NewSavedQueryHandler(savedService),
		Exports:        handler.NewExportHandler(exportService),
		FeatureFlags:   flags,
		Identity:       service.NewIdentityService(client, 0, time.Duration(cfg.Cache.TTLSeconds)*time.Second),
		LoginURL:       tokenService.LoginURL,
		TokenRateLimit: time.Duration(cfg.TokenRateLimitSeconds) * time.Second,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewExportCleanupJob(exportService, time.Duration(cfg.Schedule.ExportMaxAgeHours)*time.Hour), cfg.Schedule.ExportCleanup); err != nil {
		return fmt.Errorf("schedule export cleanup: %w", err)
	}
	if cfg.Galasa.ServiceToken != "" {
		tokens, err := galasaapi.NewTokenSource(client, cfg.Galasa.ServiceToken)
		if err != nil {
			return fmt.Errorf("service token: %w", err)
		}
		refresh := job.NewRunsRefreshJob(runService, tokens)
		warmup := job.NewOptionsWarmupJob(runService, tokens)
		if err := scheduler.AddJob(refresh, cfg.Schedule.RunsRefresh); err != nil {
			return fmt.Errorf("schedule runs refresh: %w", err)
		}
		if err := scheduler.AddJob(warmup, cfg.Schedule.OptionsWarmup); err != nil {
			return fmt.Errorf("schedule options warmup: %w", err)
		}
		go func() {
			_ = schedule.RunOnce(ctx, warmup)
			_ = schedule.RunOnce(ctx, refresh)
		}()
	} else {
		logutil.GetLogger(context.Background()).Info("no service token configured, shared run feed disabled")
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", addr), zap.Any("feature_flags", flags.All()))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}

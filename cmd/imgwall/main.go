package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/imgwall/internal/config"
	"github.com/xxxsen/imgwall/internal/filestore"
	"github.com/xxxsen/imgwall/internal/handler"
	"github.com/xxxsen/imgwall/internal/job"
	"github.com/xxxsen/imgwall/internal/repo"
	"github.com/xxxsen/imgwall/internal/schedule"
	"github.com/xxxsen/imgwall/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "imgwall",
		Short: "imgwall image board server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run imgwall server",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			logutil.GetLogger(context.Background()).Info("config loaded",
				zap.String("config", configPath), zap.Int("port", cfg.Port))

			db, err := repo.Open(cfg.DBPath)
			if err != nil {
				if db == nil {
					return fmt.Errorf("open db: %w", err)
				}
				// Keep serving; registry calls will fail until the db
				// comes back.
				logutil.GetLogger(context.Background()).Error("database unreachable, serving degraded", zap.Error(err))
			} else if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json (optional)")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sqlx.DB) error {
	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	imageRepo := repo.NewImageRepo(db)
	commentRepo := repo.NewCommentRepo(db)
	imageService := service.NewImageService(imageRepo, store)
	commentService := service.NewCommentService(commentRepo)

	router := handler.NewRouter(handler.RouterDeps{
		Images:            handler.NewImageHandler(imageService, cfg.MaxUploadSize),
		Comments:          handler.NewCommentHandler(commentService),
		Files:             handler.NewFileHandler(store),
		CORSAllowlist:     cfg.CORSAllowlist,
		CommentRateWindow: time.Duration(cfg.CommentRateWindowSec) * time.Second,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if cfg.Sweep.Enable {
		sweep := job.NewOrphanSweepJob(imageRepo, store, time.Duration(cfg.Sweep.MinAgeHours)*time.Hour)
		if err := scheduler.AddJob(sweep, cfg.Sweep.Cron); err != nil {
			return fmt.Errorf("schedule sweep: %w", err)
		}
	}
	scheduler.Start(ctx)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()
	logutil.GetLogger(context.Background()).Info("http server listening",
		zap.String("addr", addr), zap.String("file_store", store.Type()))

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

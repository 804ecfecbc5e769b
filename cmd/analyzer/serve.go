package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aria/video-analyzer/internal/api"
	"github.com/aria/video-analyzer/internal/cases"
	"github.com/aria/video-analyzer/internal/config"
	"github.com/aria/video-analyzer/internal/db"
	"github.com/aria/video-analyzer/internal/logging"
	"github.com/aria/video-analyzer/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review page and the case API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting aria video analyzer", "version", config.Version, "data_dir", logging.SanitizePath(cfg.DataDir()))

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	caseRepo := cases.NewRepository(database.Conn())
	if path := cfg.CasesFile(); path != "" {
		n, err := cases.ImportFile(ctx, caseRepo, path)
		if err != nil {
			return fmt.Errorf("failed to import cases: %w", err)
		}
		logger.Info("imported cases", "count", n, "file", logging.SanitizePath(path))
	}
	caseSvc := cases.NewService(caseRepo, logging.WithComponent(logger, "cases"))

	apiServer := api.NewServer(api.ServerConfig{
		BindAddr:    cfg.BindAddr(),
		Port:        cfg.Port(),
		Cases:       caseSvc,
		StaticDir:   cfg.StaticDir(),
		CORSOrigins: cfg.CORSOrigins(),
		Logger:      logging.WithComponent(logger, "api"),
		StartTime:   startTime,
		Version:     config.Version,
	})

	reviewURL := "http://" + apiServer.Addr()
	fmt.Println()
	fmt.Println("  ARIA Video Analyzer " + config.Version)
	fmt.Println("  Reviewer: " + reviewURL)
	fmt.Println()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	quitCh := make(chan struct{})

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			URL:    reviewURL,
			Logger: logging.WithComponent(logger, "tray"),
			CountCases: func() (int, error) {
				list, err := caseSvc.ListSummaries(context.Background())
				return len(list), err
			},
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig)
	case <-quitCh:
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}

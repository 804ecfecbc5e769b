package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aria/video-analyzer/internal/analysis"
	"github.com/aria/video-analyzer/internal/caseview"
	"github.com/aria/video-analyzer/internal/casesclient"
	"github.com/aria/video-analyzer/internal/config"
	"github.com/aria/video-analyzer/internal/deps"
	"github.com/aria/video-analyzer/internal/logging"
	"github.com/aria/video-analyzer/internal/mpv"
	"github.com/aria/video-analyzer/internal/player"
	"github.com/aria/video-analyzer/internal/tui"
)

var reviewCaseID string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review a case in the terminal console",
	Long: `Open the terminal review console. Cases are fetched from a running
analyzer server (ARIA_SERVER_URL) and the video plays in mpv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd.Context(), reviewCaseID)
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewCaseID, "case", "", "case to open first (default ARIA_DEFAULT_CASE)")
}

func runReview(ctx context.Context, caseID string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := deps.CheckMpv(); err != nil {
		return err
	}
	if caseID == "" {
		caseID = cfg.DefaultCase()
	}

	logger, closer, err := logging.NewFileLogger(cfg.LogPath(), cfg.LogLevel())
	if err != nil {
		return err
	}
	defer closer.Close()
	logger = logging.WithComponent(logger, "review")
	logger.Info("starting review console", "version", config.Version, "server_url", cfg.ServerURL(), "case_id", caseID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sched := tui.NewScheduler()
	defer sched.Stop()

	adapter := player.NewAdapter(player.AdapterConfig{
		Factory:  mpv.NewFactory(cfg.MpvSocket(), logger),
		Logger:   logger,
		Dispatch: sched.Post,
	})

	ctrl := caseview.New(caseview.Config{
		Source:           casesclient.New(cfg.ServerURL(), logger),
		Analyzer:         analysis.NewStubAnalyzer(cfg.AnalysisDelay(), logger),
		Player:           adapter,
		Scheduler:        sched,
		Logger:           logger,
		PollInterval:     cfg.PollInterval(),
		InitialLoadDelay: cfg.InitialLoadDelay(),
		DefaultCaseID:    caseID,
	})
	defer ctrl.Close()

	model := tui.NewModel(tui.Config{
		Controller: ctrl,
		Context:    ctx,
		ExportDir:  cfg.ExportDir(),
		Logger:     logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	sched.Start(p.Send)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("review console: %w", err)
	}
	logger.Info("review console closed")
	return nil
}

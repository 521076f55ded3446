// main is the entry point of the terminal client.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Open the log file and initialise the logger (stdout belongs to the UI)
//  3. Build the REST client
//  4. Run the bubbletea program until the user quits
//
// RUNNING THE CLIENT:
//
//	go run ./cmd/students-tui --config=config/tui.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aanand-mishra/students-roster/internal/client"
	"github.com/aanand-mishra/students-roster/internal/config"
	"github.com/aanand-mishra/students-roster/internal/logger"
	"github.com/aanand-mishra/students-roster/internal/tui"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoadClient()
	validation.SetBranches(cfg.Branches)

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file %s: %v\n", cfg.LogPath, err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.Setup(cfg.Env, logFile)
	slog.SetDefault(log)

	log.Info("starting students-tui",
		slog.String("env", cfg.Env),
		slog.String("base_url", cfg.BaseURL),
	)

	// ── 3. Build the REST Client ──────────────────────────────────────────
	api := client.New(cfg.BaseURL, cfg.RequestTimeout, log)

	// ── 4. Run the Program ────────────────────────────────────────────────
	// SIGTERM cancels in-flight requests; Ctrl+C is a key press inside the
	// alternate screen and quits through the model.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	model := tui.New(ctx, api, tui.Options{
		PageLength:  cfg.Table.PageLength,
		PageLengths: cfg.Table.PageLengths,
		AckDelay:    cfg.AckDelay,
		Logger:      log,
	})
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		log.Error("program exited with error", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}

	log.Info("students-tui stopped")
}
